// Package repl provides the interactive matrix65 shell.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ergochat/readline"

	"github.com/mlund/matrix65/filehost"
	"github.com/mlund/matrix65/monitor"
	"github.com/mlund/matrix65/prg"
	"github.com/mlund/matrix65/textui"
	"github.com/mlund/matrix65/util"
)

var completer = readline.NewPrefixCompleter(
	readline.PcItem("help"),
	readline.PcItem("reset", readline.PcItem("-c64")),
	readline.PcItem("go64"),
	readline.PcItem("go65"),
	readline.PcItem("stop"),
	readline.PcItem("start"),
	readline.PcItem("peek"),
	readline.PcItem("poke"),
	readline.PcItem("type"),
	readline.PcItem("prg"),
	readline.PcItem("filehost"),
	readline.PcItem("quit"),
)

// REPL reads commands line by line and executes them against one
// monitor session. Command failures are printed, never fatal.
type REPL struct {
	session *monitor.Session
	loader  *prg.Loader
	rl      *readline.Instance
	out     io.Writer
}

func New(session *monitor.Session, loader *prg.Loader) (*REPL, error) {
	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:       "matrix65> ",
		HistoryFile:  filepath.Join(os.TempDir(), "matrix65_history"),
		AutoComplete: completer,
	})
	if err != nil {
		return nil, fmt.Errorf("repl: %w", err)
	}
	r := &REPL{session: session, loader: loader, rl: rl, out: os.Stdout}
	if r.loader.Select == nil {
		r.loader.Select = r.selectEntry
	}
	return r, nil
}

func (r *REPL) Close() error { return r.rl.Close() }

func (r *REPL) Run() error {
	fmt.Fprintln(r.out, "Welcome to matrix65! Type help for commands.")
	for {
		line, err := r.rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := r.dispatch(fields[0], fields[1:]); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	}
}

func (r *REPL) dispatch(cmd string, args []string) error {
	switch cmd {
	case "help":
		r.printHelp()
		return nil
	case "reset":
		if err := r.session.Reset(); err != nil {
			return err
		}
		if len(args) > 0 && args[0] == "-c64" {
			return r.session.Go64()
		}
		return nil
	case "go64":
		return r.session.Go64()
	case "go65":
		return r.session.Go65()
	case "stop":
		return r.session.StopCPU()
	case "start":
		return r.session.StartCPU()
	case "peek":
		return r.peek(args)
	case "poke":
		return r.poke(args)
	case "type":
		if len(args) == 0 {
			return errors.New("usage: type <text>")
		}
		return r.session.TypeText(strings.Join(args, " "))
	case "prg":
		return r.prg(args)
	case "filehost":
		return r.filehost()
	default:
		return fmt.Errorf("unknown command %q; try help", cmd)
	}
}

func (r *REPL) printHelp() {
	fmt.Fprint(r.out, `reset [-c64]          reset the machine, optionally into C64 mode
go64 | go65           switch machine mode
stop | start          halt or resume the CPU
peek <addr> [len]     hexdump memory
poke <addr> <val...>  write byte values
type <text>           send keystrokes ("\r" for return)
prg <file> [-r]       transfer a program, -r runs it
filehost              browse the FileHost catalog
quit                  leave the shell
`)
}

func (r *REPL) peek(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: peek <addr> [len]")
	}
	address, err := util.ParseAddress(args[0], 32)
	if err != nil {
		return err
	}
	length := 1
	if len(args) > 1 {
		if length, err = strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("invalid length %q", args[1])
		}
	}
	data, err := r.session.ReadMemory(uint32(address), length)
	if err != nil {
		return err
	}
	util.Hexdump(r.out, data, 8)
	return nil
}

func (r *REPL) poke(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: poke <addr> <val...>")
	}
	address, err := util.ParseAddress(args[0], 16)
	if err != nil {
		return err
	}
	data := make([]byte, 0, len(args)-1)
	for _, a := range args[1:] {
		v, err := strconv.ParseUint(a, 0, 8)
		if err != nil {
			return fmt.Errorf("invalid byte value %q", a)
		}
		data = append(data, byte(v))
	}
	if err := monitor.ValidateRange(uint16(address), len(data)); err != nil {
		return err
	}
	return r.session.WriteMemory(uint16(address), data)
}

func (r *REPL) prg(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: prg <file> [-r]")
	}
	run := false
	for _, a := range args[1:] {
		if a == "-r" {
			run = true
		}
	}
	program, err := r.loader.LoadProgram(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "transferring %d byte(s) to %s\n", len(program.Data), program.Address)
	return r.session.HandleProgram(program, false, run)
}

func (r *REPL) filehost() error {
	records, err := filehost.GetFileList()
	if err != nil {
		return err
	}
	entries := filehost.FilterProgramFiles(records)
	return textui.Run(r.session, r.loader, entries)
}

// selectEntry prompts for a disk-image entry by number.
func (r *REPL) selectEntry(entries []prg.DirEntry) (int, error) {
	for i, e := range entries {
		fmt.Fprintf(r.out, "[%d] %s\n", i, e.Name)
	}
	r.rl.SetPrompt("select> ")
	defer r.rl.SetPrompt("matrix65> ")
	line, err := r.rl.ReadLine()
	if err != nil {
		return 0, err
	}
	index, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, prg.ErrInvalidSelection
	}
	return index, nil
}

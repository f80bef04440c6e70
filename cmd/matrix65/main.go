// matrix65 is a serial communicator for the MEGA65 retro computer: it
// pushes programs, injects keystrokes and peeks and pokes memory
// through the machine's built-in monitor interface.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/mlund/matrix65/filehost"
	"github.com/mlund/matrix65/monitor"
	"github.com/mlund/matrix65/monitor/serialport"
	"github.com/mlund/matrix65/prg"
	"github.com/mlund/matrix65/repl"
	"github.com/mlund/matrix65/textui"
	"github.com/mlund/matrix65/util"
)

// include these transport drivers:
import (
	_ "github.com/mlund/matrix65/monitor/loopback"
)

func init() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

const commandHelp = `commands:
  prg       transfer and optionally run a program file
  type      send keystrokes
  reset     reset the machine
  peek      read memory
  poke      write memory
  filehost  browse the MEGA65 FileHost catalog
  repl      interactive shell
  ports     list serial ports
`

func run(args []string) error {
	fs := flag.NewFlagSet("matrix65", flag.ContinueOnError)
	port := fs.String("p", "", "serial device name, e.g. /dev/ttyUSB0 or COM3")
	baud := fs.Int("b", serialport.DefaultBaudRate, "baud rate")
	driver := fs.String("d", "serial", "transport driver ("+strings.Join(monitor.Drivers(), ", ")+")")
	verbose := fs.Bool("v", false, "verbose wire logging")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: matrix65 [flags] <command> [command flags]")
		fmt.Fprint(fs.Output(), commandHelp)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errors.New("no command given")
	}
	cmd, cmdArgs := rest[0], rest[1:]

	if cmd == "ports" {
		return listPorts(os.Stdout)
	}

	spec := *port
	if *driver == "serial" && *baud != serialport.DefaultBaudRate {
		spec = fmt.Sprintf("%s;%d", spec, *baud)
	}
	t, err := monitor.Open(*driver, spec)
	if err != nil {
		listPorts(os.Stderr)
		return err
	}
	defer t.Close()

	session := monitor.NewSession(t)
	// OpenDisk stays nil until a CBM disk-image reader is plugged in;
	// until then .d64/.d81 names report a configuration error
	loader := &prg.Loader{Select: promptSelect}

	switch cmd {
	case "prg":
		return cmdPrg(session, loader, cmdArgs)
	case "type":
		return cmdType(session, cmdArgs)
	case "reset":
		return cmdReset(session, cmdArgs)
	case "peek":
		return cmdPeek(session, cmdArgs)
	case "poke":
		return cmdPoke(session, cmdArgs)
	case "filehost":
		return cmdFilehost(session, loader)
	case "repl":
		return cmdRepl(session, loader)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func listPorts(w io.Writer) error {
	names, err := serialport.ListPorts()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(w, "no serial ports found")
		return nil
	}
	fmt.Fprintln(w, "available serial ports:")
	for _, n := range names {
		fmt.Fprintf(w, "  %s\n", n)
	}
	return nil
}

func cmdPrg(session *monitor.Session, loader *prg.Loader, args []string) error {
	fs := flag.NewFlagSet("prg", flag.ContinueOnError)
	file := fs.String("f", "", "program file or URL (*.prg, *.d64, *.d81)")
	runIt := fs.Bool("r", false, "run after loading")
	reset := fs.Bool("reset", false, "reset before loading")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return errors.New("prg: -f FILE required")
	}
	program, err := loader.LoadProgram(*file)
	if err != nil {
		return err
	}
	fmt.Printf("transferring %d byte(s) to %s\n", len(program.Data), program.Address)
	return session.HandleProgram(program, *reset, *runIt)
}

func cmdType(session *monitor.Session, args []string) error {
	fs := flag.NewFlagSet("type", flag.ContinueOnError)
	text := fs.String("t", "", `text to type; use "\r" for return`)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *text == "" {
		return errors.New("type: -t TEXT required")
	}
	return session.TypeText(*text)
}

func cmdReset(session *monitor.Session, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	c64 := fs.Bool("c64", false, "boot into C64 mode after the reset")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := session.Reset(); err != nil {
		return err
	}
	if *c64 {
		return session.Go64()
	}
	return nil
}

func cmdPeek(session *monitor.Session, args []string) error {
	fs := flag.NewFlagSet("peek", flag.ContinueOnError)
	addr := fs.String("a", "", "address to read from (e.g. 4096 or 0x1000)")
	length := fs.Int("l", 1, "number of bytes")
	outfile := fs.String("o", "", "save to file instead of printing")
	hist := fs.Bool("histogram", false, "plot a byte-value histogram instead of a hexdump")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *addr == "" {
		return errors.New("peek: -a ADDRESS required")
	}
	address, err := util.ParseAddress(*addr, 32)
	if err != nil {
		return err
	}
	data, err := session.ReadMemory(uint32(address), *length)
	if err != nil {
		return err
	}
	switch {
	case *outfile != "":
		return util.SaveBinary(*outfile, data)
	case *hist:
		return util.ByteHistogram(os.Stdout, data)
	default:
		util.Hexdump(os.Stdout, data, 8)
		return nil
	}
}

func cmdPoke(session *monitor.Session, args []string) error {
	fs := flag.NewFlagSet("poke", flag.ContinueOnError)
	addr := fs.String("a", "", "address to write to (e.g. 4096 or 0x1000)")
	value := fs.Int("val", -1, "single byte value")
	file := fs.String("f", "", "file with bytes to write")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *addr == "" {
		return errors.New("poke: -a ADDRESS required")
	}
	address, err := util.ParseAddress(*addr, 16)
	if err != nil {
		return err
	}
	var data []byte
	switch {
	case *file != "":
		if data, err = prg.LoadBytes(*file); err != nil {
			return err
		}
	case *value >= 0 && *value <= 0xFF:
		data = []byte{byte(*value)}
	default:
		return errors.New("poke: -val VALUE or -f FILE required")
	}
	if err := monitor.ValidateRange(uint16(address), len(data)); err != nil {
		return err
	}
	return session.WriteMemory(uint16(address), data)
}

func cmdFilehost(session *monitor.Session, loader *prg.Loader) error {
	records, err := filehost.GetFileList()
	if err != nil {
		return err
	}
	return textui.Run(session, loader, filehost.FilterProgramFiles(records))
}

func cmdRepl(session *monitor.Session, loader *prg.Loader) error {
	r, err := repl.New(session, loader)
	if err != nil {
		return err
	}
	defer r.Close()
	return r.Run()
}

// promptSelect asks for a disk-image entry by number on stdin.
func promptSelect(entries []prg.DirEntry) (int, error) {
	for i, e := range entries {
		fmt.Printf("[%d] %s\n", i, e.Name)
	}
	fmt.Print("Select: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return 0, err
	}
	index, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, prg.ErrInvalidSelection
	}
	return index, nil
}

// Package textui is the full-screen FileHost catalog browser: pick an
// entry, push it to the machine and run it without leaving the
// terminal.
package textui

import (
	"fmt"
	"os"
	"strings"

	"github.com/skratchdot/open-golang/open"
	"golang.org/x/term"

	"github.com/mlund/matrix65/filehost"
	"github.com/mlund/matrix65/monitor"
	"github.com/mlund/matrix65/prg"
)

const messageLimit = 6

type ui struct {
	session *monitor.Session
	loader  prg.Loader
	entries []filehost.Record

	selected       int
	resetBeforeRun bool
	messages       []string
	styles         styles

	in  *os.File
	out *os.File
}

// Run browses the given catalog entries until the user quits. The
// terminal is switched to raw mode for the duration.
func Run(session *monitor.Session, loader *prg.Loader, entries []filehost.Record) error {
	if len(entries) == 0 {
		return fmt.Errorf("textui: no catalog entries to browse")
	}
	u := &ui{
		session: session,
		loader:  *loader,
		entries: entries,
		styles:  newStyles(),
		in:      os.Stdin,
		out:     os.Stdout,
	}
	u.loader.Select = u.selectEntry

	oldState, err := term.MakeRaw(int(u.in.Fd()))
	if err != nil {
		return fmt.Errorf("textui: raw mode: %w", err)
	}
	defer func() {
		term.Restore(int(u.in.Fd()), oldState)
		fmt.Fprint(u.out, "\x1b[2J\x1b[H")
	}()

	return u.loop()
}

func (u *ui) loop() error {
	for {
		u.render()
		key, err := u.readKey()
		if err != nil {
			return err
		}
		switch key {
		case 'q', 0x03: // q or ctrl-c
			return nil
		case 'j', keyDown:
			if u.selected < len(u.entries)-1 {
				u.selected++
			}
		case 'k', keyUp:
			if u.selected > 0 {
				u.selected--
			}
		case 'g':
			u.selected = 0
		case 'G':
			u.selected = len(u.entries) - 1
		case 'd':
			u.resetBeforeRun = !u.resetBeforeRun
		case 'w':
			entry := &u.entries[u.selected]
			if err := open.Start(entry.DownloadURL()); err != nil {
				u.say(u.styles.err.Render(fmt.Sprintf("open: %v", err)))
			} else {
				u.say("opened " + entry.Filename + " in browser")
			}
		case 'r', '\r':
			u.runSelected()
		}
	}
}

// runSelected fetches the selected entry and pushes it to the machine.
// Failures land in the message log; the selection state is untouched so
// the user can retry or move on.
func (u *ui) runSelected() {
	entry := &u.entries[u.selected]
	u.say(u.styles.busy.Render("fetching " + entry.Filename + "..."))
	u.render()

	program, err := u.loader.LoadProgram(entry.DownloadURL())
	if err != nil {
		u.say(u.styles.err.Render(err.Error()))
		return
	}
	u.say(u.styles.busy.Render(fmt.Sprintf("transferring %d byte(s) to %s...", len(program.Data), program.Address)))
	u.render()
	if err := u.session.HandleProgram(program, u.resetBeforeRun, true); err != nil {
		u.say(u.styles.err.Render(err.Error()))
		return
	}
	u.say("running " + entry.Title)
}

func (u *ui) say(msg string) {
	u.messages = append(u.messages, msg)
	if len(u.messages) > messageLimit {
		u.messages = u.messages[len(u.messages)-messageLimit:]
	}
}

func (u *ui) render() {
	_, rows, err := term.GetSize(int(u.in.Fd()))
	if err != nil || rows < 12 {
		rows = 24
	}
	listRows := rows - messageLimit - 5

	var b strings.Builder
	b.WriteString("\x1b[2J\x1b[H")

	reset := "off"
	if u.resetBeforeRun {
		reset = "on"
	}
	line := func(s string) {
		b.WriteString(s)
		b.WriteString("\r\n")
	}
	line(u.styles.title.Render(fmt.Sprintf(" MEGA65 FileHost — %d files — reset before run: %s ", len(u.entries), reset)))

	first := u.selected - listRows/2
	if first > len(u.entries)-listRows {
		first = len(u.entries) - listRows
	}
	if first < 0 {
		first = 0
	}
	for i := first; i < first+listRows && i < len(u.entries); i++ {
		e := &u.entries[i]
		text := fmt.Sprintf(" %-40.40s %-10.10s %-20.20s", e.Title, e.Kind, e.Author)
		if i == u.selected {
			line(u.styles.selected.Render("*" + text))
		} else {
			line(u.styles.entry.Render(" " + text))
		}
	}

	entry := &u.entries[u.selected]
	line(u.styles.info.Render(fmt.Sprintf(" %s — %s bytes — published %s", entry.Filename, entry.Size, entry.Published)))
	for _, m := range u.messages {
		line(u.styles.message.Render(" " + m))
	}
	line(u.styles.help.Render(" j/k move  r/enter run  w browser  d toggle reset  q quit"))
	fmt.Fprint(u.out, b.String())
}

// selectEntry pops a picker for PRG entries on a disk image.
func (u *ui) selectEntry(entries []prg.DirEntry) (int, error) {
	selected := 0
	for {
		var b strings.Builder
		b.WriteString("\x1b[2J\x1b[H")
		b.WriteString(u.styles.title.Render(" Select file on disk image "))
		b.WriteString("\r\n")
		for i, e := range entries {
			text := " " + e.Name
			if i == selected {
				b.WriteString(u.styles.selected.Render("*" + text))
			} else {
				b.WriteString(u.styles.entry.Render(" " + text))
			}
			b.WriteString("\r\n")
		}
		b.WriteString(u.styles.help.Render(" j/k move  enter select  q cancel"))
		fmt.Fprint(u.out, b.String())

		key, err := u.readKey()
		if err != nil {
			return 0, err
		}
		switch key {
		case 'q', 0x03:
			return 0, prg.ErrInvalidSelection
		case 'j', keyDown:
			if selected < len(entries)-1 {
				selected++
			}
		case 'k', keyUp:
			if selected > 0 {
				selected--
			}
		case '\r':
			return selected, nil
		}
	}
}

// synthetic key codes outside the byte range for escape sequences
const (
	keyUp rune = iota + 0x110000
	keyDown
)

// readKey reads one keypress, folding the cursor escape sequences onto
// synthetic codes.
func (u *ui) readKey() (rune, error) {
	buf := make([]byte, 3)
	n, err := u.in.Read(buf)
	if err != nil {
		return 0, err
	}
	if n >= 3 && buf[0] == 0x1b && buf[1] == '[' {
		switch buf[2] {
		case 'A':
			return keyUp, nil
		case 'B':
			return keyDown, nil
		}
		return 0, nil
	}
	if n >= 1 {
		return rune(buf[0]), nil
	}
	return 0, nil
}

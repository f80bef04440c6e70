package prg

import (
	"fmt"
	"path"
	"strings"
)

// SelectFunc picks one entry from a list of disk-image candidates.
// The choice is a UI concern: the CLI prompts on stdin, the TUI pops a
// selector list.
type SelectFunc func(entries []DirEntry) (int, error)

// Loader resolves a program identifier (file path or URL) to a Program.
type Loader struct {
	OpenDisk DiskOpener // nil disables disk-image containers
	Select   SelectFunc // nil picks the first candidate
}

// LoadProgram dispatches on the file extension: a bare name or .prg is
// a direct program file, .d64/.d81 go through the disk-image directory.
// Unrecognized extensions fail before any device interaction.
func (l *Loader) LoadProgram(name string) (*Program, error) {
	ext := strings.ToLower(path.Ext(name))
	switch ext {
	case "", ".prg":
		raw, err := LoadBytes(name)
		if err != nil {
			return nil, err
		}
		return ParseProgram(raw)
	case ".d64", ".d81":
		return l.loadFromDisk(name)
	default:
		return nil, fmt.Errorf("%w: unrecognized extension %q", ErrInvalidFormat, ext)
	}
}

func (l *Loader) loadFromDisk(name string) (*Program, error) {
	if l.OpenDisk == nil {
		return nil, fmt.Errorf("%w: no disk-image reader configured", ErrInvalidFormat)
	}
	d, err := l.OpenDisk(name)
	if err != nil {
		return nil, err
	}
	entries, err := Candidates(d)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no PRG entries on disk image", ErrInvalidFormat)
	}
	index := 0
	if l.Select != nil {
		if index, err = l.Select(entries); err != nil {
			return nil, err
		}
	}
	return LoadEntry(d, entries, index)
}

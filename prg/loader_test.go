package prg

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestParseProgram(t *testing.T) {
	p, err := ParseProgram([]byte{0x01, 0x08, 0xaa, 0xbb})
	if err != nil {
		t.Fatal(err)
	}
	if p.Address != Commodore64 {
		t.Fatalf("address %v, want c64", p.Address)
	}
	if !bytes.Equal(p.Data, []byte{0xaa, 0xbb}) {
		t.Fatalf("payload % 02x", p.Data)
	}
}

func TestParseProgramTooShort(t *testing.T) {
	if _, err := ParseProgram([]byte{0x01}); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("got %v, want ErrInvalidFormat", err)
	}
}

func TestLoadProgramFromFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "demo.prg")
	if err := os.WriteFile(name, []byte{0x01, 0x20, 0x60}, 0644); err != nil {
		t.Fatal(err)
	}
	var l Loader
	p, err := l.LoadProgram(name)
	if err != nil {
		t.Fatal(err)
	}
	if p.Address != Commodore65 {
		t.Fatalf("address %v, want c65", p.Address)
	}
	if !bytes.Equal(p.Data, []byte{0x60}) {
		t.Fatalf("payload % 02x", p.Data)
	}
}

func TestLoadProgramUnknownExtension(t *testing.T) {
	var l Loader
	if _, err := l.LoadProgram("image.tap"); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("got %v, want ErrInvalidFormat", err)
	}
}

func TestLoadBytesTooLarge(t *testing.T) {
	name := filepath.Join(t.TempDir(), "huge.prg")
	if err := os.WriteFile(name, make([]byte, 0x10001), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBytes(name); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("got %v, want ErrInvalidFormat", err)
	}
}

// fakeDisk is an in-memory stand-in for the external disk-image parser.
type fakeDisk struct {
	entries []DirEntry
	files   map[string][]byte
}

func (d *fakeDisk) Directory() ([]DirEntry, error) {
	return d.entries, nil
}

func (d *fakeDisk) Open(name string) (io.Reader, error) {
	raw, ok := d.files[name]
	if !ok {
		return nil, fmt.Errorf("no such file %q", name)
	}
	return bytes.NewReader(raw), nil
}

func newFakeDisk() *fakeDisk {
	return &fakeDisk{
		entries: []DirEntry{
			{Name: "NOTES", Type: "SEQ"},
			{Name: "GAME", Type: "PRG"},
			{Name: "LOADER", Type: "PRG"},
		},
		files: map[string][]byte{
			"GAME":   {0x01, 0x08, 0x11, 0x22},
			"LOADER": {0x01, 0x20, 0x33},
		},
	}
}

func TestCandidatesFiltersPRG(t *testing.T) {
	entries, err := Candidates(newFakeDisk())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("%d candidates, want 2", len(entries))
	}
	if entries[0].Name != "GAME" || entries[1].Name != "LOADER" {
		t.Fatalf("candidates %v", entries)
	}
}

func TestLoadEntry(t *testing.T) {
	d := newFakeDisk()
	entries, _ := Candidates(d)

	p, err := LoadEntry(d, entries, 0)
	if err != nil {
		t.Fatal(err)
	}
	if p.Address != Commodore64 {
		t.Fatalf("address %v, want c64", p.Address)
	}
	if !bytes.Equal(p.Data, []byte{0x11, 0x22}) {
		t.Fatalf("payload % 02x", p.Data)
	}

	if _, err := LoadEntry(d, entries, 2); !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("got %v, want ErrInvalidSelection", err)
	}
	if _, err := LoadEntry(d, entries, -1); !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("got %v, want ErrInvalidSelection", err)
	}
}

func TestLoadProgramFromDiskImage(t *testing.T) {
	l := Loader{
		OpenDisk: func(name string) (Disk, error) { return newFakeDisk(), nil },
		Select: func(entries []DirEntry) (int, error) {
			// pick LOADER
			return 1, nil
		},
	}
	p, err := l.LoadProgram("games.d81")
	if err != nil {
		t.Fatal(err)
	}
	if p.Address != Commodore65 {
		t.Fatalf("address %v, want c65", p.Address)
	}
	if !bytes.Equal(p.Data, []byte{0x33}) {
		t.Fatalf("payload % 02x", p.Data)
	}
}

func TestLoadProgramDiskImageWithoutOpener(t *testing.T) {
	var l Loader
	if _, err := l.LoadProgram("games.d64"); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("got %v, want ErrInvalidFormat", err)
	}
}

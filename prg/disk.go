package prg

import "io"

// DirEntry describes one file in a disk-image directory listing.
type DirEntry struct {
	Name string
	Type string // CBM file type, e.g. "PRG" or "SEQ"
}

// Disk is the directory surface of a CBM disk-image container
// (.d64/.d81). Parsing the container format itself is an external
// concern; this package only consumes listings and per-entry readers.
type Disk interface {
	Directory() ([]DirEntry, error)
	Open(name string) (io.Reader, error)
}

// DiskOpener opens a disk image by file name or URL.
type DiskOpener func(name string) (Disk, error)

// Candidates lists the loadable PRG entries on a disk.
func Candidates(d Disk) ([]DirEntry, error) {
	all, err := d.Directory()
	if err != nil {
		return nil, err
	}
	var prgs []DirEntry
	for _, e := range all {
		if e.Type == "PRG" {
			prgs = append(prgs, e)
		}
	}
	return prgs, nil
}

// LoadEntry materializes the index'th candidate as a Program, stripping
// its embedded load address exactly like a direct PRG file.
func LoadEntry(d Disk, entries []DirEntry, index int) (*Program, error) {
	if index < 0 || index >= len(entries) {
		return nil, ErrInvalidSelection
	}
	r, err := d.Open(entries[index].Name)
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseProgram(raw)
}

package prg

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

var (
	// ErrInvalidFormat rejects files that are not loadable programs;
	// raised before any device interaction.
	ErrInvalidFormat = errors.New("prg: invalid file format")

	// ErrInvalidSelection rejects an out-of-range disk entry index.
	ErrInvalidSelection = errors.New("prg: invalid disk entry selection")
)

// Program is a byte payload paired with the address it loads at.
type Program struct {
	Address LoadAddress
	Data    []byte
}

// ParseProgram splits raw PRG bytes into load address and payload.
// The first two bytes form the little-endian load address and are
// stripped from the payload.
func ParseProgram(raw []byte) (*Program, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("%w: missing load address", ErrInvalidFormat)
	}
	return &Program{
		Address: Classify(binary.LittleEndian.Uint16(raw[0:2])),
		Data:    raw[2:],
	}, nil
}

// LoadBytes reads a whole file from a local path or an http(s) URL.
// Anything that cannot fit the 16-bit address space is rejected.
func LoadBytes(name string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		data, err = loadBytesURL(name)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}
	if len(data) > 0xFFFF {
		return nil, fmt.Errorf("%w: %d bytes exceed the 16-bit address space", ErrInvalidFormat, len(data))
	}
	return data, nil
}

func loadBytesURL(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prg: fetch %s: %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

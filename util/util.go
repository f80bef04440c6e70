// Package util holds small output and parsing helpers shared by the
// CLI, REPL and TUI.
package util

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
)

// Hexdump prints bytes as 0x-prefixed hex, perLine values per row.
func Hexdump(w io.Writer, data []byte, perLine int) {
	for i, b := range data {
		fmt.Fprintf(w, "0x%02x ", b)
		if (i+1)%perLine == 0 {
			fmt.Fprintln(w)
		}
	}
	if len(data)%perLine != 0 {
		fmt.Fprintln(w)
	}
}

// SaveBinary writes bytes to a file.
func SaveBinary(name string, data []byte) error {
	return os.WriteFile(name, data, 0644)
}

// ByteHistogram renders the value distribution of a memory block, 16
// bins across 0..255. Handy for spotting code vs. graphics vs. cleared
// regions at a glance.
func ByteHistogram(w io.Writer, data []byte) error {
	values := make([]float64, len(data))
	for i, b := range data {
		values[i] = float64(b)
	}
	hist := histogram.Hist(16, values)
	return histogram.Fprint(w, hist, histogram.Linear(40))
}

// ParseAddress parses a decimal or 0x-prefixed hexadecimal address.
func ParseAddress(s string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return v, nil
}

// Package prg loads Commodore program images: raw PRG files, PRG
// entries inside CBM disk-image containers, and the load-address
// classification that decides which machine mode a program targets.
package prg

import "fmt"

// LoadAddress is the 16-bit memory location a program expects to be
// placed at, encoded little-endian in the first two bytes of a PRG
// file. The named constants are the canonical BASIC entry points; any
// other value is a custom address.
type LoadAddress uint16

const (
	PET          LoadAddress = 0x0401
	Commodore64  LoadAddress = 0x0801
	Commodore16  LoadAddress = 0x1001
	Commodore128 LoadAddress = 0x1c01
	Commodore65  LoadAddress = 0x2001
)

// Classify maps a raw 16-bit address onto its load address. The
// mapping preserves the value, so Classify(a).Value() == a for all a.
func Classify(address uint16) LoadAddress {
	return LoadAddress(address)
}

// Value returns the raw 16-bit address.
func (a LoadAddress) Value() uint16 { return uint16(a) }

// IsCustom reports whether the address is not a canonical entry point.
func (a LoadAddress) IsCustom() bool {
	switch a {
	case PET, Commodore64, Commodore16, Commodore128, Commodore65:
		return false
	}
	return true
}

func (a LoadAddress) String() string {
	switch a {
	case PET:
		return "pet ($0401)"
	case Commodore64:
		return "c64 ($0801)"
	case Commodore16:
		return "c16 ($1001)"
	case Commodore128:
		return "c128 ($1c01)"
	case Commodore65:
		return "c65 ($2001)"
	}
	return fmt.Sprintf("custom ($%04x)", uint16(a))
}

package monitor

import (
	"fmt"
	"log"
	"strings"
)

// keyboardRegister is the hardware register scanned for injected
// keystrokes; each write carries a (column, modifier) matrix code pair.
const keyboardRegister = 0xffd3615

// NoKey is the sentinel matrix code meaning "no key held".
const NoKey byte = 0x7f

const shiftModifier byte = 0x0f

type matrixPair struct {
	c1, c2 byte
}

// control and function keys, PETSCII codes
var controlKeys = map[rune]matrixPair{
	0x14: {0x00, NoKey}, // INST/DEL
	0x0d: {0x01, NoKey}, // RETURN
	0x1d: {0x02, NoKey}, // cursor right
	0xf7: {0x03, NoKey}, // F7
	0x9d: {0x02, shiftModifier}, // cursor left
	0x91: {0x07, shiftModifier}, // cursor up
	0xf1: {NoKey, 0x04}, // F1
	0xf3: {0x05, NoKey}, // F3
	0xf5: {0x06, NoKey}, // F5
	0x11: {0x07, NoKey}, // cursor down
	0x13: {0x33, NoKey}, // HOME
	0x03: {0x3f, NoKey}, // RUN/STOP
	0x0c: {0x3f, NoKey},
}

// printable keys by physical matrix position
var printableKeys = map[rune]byte{
	'3': 0x08, 'w': 0x09, 'a': 0x0a, '4': 0x0b,
	'z': 0x0c, 's': 0x0d, 'e': 0x0e, '5': 0x10,
	'r': 0x11, 'd': 0x12, '6': 0x13, 'c': 0x14,
	'f': 0x15, 't': 0x16, 'x': 0x17, '7': 0x18,
	'y': 0x19, 'g': 0x1a, '8': 0x1b, 'b': 0x1c,
	'h': 0x1d, 'u': 0x1e, 'v': 0x1f, '9': 0x20,
	'i': 0x21, 'j': 0x22, '0': 0x23, 'm': 0x24,
	'k': 0x25, 'o': 0x26, 'n': 0x27, '+': 0x28,
	'p': 0x29, 'l': 0x2a, '-': 0x2b, '.': 0x2c,
	':': 0x2d, '@': 0x2e, ',': 0x2f, '}': 0x30,
	'*': 0x31, ';': 0x32, '=': 0x35, '/': 0x37,
	'1': 0x38, '_': 0x39, '2': 0x3b, ' ': 0x3c,
	'q': 0x3e,
}

// characters typed as shift plus the key they share a position with
var shiftedKeys = map[rune]rune{
	'!': '1', '"': '2', '#': '3', '$': '4', '%': '5',
	'(': '8', ')': '9', '?': '/', '<': ',', '>': '.',
}

// MatrixCodes translates a character into the matrix code pair written
// to the keyboard register. Characters with no matrix position encode
// to the NoKey sentinel pair; typing them is a no-op, not an error.
func MatrixCodes(key rune) (c1, c2 byte) {
	c1, c2 = NoKey, NoKey
	if key >= 'A' && key <= 'Z' {
		key += 'a' - 'A'
	}
	if base, ok := shiftedKeys[key]; ok {
		key, c2 = base, shiftModifier
	}
	if p, ok := controlKeys[key]; ok {
		return p.c1, p.c2
	}
	if c, ok := printableKeys[key]; ok {
		c1 = c
	}
	return c1, c2
}

var escapeReplacer = strings.NewReplacer(`\r`, "\r", `\n`, "\r")

// TypeText injects text as keystrokes. Literal "\r" and "\n" escape
// sequences become the machine's return key. Keystrokes are paced at
// the keyboard poll rate and the matrix is released afterwards, even
// when a keystroke write fails mid-text.
func (s *Session) TypeText(text string) (err error) {
	text = escapeReplacer.Replace(text)
	log.Printf("monitor: typing %d key(s)", len(text))
	s.settle(s.tim.Keypress)
	defer func() {
		// a failed keystroke must not stay latched in the matrix
		if rerr := s.releaseKeys(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	for _, key := range text {
		c1, c2 := MatrixCodes(key)
		if err := s.sendf("s%x %02x %02x\n", keyboardRegister, c1, c2); err != nil {
			return fmt.Errorf("monitor: keystroke: %w", err)
		}
		s.settle(s.tim.Keypress)
	}
	return nil
}

// releaseKeys clears the keystroke register. The release is sent three
// times; the keyboard scanner polls slowly and can miss a single one.
func (s *Session) releaseKeys() error {
	for i := 0; i < 3; i++ {
		if err := s.sendf("s%x %02x %02x\n", keyboardRegister, NoKey, NoKey); err != nil {
			return fmt.Errorf("monitor: release keys: %w", err)
		}
		s.settle(s.tim.Keypress)
	}
	return nil
}

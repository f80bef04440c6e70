// Package loopback emulates the MEGA65 serial monitor in memory. It
// answers dump, write, trace and keystroke commands with the same
// framing the hardware uses, which makes whole-session round trips
// testable without a machine on the other end of the cable. Import for
// side effects to register the "loopback" driver.
package loopback

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

const (
	chunkSize          = 16
	dumpHeaderSize     = 27
	continueHeaderSize = 18

	// same status byte the session probes for mode detection
	modeStatusAddress = 0xffd3030
	modeStatusC65     = 0x64
)

// Device is an in-memory monitor endpoint. Reads return n == 0 when no
// response bytes are pending, mirroring a serial read timeout. Not safe
// for concurrent use; the session contract is one caller at a time.
type Device struct {
	mem  map[uint32]byte
	out  bytes.Buffer
	line []byte

	// pending raw payload from an l command
	rawLeft int
	rawAddr uint32

	dumpAddr   uint32
	dumpChunks int

	halted bool
	resets int
	keys   []string
}

func NewDevice() *Device {
	d := &Device{mem: make(map[uint32]byte)}
	d.mem[modeStatusAddress] = modeStatusC65 // boots into C65 mode
	return d
}

func (d *Device) Read(p []byte) (int, error) {
	if d.out.Len() == 0 {
		return 0, nil // timeout
	}
	return d.out.Read(p)
}

func (d *Device) Write(p []byte) (int, error) {
	for _, b := range p {
		if d.rawLeft > 0 {
			d.mem[d.rawAddr] = b
			d.rawAddr++
			d.rawLeft--
			continue
		}
		switch b {
		case 0x15: // cancel any half-typed command
			d.line = d.line[:0]
		case '\r', '\n':
			d.exec(string(d.line))
			d.line = d.line[:0]
		default:
			d.line = append(d.line, b)
		}
	}
	return len(p), nil
}

func (d *Device) Close() error { return nil }

func (d *Device) exec(line string) {
	switch {
	case line == "":
	case line == "t1":
		d.halted = true
	case line == "t0":
		d.halted = false
	case line == "!":
		d.resets++
		d.halted = false
		d.mem[modeStatusAddress] = modeStatusC65
	case line == "m":
		d.emitHeader(continueHeaderSize)
		d.emitChunk()
	case strings.HasPrefix(line, "m"):
		addr, err := strconv.ParseUint(line[1:], 16, 32)
		if err != nil {
			d.out.WriteString("?\r\n")
			return
		}
		d.dumpAddr = uint32(addr)
		d.emitHeader(dumpHeaderSize)
		d.emitChunk()
	case strings.HasPrefix(line, "l"):
		fields := strings.Fields(line[1:])
		if len(fields) != 2 {
			d.out.WriteString("?\r\n")
			return
		}
		start, err1 := strconv.ParseUint(fields[0], 16, 32)
		end, err2 := strconv.ParseUint(fields[1], 16, 32)
		if err1 != nil || err2 != nil || end < start {
			d.out.WriteString("?\r\n")
			return
		}
		d.rawAddr = uint32(start)
		d.rawLeft = int(end - start)
	case strings.HasPrefix(line, "s"):
		d.keys = append(d.keys, strings.TrimSpace(line[1:]))
	}
}

// emitHeader writes the fixed-size status line preceding a dump frame.
// The session discards it unseen, only the length matters.
func (d *Device) emitHeader(size int) {
	header := fmt.Sprintf("\r\n:%07X", d.dumpAddr)
	for len(header) < size {
		header += " "
	}
	d.out.WriteString(header[:size])
}

// emitChunk writes one 16-byte frame as 32 uppercase hex characters.
func (d *Device) emitChunk() {
	for i := 0; i < chunkSize; i++ {
		fmt.Fprintf(&d.out, "%02X", d.mem[d.dumpAddr])
		d.dumpAddr++
	}
	d.dumpChunks++
}

// Poke seeds device memory ahead of a test.
func (d *Device) Poke(address uint32, values ...byte) {
	for i, v := range values {
		d.mem[address+uint32(i)] = v
	}
}

// Memory copies n bytes of device memory starting at address.
func (d *Device) Memory(address uint32, n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = d.mem[address+uint32(i)]
	}
	return data
}

// Keystrokes returns the keystroke register writes seen so far, as the
// operand text of each s command.
func (d *Device) Keystrokes() []string { return d.keys }

// DumpChunks counts the 16-byte frames emitted so far.
func (d *Device) DumpChunks() int { return d.dumpChunks }

func (d *Device) Halted() bool { return d.halted }
func (d *Device) Resets() int  { return d.resets }

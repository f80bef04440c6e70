package monitor

import (
	"encoding/hex"
	"fmt"
	"log"
	"time"
)

const (
	// one memory-dump frame carries 16 bytes as 32 hex characters
	chunkSize = 16

	// fixed header sizes preceding the first and subsequent dump frames
	dumpHeaderSize     = 27
	continueHeaderSize = 18
)

// Timing holds the fixed real-time delays the hardware needs between
// monitor commands. The zero value disables all delays, which is what
// tests want; DefaultTiming matches the real machine.
type Timing struct {
	Write      time.Duration // settle after writing a monitor command
	Keypress   time.Duration // between keystroke register writes
	Reset      time.Duration // boot time after a reset
	ModeSwitch time.Duration // warm switch into C64 mode
}

// DefaultTiming returns the delays for real hardware at 2,000,000 baud.
func DefaultTiming() Timing {
	return Timing{
		Write:      20 * time.Millisecond,
		Keypress:   20 * time.Millisecond,
		Reset:      4 * time.Second,
		ModeSwitch: 1 * time.Second,
	}
}

// Session drives the monitor protocol over a borrowed Transport. It is
// not safe for concurrent use; one protocol exchange is in flight at a
// time and every operation may block for the duration of its settle
// delays.
type Session struct {
	t   Transport
	tim Timing
}

// NewSession wraps an open transport with hardware timing.
func NewSession(t Transport) *Session {
	return &Session{t: t, tim: DefaultTiming()}
}

// NewSessionTiming wraps an open transport with explicit timing.
func NewSessionTiming(t Transport, tim Timing) *Session {
	return &Session{t: t, tim: tim}
}

func (s *Session) settle(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// send writes the whole buffer to the transport.
func (s *Session) send(buf []byte) error {
	sent := 0
	for sent < len(buf) {
		n, err := s.t.Write(buf[sent:])
		if err != nil {
			return err
		}
		sent += n
	}
	return nil
}

func (s *Session) sendf(format string, args ...interface{}) error {
	return s.send([]byte(fmt.Sprintf(format, args...)))
}

// recvFull reads exactly len(buf) bytes. A transport error propagates
// verbatim; a timed-out read is a short frame and therefore a
// ProtocolError.
func (s *Session) recvFull(op string, buf []byte) error {
	o := 0
	for o < len(buf) {
		n, err := s.t.Read(buf[o:])
		if err != nil {
			return err
		}
		if n <= 0 {
			return &ProtocolError{
				Op:  op,
				Err: fmt.Errorf("%w: got %d of %d bytes", ErrShortFrame, o, len(buf)),
			}
		}
		o += n
	}
	return nil
}

// discard reads and drops a fixed-size response header.
func (s *Session) discard(op string, n int) error {
	buf := make([]byte, n)
	return s.recvFull(op, buf)
}

// StopCPU halts the CPU so memory transfers do not race the running
// program.
func (s *Session) StopCPU() error {
	if err := s.send([]byte("t1\r")); err != nil {
		return fmt.Errorf("monitor: halt cpu: %w", err)
	}
	s.settle(s.tim.Write)
	return nil
}

// StartCPU resumes the CPU after a halt.
func (s *Session) StartCPU() error {
	if err := s.send([]byte("t0\r")); err != nil {
		return fmt.Errorf("monitor: resume cpu: %w", err)
	}
	s.settle(s.tim.Write)
	return nil
}

// Reset cold-resets the machine and blocks until it has booted. A cold
// reset always lands in C65 mode.
func (s *Session) Reset() error {
	log.Println("monitor: sending reset")
	if err := s.send([]byte("!\n")); err != nil {
		return fmt.Errorf("monitor: reset: %w", err)
	}
	s.settle(s.tim.Reset)
	return nil
}

// FlushMonitor cancels any half-finished monitor interaction and drains
// stray buffered bytes until the transport times out, so that the next
// dump starts on a clean line.
func (s *Session) FlushMonitor() error {
	if err := s.send([]byte{0x15, '#', '\r'}); err != nil {
		return fmt.Errorf("monitor: flush: %w", err)
	}
	b := make([]byte, 1)
	for {
		s.settle(s.tim.Write)
		n, err := s.t.Read(b)
		if err != nil || n <= 0 {
			return nil
		}
	}
}

// ReadMemory dumps length bytes starting at address, which may lie
// anywhere in the 28-bit address space. The CPU is halted for the
// duration of the transfer and resumed even when the transfer fails.
func (s *Session) ReadMemory(address uint32, length int) (data []byte, err error) {
	if length < 0 {
		return nil, fmt.Errorf("monitor: memory dump: %w: %d", ErrReadLength, length)
	}
	log.Printf("monitor: reading %d byte(s) from $%x", length, address)
	if err = s.FlushMonitor(); err != nil {
		return nil, err
	}
	if err = s.StopCPU(); err != nil {
		return nil, err
	}
	defer func() {
		// always release the halt bracket; a failed transfer must
		// not leave the machine stopped
		if rerr := s.StartCPU(); rerr != nil && err == nil {
			data, err = nil, rerr
		}
	}()

	if err = s.sendf("m%07x\r", address); err != nil {
		return nil, fmt.Errorf("monitor: memory dump: %w", err)
	}
	s.settle(s.tim.Write)
	if err = s.discard("memory dump header", dumpHeaderSize); err != nil {
		return nil, err
	}

	data = make([]byte, 0, length)
	hexbuf := make([]byte, chunkSize*2)
	chunk := make([]byte, chunkSize)
	for len(data) < length {
		if err = s.recvFull("memory dump", hexbuf); err != nil {
			return nil, err
		}
		if _, err = hex.Decode(chunk, hexbuf); err != nil {
			return nil, &ProtocolError{Op: "memory dump", Err: err}
		}
		data = append(data, chunk...)
		if len(data) >= length {
			break
		}
		if err = s.send([]byte("m\r")); err != nil {
			return nil, fmt.Errorf("monitor: memory dump: %w", err)
		}
		s.settle(s.tim.Write)
		if err = s.discard("memory dump header", continueHeaderSize); err != nil {
			return nil, err
		}
	}
	// frames carry 16 bytes; never return more than was asked for
	return data[:length], nil
}

// WriteMemory writes the payload into [address, address+len(data)).
// The range is not validated here; run ValidateRange first. The CPU is
// halted for the duration of the transfer and resumed even on failure.
func (s *Session) WriteMemory(address uint16, data []byte) (err error) {
	log.Printf("monitor: writing %d byte(s) to $%04x", len(data), address)
	if err = s.StopCPU(); err != nil {
		return err
	}
	defer func() {
		if rerr := s.StartCPU(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	end := uint32(address) + uint32(len(data))
	if err = s.sendf("l%x %x\r", address, end); err != nil {
		return fmt.Errorf("monitor: memory write: %w", err)
	}
	s.settle(s.tim.Write)
	if err = s.send(data); err != nil {
		return fmt.Errorf("monitor: memory write: %w", err)
	}
	s.settle(s.tim.Write)
	return nil
}

// ValidateRange checks that a write of length bytes at address stays
// inside the 16-bit address space. Empty writes are rejected outright;
// the write command names an exclusive end address which must itself be
// representable in 16 bits.
func ValidateRange(address uint16, length int) error {
	if length == 0 {
		return ErrEmptyWrite
	}
	if int(address)+length > 0xFFFF {
		return fmt.Errorf("%w: $%04x+%d", ErrAddressRange, address, length)
	}
	return nil
}

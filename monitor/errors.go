package monitor

import (
	"errors"
	"fmt"
)

var (
	// ErrShortFrame is reported when the transport returns fewer bytes
	// than a response frame requires before the read timeout expires.
	ErrShortFrame = errors.New("short response frame")

	// ErrEmptyWrite rejects zero-length memory writes.
	ErrEmptyWrite = errors.New("empty write payload")

	// ErrAddressRange rejects writes whose end address does not fit in
	// the 16-bit address space.
	ErrAddressRange = errors.New("write range exceeds the 16-bit address space")

	// ErrReadLength rejects memory reads with a negative length.
	ErrReadLength = errors.New("negative read length")

	// ErrUnsupportedLoadAddress rejects program transfers to entry
	// points with no matching mode transition.
	ErrUnsupportedLoadAddress = errors.New("unsupported load address")
)

// ProtocolError reports a malformed or truncated monitor response frame.
// It aborts the in-flight operation; nothing is retried.
type ProtocolError struct {
	Op  string // operation being performed, e.g. "memory dump"
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("monitor: %s: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

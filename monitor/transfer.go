package monitor

import (
	"fmt"

	"github.com/mlund/matrix65/prg"
)

// HandleProgram puts the machine in the mode matching the program's
// load address, writes the payload there and optionally types RUN.
// Only the C64 and C65 entry points have a launch sequence; all other
// load addresses are rejected, and the whole request is validated
// before the device is touched at all.
func (s *Session) HandleProgram(p *prg.Program, resetBeforeRun, run bool) error {
	switch p.Address {
	case prg.Commodore64, prg.Commodore65:
	default:
		return fmt.Errorf("monitor: %w: %s", ErrUnsupportedLoadAddress, p.Address)
	}
	if err := ValidateRange(p.Address.Value(), len(p.Data)); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}

	if resetBeforeRun {
		if err := s.Reset(); err != nil {
			return err
		}
	}
	var err error
	if p.Address == prg.Commodore65 {
		err = s.Go65()
	} else {
		err = s.Go64()
	}
	if err != nil {
		return err
	}
	if err := s.WriteMemory(p.Address.Value(), p.Data); err != nil {
		return err
	}
	if run {
		return s.TypeText("run\r")
	}
	return nil
}

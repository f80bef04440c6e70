package monitor

const (
	// modeStatusAddress holds a byte identifying the active ROM
	// personality; it reads 0x64 while the machine is in C65 mode.
	modeStatusAddress = 0xffd3030
	modeStatusC65     = 0x64
)

// IsC65Mode probes whether the machine currently runs in native C65
// mode. The answer is never cached: a manual reset or a running program
// can change the mode behind our back.
func (s *Session) IsC65Mode() (bool, error) {
	b, err := s.ReadMemory(modeStatusAddress, 1)
	if err != nil {
		return false, err
	}
	return b[0] == modeStatusC65, nil
}

// Go64 switches into C64 compatibility mode by typing the GO64 launch
// command and confirming its prompt. Does nothing if already there.
func (s *Session) Go64() error {
	c65, err := s.IsC65Mode()
	if err != nil {
		return err
	}
	if !c65 {
		return nil
	}
	if err := s.TypeText("go64\ry\r"); err != nil {
		return err
	}
	s.settle(s.tim.ModeSwitch)
	return nil
}

// Go65 returns to native C65 mode. A cold reset always lands there, so
// resetting is the whole transition.
func (s *Session) Go65() error {
	c65, err := s.IsC65Mode()
	if err != nil {
		return err
	}
	if c65 {
		return nil
	}
	return s.Reset()
}

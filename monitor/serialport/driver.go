// Package serialport provides the monitor Transport over a real serial
// port. Import for side effects to register the "serial" driver.
package serialport

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"github.com/mlund/matrix65/monitor"
)

// DefaultBaudRate is the speed of the MEGA65 UART monitor interface.
const DefaultBaudRate = 2000000

// readTimeout bounds every transport read; an expired read surfaces as
// n == 0, which the session treats as a short frame.
const readTimeout = 10 * time.Millisecond

var ErrNoPortName = errors.New("serialport: no port name given")

type Driver struct{}

// Open opens the named port at DefaultBaudRate, or at an explicit rate
// given as "name;baud".
func (d *Driver) Open(name string) (monitor.Transport, error) {
	parts := strings.Split(name, ";")

	portName := parts[0]
	if portName == "" {
		return nil, ErrNoPortName
	}

	baud := DefaultBaudRate
	if len(parts) > 1 {
		if n, err := strconv.Atoi(parts[1]); err == nil {
			baud = n
		}
	}

	f, err := serial.Open(portName, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("serialport: failed to open %s: %w", portName, err)
	}
	if err = f.SetReadTimeout(readTimeout); err != nil {
		f.Close()
		return nil, fmt.Errorf("serialport: failed to set read timeout: %w", err)
	}

	return f, nil
}

// ListPorts names the serial ports present on this machine, USB device
// details included where known. Used for the "try one of these" error
// path when opening fails.
func ListPorts() ([]string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("serialport: %w", err)
	}
	names := make([]string, 0, len(ports))
	for _, port := range ports {
		name := port.Name
		if port.IsUSB {
			name = fmt.Sprintf("%s (USB %s:%s)", port.Name, port.VID, port.PID)
		}
		names = append(names, name)
	}
	return names, nil
}

func init() {
	monitor.Register("serial", &Driver{})
}

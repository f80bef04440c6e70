// Package monitor speaks the MEGA65 serial monitor protocol: an ASCII
// command interface built into the machine for inspecting and modifying
// memory, controlling CPU execution and injecting keystrokes.
//
// A Session borrows an open Transport for the duration of each operation.
// All operations are synchronous; the fixed settle delays the hardware
// needs between commands are part of the Session's Timing and can be
// zeroed out for tests.
package monitor

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// Transport is a bidirectional byte stream to the device.
// Read is expected to honor a short fixed timeout and return n == 0 with a
// nil error when it expires. A timed-out read inside a framed response is
// treated as a short frame, never as a valid partial frame.
type Transport interface {
	io.Reader
	io.Writer
	io.Closer
}

// Driver opens a named Transport, e.g. a serial port.
type Driver interface {
	Open(name string) (Transport, error)
}

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// Register makes a transport driver available by the provided name.
// If Register is called twice with the same name or if driver is nil,
// it panics.
func Register(name string, driver Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if driver == nil {
		panic("monitor: Register driver is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("monitor: Register called twice for driver " + name)
	}
	drivers[name] = driver
}

// Drivers returns a sorted list of the names of the registered drivers.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	list := make([]string, 0, len(drivers))
	for name := range drivers {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

// Open opens a Transport via the named registered driver.
func Open(driverName, portName string) (Transport, error) {
	driversMu.RLock()
	driveri, ok := drivers[driverName]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("monitor: unknown driver %q (forgotten import?)", driverName)
	}

	return driveri.Open(portName)
}

package loopback

import "github.com/mlund/matrix65/monitor"

type Driver struct{}

func (d *Driver) Open(name string) (monitor.Transport, error) {
	return NewDevice(), nil
}

func init() {
	monitor.Register("loopback", &Driver{})
}

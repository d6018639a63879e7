//go:build !linux

package i2cdev

import "github.com/i2cflash/i2cflash-go/pkg/i2c"

// Bus is unavailable outside Linux.
type Bus struct{}

// Open always fails outside Linux.
func Open(path string) (*Bus, error) {
	return nil, ErrUnsupported
}

// Tx implements i2c.Bus.
func (b *Bus) Tx(address uint8, w, r []byte) error { return ErrUnsupported }

// Close implements i2c.Bus.
func (b *Bus) Close() error { return nil }

var _ i2c.Bus = (*Bus)(nil)

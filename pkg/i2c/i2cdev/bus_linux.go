//go:build linux

package i2cdev

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
	"periph.io/x/host/v3/sysfs"

	"github.com/i2cflash/i2cflash-go/pkg/i2c"
)

// adapter is the part of *sysfs.I2C the bus uses.
type adapter interface {
	Tx(addr uint16, w, r []byte) error
	Close() error
}

// Bus is an opened /dev/i2c-N adapter. It implements i2c.Bus.
type Bus struct {
	mu   sync.Mutex
	bus  adapter
	name string
}

// Open opens the i2c-dev adapter at path, e.g. /dev/i2c-1.
func Open(path string) (*Bus, error) {
	n, err := BusNumber(path)
	if err != nil {
		return nil, err
	}
	b, err := sysfs.NewI2C(n)
	if err != nil {
		return nil, fmt.Errorf("i2cdev: open %s: %w", path, err)
	}
	return newBus(b, path), nil
}

func newBus(b adapter, name string) *Bus {
	return &Bus{bus: b, name: name}
}

// Tx implements i2c.Bus. The adapter joins a write followed by a read with a
// repeated START.
func (b *Bus) Tx(address uint8, w, r []byte) error {
	if address < i2c.MinAddress || address > i2c.MaxAddress {
		return fmt.Errorf("%w: 0x%02x", i2c.ErrInvalidBusAddress, address)
	}
	if len(w) == 0 && len(r) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bus == nil {
		return i2c.ErrClosed
	}
	if err := b.bus.Tx(uint16(address), w, r); err != nil {
		return translate(address, err)
	}
	return nil
}

// translate maps the errno values adapters report for a missing ACK. The
// sysfs driver formats the errno into its message, so the text is matched
// when the errno is not wrapped.
func translate(address uint8, err error) error {
	for _, errno := range []unix.Errno{unix.ENXIO, unix.EREMOTEIO} {
		if errors.Is(err, errno) || strings.Contains(err.Error(), errno.Error()) {
			return fmt.Errorf("0x%02x: %w", address, i2c.ErrNoDevice)
		}
	}
	return fmt.Errorf("i2cdev: tx 0x%02x: %w", address, err)
}

// Close releases the adapter.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bus == nil {
		return nil
	}
	err := b.bus.Close()
	b.bus = nil
	return err
}

// Compile-time interface satisfaction check.
var _ i2c.Bus = (*Bus)(nil)

package eeprom

import (
	"fmt"
	"io"

	"github.com/i2cflash/i2cflash-go/pkg/i2c"
)

// Open resolves name and address against the catalog, obtains a port from
// ctrl and returns a store on it. Resolution errors are returned before the
// controller is touched.
func Open(ctrl i2c.Controller, name string, address uint8, opts ...Option) (*Store, error) {
	part, g, err := resolve(name, address)
	if err != nil {
		return nil, err
	}

	port, err := ctrl.Port(address)
	if err != nil {
		return nil, fmt.Errorf("open %s at 0x%02x: %w", part, address, err)
	}

	opts = append([]Option{WithName(part.String())}, opts...)
	s, err := NewStore(port, g, address, opts...)
	if err != nil {
		if c, ok := port.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, fmt.Errorf("open %s at 0x%02x: %w", part, address, err)
	}
	return s, nil
}

package i2c

import (
	"fmt"
	"sync"
)

// Address range usable by ordinary 7-bit slaves.
const (
	MinAddress uint8 = 0x08
	MaxAddress uint8 = 0x77
)

// RegisterPort implements Port and Prober on top of a Bus.
// It is safe for concurrent use when the underlying Bus is.
type RegisterPort struct {
	bus     Bus
	address uint8

	mu         sync.Mutex
	configured bool
	width      int
	register   bool
}

// NewRegisterPort returns an unconfigured port for the slave address.
func NewRegisterPort(bus Bus, address uint8) (*RegisterPort, error) {
	if address < MinAddress || address > MaxAddress {
		return nil, fmt.Errorf("%w: 0x%02x", ErrInvalidBusAddress, address)
	}
	return &RegisterPort{bus: bus, address: address}, nil
}

// Address returns the slave address.
func (p *RegisterPort) Address() uint8 {
	return p.address
}

// Configure implements Port.
func (p *RegisterPort) Configure(addressWidth int, registerAddressing bool) error {
	if addressWidth < 1 || addressWidth > 2 {
		return fmt.Errorf("%w: %d", ErrInvalidAddressWidth, addressWidth)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.width = addressWidth
	p.register = registerAddressing
	p.configured = true
	return nil
}

// ReadFrom implements Port.
func (p *RegisterPort) ReadFrom(address, length int) ([]byte, error) {
	reg, err := p.encode(address)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, length)
	if length == 0 {
		return buf, nil
	}
	if err := p.bus.Tx(p.address, reg, buf); err != nil {
		return nil, fmt.Errorf("read 0x%02x @ 0x%04x: %w", p.address, address, err)
	}
	return buf, nil
}

// WriteTo implements Port.
func (p *RegisterPort) WriteTo(address int, data []byte) error {
	reg, err := p.encode(address)
	if err != nil {
		return err
	}

	out := make([]byte, 0, len(reg)+len(data))
	out = append(out, reg...)
	out = append(out, data...)
	if len(out) == 0 {
		return nil
	}
	if err := p.bus.Tx(p.address, out, nil); err != nil {
		return fmt.Errorf("write 0x%02x @ 0x%04x: %w", p.address, address, err)
	}
	return nil
}

// Probe implements Prober with a one-byte current-address read, which does
// not disturb the memory array.
func (p *RegisterPort) Probe() error {
	var b [1]byte
	return p.bus.Tx(p.address, nil, b[:])
}

// encode returns the on-chip address bytes, MSB first.
func (p *RegisterPort) encode(address int) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.configured {
		return nil, ErrNotConfigured
	}
	if !p.register {
		return nil, nil
	}

	reg := make([]byte, p.width)
	for i := p.width - 1; i >= 0; i-- {
		reg[i] = byte(address)
		address >>= 8
	}
	return reg, nil
}

// Compile-time interface satisfaction check.
var (
	_ Port   = (*RegisterPort)(nil)
	_ Prober = (*RegisterPort)(nil)
)

package i2c

import "sync"

// BusController implements Controller for a Bus. Transactions issued by
// ports of the same controller are serialized.
type BusController struct {
	mu     sync.Mutex
	bus    Bus
	closed bool
}

// NewBusController wraps the bus. The controller owns the bus and closes it
// on Close.
func NewBusController(bus Bus) *BusController {
	return &BusController{bus: bus}
}

// Port implements Controller.
func (c *BusController) Port(address uint8) (Port, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}
	return NewRegisterPort(lockedBus{c}, address)
}

// Close implements Controller.
func (c *BusController) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.bus.Close()
}

// lockedBus serializes access to the controller's bus.
type lockedBus struct {
	c *BusController
}

func (l lockedBus) Tx(address uint8, w, r []byte) error {
	l.c.mu.Lock()
	defer l.c.mu.Unlock()

	if l.c.closed {
		return ErrClosed
	}
	return l.c.bus.Tx(address, w, r)
}

// Close is a no-op: the controller owns the bus.
func (l lockedBus) Close() error { return nil }

// Compile-time interface satisfaction check.
var _ Controller = (*BusController)(nil)

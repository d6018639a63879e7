package eeprom

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i2cflash/i2cflash-go/pkg/i2c"
	"github.com/i2cflash/i2cflash-go/pkg/log"
)

// Device is a byte-addressable memory.
type Device interface {
	Capacity() int
	Read(address, length int) ([]byte, error)
	Write(address int, data []byte) error
}

// Store is a 24xx EEPROM on an I2C port. It is safe for concurrent use;
// operations are serialized.
type Store struct {
	mu       sync.Mutex
	port     i2c.Port
	geometry Geometry
	address  uint8
	closed   bool

	name      string
	sessionID string
	logger    log.Logger
	waiter    WriteCycleWaiter
}

// NewStore configures port for geometry g and returns a store on it.
// The port is configured once, here, for register addressing with the
// geometry's address width.
func NewStore(port i2c.Port, g Geometry, address uint8, opts ...Option) (*Store, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	s := &Store{
		port:      port,
		geometry:  g,
		address:   address,
		sessionID: uuid.NewString(),
		logger:    log.NoopLogger{},
		waiter:    FixedDelay{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := port.Configure(g.AddressWidth, true); err != nil {
		return nil, fmt.Errorf("configure port: %w", err)
	}

	s.logState("", "open")
	return s, nil
}

// Capacity returns the size of the memory in bytes.
func (s *Store) Capacity() int { return s.geometry.Capacity }

// Geometry returns the geometry the store was opened with.
func (s *Store) Geometry() Geometry { return s.geometry }

// Address returns the bus address of the chip.
func (s *Store) Address() uint8 { return s.address }

// Name returns the part name, empty when the store was not opened by name.
func (s *Store) Name() string { return s.name }

// SessionID returns the session ID stamped on trace events.
func (s *Store) SessionID() string { return s.sessionID }

func (s *Store) checkRange(address, length int) error {
	capacity := s.geometry.Capacity
	if address < 0 || length < 0 || address > capacity || length > capacity-address {
		return fmt.Errorf("%w: 0x%04x+%d exceeds %d bytes", ErrOutOfRange, address, length, capacity)
	}
	return nil
}

// Read returns length bytes starting at address. The range is split at page
// boundaries. A zero length returns an empty slice without touching the bus.
func (s *Store) Read(address, length int) ([]byte, error) {
	if err := s.checkRange(address, length); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	out := make([]byte, length)
	for _, c := range SplitPages(address, length, s.geometry.PageSize) {
		start := time.Now()
		data, err := s.port.ReadFrom(c.Address, c.Length)
		if err == nil && len(data) != c.Length {
			err = fmt.Errorf("%w: %d of %d bytes", ErrShortRead, len(data), c.Length)
		}
		if err != nil {
			s.logError(fmt.Sprintf("read 0x%04x+%d", c.Address, c.Length), err)
			return nil, fmt.Errorf("read 0x%04x+%d: %w", c.Address, c.Length, err)
		}
		s.logTransaction(log.DirectionIn, c.Address, data, time.Since(start))
		copy(out[c.Offset:], data)
	}
	return out, nil
}

// Write stores data starting at address. Each page-bounded chunk is written
// in its own transaction and followed by a write cycle wait before the next
// chunk is sent. An empty data slice is a no-op.
func (s *Store) Write(address int, data []byte) error {
	if err := s.checkRange(address, len(data)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	for _, c := range SplitPages(address, len(data), s.geometry.PageSize) {
		chunk := data[c.Offset : c.Offset+c.Length]

		start := time.Now()
		if err := s.port.WriteTo(c.Address, chunk); err != nil {
			s.logError(fmt.Sprintf("write 0x%04x+%d", c.Address, c.Length), err)
			return fmt.Errorf("write 0x%04x+%d: %w", c.Address, c.Length, err)
		}
		s.logTransaction(log.DirectionOut, c.Address, chunk, time.Since(start))

		res, err := s.waiter.WaitWriteCycle(s.port)
		s.logWriteCycle(c.Address, res, err != nil)
		if err != nil {
			if !errors.Is(err, ErrWriteTimeout) {
				err = fmt.Errorf("%w: %w", ErrWriteTimeout, err)
			}
			return fmt.Errorf("write cycle after 0x%04x+%d: %w", c.Address, c.Length, err)
		}
	}
	return nil
}

// ReadAt implements io.ReaderAt. Reads reaching past the end return the
// available bytes and io.EOF.
func (s *Store) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("%w: negative offset %d", ErrOutOfRange, off)
	}
	if off >= int64(s.geometry.Capacity) {
		return 0, io.EOF
	}

	n := min(len(p), s.geometry.Capacity-int(off))
	data, err := s.Read(int(off), n)
	if err != nil {
		return 0, err
	}
	copy(p, data)
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements io.WriterAt. Writes reaching past the end fail with
// ErrOutOfRange and write nothing.
func (s *Store) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(s.geometry.Capacity) {
		return 0, fmt.Errorf("%w: offset %d", ErrOutOfRange, off)
	}
	if err := s.Write(int(off), p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close releases the port if it implements io.Closer. Further operations
// fail with ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.logState("open", "closed")

	if c, ok := s.port.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Store) event(dir log.Direction, cat log.Category) log.Event {
	return log.Event{
		Timestamp:  time.Now(),
		SessionID:  s.sessionID,
		Direction:  dir,
		Layer:      log.LayerStore,
		Category:   cat,
		Part:       s.name,
		BusAddress: s.address,
	}
}

func (s *Store) logTransaction(dir log.Direction, address int, data []byte, d time.Duration) {
	e := s.event(dir, log.CategoryTransaction)
	e.Transaction = log.NewTransactionEvent(address, data, d)
	s.logger.Log(e)
}

func (s *Store) logWriteCycle(address int, res WaitResult, timedOut bool) {
	e := s.event(log.DirectionOut, log.CategoryWriteCycle)
	e.WriteCycle = &log.WriteCycleEvent{
		Address:  address,
		Strategy: res.Strategy,
		Waited:   res.Waited,
		Polls:    res.Polls,
		TimedOut: timedOut,
	}
	s.logger.Log(e)
}

func (s *Store) logError(context string, err error) {
	e := s.event(log.DirectionOut, log.CategoryError)
	e.Error = &log.ErrorEventData{Layer: log.LayerStore, Message: err.Error(), Context: context}
	s.logger.Log(e)
}

func (s *Store) logState(from, to string) {
	e := s.event(log.DirectionOut, log.CategoryState)
	e.StateChange = &log.StateChangeEvent{Entity: log.StateEntityStore, OldState: from, NewState: to}
	s.logger.Log(e)
}

// Compile-time interface satisfaction checks.
var (
	_ Device      = (*Store)(nil)
	_ io.ReaderAt = (*Store)(nil)
	_ io.WriterAt = (*Store)(nil)
	_ io.Closer   = (*Store)(nil)
)

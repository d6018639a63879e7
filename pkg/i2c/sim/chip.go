// Package sim provides an in-memory 24xx serial EEPROM attached to a
// simulated I2C bus.
//
// The chip behaves like the real part where it matters to a driver:
//
//   - a write transaction that runs past the end of its page wraps around to
//     the start of the same page
//   - sequential reads wrap at the end of the array
//   - after a write the chip does not acknowledge its address until the
//     write cycle time has elapsed
//   - transactions for other slave addresses are not acknowledged
//
// Every transaction is recorded so tests can check how a driver split its
// accesses. Writes that cross a page boundary are counted as violations.
package sim

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/i2cflash/i2cflash-go/pkg/i2c"
)

// Default settings used when a Config field is zero.
const (
	DefaultAddress  uint8 = 0x50
	DefaultFill     byte  = 0xFF
	DefaultCapacity       = 4096
)

// ErrShortAddress is returned when a write phase ends inside the on-chip address.
var ErrShortAddress = errors.New("sim: truncated memory address")

// ErrCombined is returned for a transaction carrying both data and a read phase.
var ErrCombined = errors.New("sim: data write with read phase")

// Config describes the simulated chip.
type Config struct {
	// Address is the 7-bit slave address. Defaults to DefaultAddress.
	Address uint8

	// Capacity in bytes. Defaults to DefaultCapacity.
	Capacity int

	// PageSize in bytes. Must be a power of two dividing Capacity.
	PageSize int

	// AddressWidth is the number of on-chip address bytes (1 or 2).
	AddressWidth int

	// WriteCycle is how long the chip stays busy after a write.
	// Zero means the chip is ready immediately.
	WriteCycle time.Duration

	// ImagePath, when set, is loaded at Open and saved back on Close.
	ImagePath string
}

// Transaction is one recorded bus transaction addressed to the chip.
type Transaction struct {
	// Offset is the memory address the transaction started at.
	Offset int

	// Data holds the bytes written, excluding the address bytes.
	Data []byte

	// ReadLen is the number of bytes read.
	ReadLen int

	// NACK is set when the chip was busy and rejected the transaction.
	NACK bool
}

// IsWrite reports whether the transaction stored data.
func (t Transaction) IsWrite() bool {
	return len(t.Data) > 0
}

// Chip is a simulated EEPROM. It implements i2c.Bus.
type Chip struct {
	mu sync.Mutex

	cfg     Config
	mem     []byte
	pointer int

	busyUntil time.Time
	now       func() time.Time

	txs        []Transaction
	violations int
	closed     bool
}

// New creates a chip filled with DefaultFill.
func New(cfg Config) (*Chip, error) {
	if cfg.Address == 0 {
		cfg.Address = DefaultAddress
	}
	if cfg.Capacity == 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.PageSize <= 0 || cfg.PageSize&(cfg.PageSize-1) != 0 || cfg.Capacity%cfg.PageSize != 0 {
		return nil, fmt.Errorf("sim: invalid page size %d for capacity %d", cfg.PageSize, cfg.Capacity)
	}
	if cfg.AddressWidth < 1 || cfg.AddressWidth > 2 {
		return nil, fmt.Errorf("sim: %w: %d", i2c.ErrInvalidAddressWidth, cfg.AddressWidth)
	}
	if cfg.Capacity > 1<<(8*cfg.AddressWidth) {
		return nil, fmt.Errorf("sim: capacity %d not addressable with %d address bytes", cfg.Capacity, cfg.AddressWidth)
	}

	c := &Chip{
		cfg: cfg,
		mem: make([]byte, cfg.Capacity),
		now: time.Now,
	}
	for i := range c.mem {
		c.mem[i] = DefaultFill
	}
	return c, nil
}

// Open creates a chip and loads cfg.ImagePath when it exists.
func Open(cfg Config) (*Chip, error) {
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.ImagePath == "" {
		return c, nil
	}

	if err := c.Load(cfg.ImagePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return c, nil
}

// Address returns the chip's slave address.
func (c *Chip) Address() uint8 {
	return c.cfg.Address
}

// Capacity returns the size of the memory array.
func (c *Chip) Capacity() int {
	return c.cfg.Capacity
}

// Tx implements i2c.Bus.
func (c *Chip) Tx(address uint8, w, r []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return i2c.ErrClosed
	}
	if address != c.cfg.Address {
		return fmt.Errorf("0x%02x: %w", address, i2c.ErrNoDevice)
	}

	if c.now().Before(c.busyUntil) {
		c.txs = append(c.txs, Transaction{Offset: c.pointer, NACK: true})
		return fmt.Errorf("0x%02x busy: %w", address, i2c.ErrNACK)
	}

	width := c.cfg.AddressWidth
	if len(w) > 0 && len(w) < width {
		return ErrShortAddress
	}
	if len(w) > width && len(r) > 0 {
		return ErrCombined
	}

	if len(w) >= width {
		c.pointer = c.decode(w[:width])
	}

	tx := Transaction{Offset: c.pointer, ReadLen: len(r)}

	if data := w[min(len(w), width):]; len(data) > 0 {
		tx.Data = append([]byte(nil), data...)
		c.store(data)
	}

	for i := range r {
		r[i] = c.mem[c.pointer]
		c.pointer = (c.pointer + 1) % c.cfg.Capacity
	}

	c.txs = append(c.txs, tx)
	return nil
}

// store writes data at the pointer, wrapping inside the current page.
func (c *Chip) store(data []byte) {
	page := c.cfg.PageSize
	base := c.pointer &^ (page - 1)
	off := c.pointer - base

	if off+len(data) > page {
		c.violations++
	}

	for i, b := range data {
		c.mem[base+(off+i)%page] = b
	}
	c.pointer = base + (off+len(data))%page
	c.busyUntil = c.now().Add(c.cfg.WriteCycle)
}

func (c *Chip) decode(b []byte) int {
	addr := 0
	for _, v := range b {
		addr = addr<<8 | int(v)
	}
	return addr % c.cfg.Capacity
}

// Close implements i2c.Bus. When the chip was opened with an image path the
// memory is saved back to it.
func (c *Chip) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	if c.cfg.ImagePath != "" {
		return c.Save(c.cfg.ImagePath)
	}
	return nil
}

// Transactions returns a copy of the transaction record.
func (c *Chip) Transactions() []Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Transaction, len(c.txs))
	copy(out, c.txs)
	return out
}

// Writes returns the recorded transactions that stored data.
func (c *Chip) Writes() []Transaction {
	var out []Transaction
	for _, tx := range c.Transactions() {
		if tx.IsWrite() {
			out = append(out, tx)
		}
	}
	return out
}

// Violations returns how many writes crossed a page boundary.
func (c *Chip) Violations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.violations
}

// ResetRecord clears the transaction record and the violation counter.
func (c *Chip) ResetRecord() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.txs = nil
	c.violations = 0
}

// Bytes returns a copy of the memory array.
func (c *Chip) Bytes() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.mem...)
}

// Fill sets every byte of the memory array to b.
func (c *Chip) Fill(b byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.mem {
		c.mem[i] = b
	}
}

// SetClock replaces the time source used for the write cycle window.
func (c *Chip) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Load copies an image file into the memory array. Images shorter than the
// array fill it from offset 0; longer images are rejected.
func (c *Chip) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("sim: load image: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(data) > len(c.mem) {
		return fmt.Errorf("sim: image %s is %d bytes, chip holds %d", path, len(data), len(c.mem))
	}
	copy(c.mem, data)
	return nil
}

// Save writes the memory array to an image file.
func (c *Chip) Save(path string) error {
	if err := os.WriteFile(path, c.Bytes(), 0644); err != nil {
		return fmt.Errorf("sim: save image: %w", err)
	}
	return nil
}

// Compile-time interface satisfaction check.
var _ i2c.Bus = (*Chip)(nil)

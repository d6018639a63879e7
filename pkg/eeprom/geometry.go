package eeprom

import (
	"fmt"
	"slices"
)

// BaseAddress is the bus address of a 24xx chip with all address pins low.
const BaseAddress uint8 = 0x50

// Geometry describes the memory organization of one catalog part.
type Geometry struct {
	// Capacity is the number of addressable bytes.
	Capacity int

	// PageSize is the size of the chip's write page in bytes.
	PageSize int

	// AddressWidth is the number of bytes encoding an on-chip address.
	AddressWidth int
}

// Pages returns the number of pages.
func (g Geometry) Pages() int {
	return g.Capacity / g.PageSize
}

// String returns a short human-readable description.
func (g Geometry) String() string {
	return fmt.Sprintf("%s, %d-byte pages, %d-byte address", formatSize(g.Capacity), g.PageSize, g.AddressWidth)
}

// Validate checks the structural invariants of g.
func (g Geometry) Validate() error {
	switch {
	case g.PageSize <= 0 || g.PageSize&(g.PageSize-1) != 0:
		return fmt.Errorf("%w: page size %d is not a power of two", ErrUnsupportedDevice, g.PageSize)
	case g.Capacity <= 0 || g.Capacity%g.PageSize != 0:
		return fmt.Errorf("%w: capacity %d is not a multiple of page size %d", ErrUnsupportedDevice, g.Capacity, g.PageSize)
	case g.AddressWidth != 1 && g.AddressWidth != 2:
		return fmt.Errorf("%w: address width %d", ErrUnsupportedDevice, g.AddressWidth)
	}
	return nil
}

// catalog lists the supported parts, sorted by capacity.
var catalog = []Geometry{
	{Capacity: 128, PageSize: 8, AddressWidth: 1},
	{Capacity: 256, PageSize: 8, AddressWidth: 1},
	{Capacity: 4096, PageSize: 32, AddressWidth: 2},
	{Capacity: 8192, PageSize: 32, AddressWidth: 2},
	{Capacity: 16384, PageSize: 64, AddressWidth: 2},
	{Capacity: 32768, PageSize: 64, AddressWidth: 2},
	{Capacity: 65536, PageSize: 128, AddressWidth: 2},
}

// shifted lists capacities that use slave address bits as block select.
var shifted = []int{512, 1024, 2048}

// Catalog returns all supported geometries sorted by capacity.
func Catalog() []Geometry {
	return slices.Clone(catalog)
}

// LookupGeometry returns the catalog geometry with the given capacity.
func LookupGeometry(capacity int) (Geometry, error) {
	if slices.Contains(shifted, capacity) {
		return Geometry{}, fmt.Errorf("%w: %s part needs block-select addressing", ErrUnsupportedDevice, formatSize(capacity))
	}
	for _, g := range catalog {
		if g.Capacity == capacity {
			return g, nil
		}
	}
	return Geometry{}, fmt.Errorf("%w: no %s part in catalog", ErrUnsupportedDevice, formatSize(capacity))
}

// ValidateAddress checks the bus address against the addressing scheme of g.
// Parts with a one-byte address answer only at BaseAddress; parts with a
// two-byte address may use any of the eight addresses selected by A2..A0.
func ValidateAddress(g Geometry, address uint8) error {
	switch g.AddressWidth {
	case 1:
		if address != BaseAddress {
			return fmt.Errorf("%w: 0x%02x, %s parts answer only at 0x%02x", ErrInvalidAddress, address, formatSize(g.Capacity), BaseAddress)
		}
	case 2:
		if address&0xF8 != BaseAddress {
			return fmt.Errorf("%w: 0x%02x outside 0x%02x-0x%02x", ErrInvalidAddress, address, BaseAddress, BaseAddress|0x07)
		}
	default:
		return fmt.Errorf("%w: address width %d", ErrUnsupportedDevice, g.AddressWidth)
	}
	return nil
}

func formatSize(n int) string {
	if n >= 1024 && n%1024 == 0 {
		return fmt.Sprintf("%d KiB", n/1024)
	}
	return fmt.Sprintf("%d B", n)
}

package eeprom

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Families accepted by the resolver. They share page geometry per size.
var Families = []string{"24AA", "24LC", "24FC"}

// The size field is bounded so Capacity cannot overflow; longer sizes are
// never catalog parts.
var namePattern = regexp.MustCompile(`(?i)^(24AA|24LC|24FC)(\d{1,5})([A-Z]?)$`)

// PartName is a parsed part name.
type PartName struct {
	// Family is the upper-case family code, e.g. "24AA".
	Family string

	// Kilobits is the decimal size in the name.
	Kilobits int

	// Revision is the optional upper-case revision letter.
	Revision string
}

// Capacity returns the size in bytes the name denotes.
func (p PartName) Capacity() int {
	return p.Kilobits * 1024 / 8
}

// String returns the canonical spelling, keeping the digits as written
// without leading zeros beyond two, e.g. "24AA02", "24AA256", "24LC32A".
func (p PartName) String() string {
	return fmt.Sprintf("%s%02d%s", p.Family, p.Kilobits, p.Revision)
}

// ParseName parses a part name case-insensitively.
func ParseName(name string) (PartName, error) {
	m := namePattern.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return PartName{}, fmt.Errorf("%w: %q is not a 24xx part name", ErrUnsupportedDevice, name)
	}

	kbits, err := strconv.Atoi(m[2])
	if err != nil || kbits <= 0 {
		return PartName{}, fmt.Errorf("%w: %q has no usable size", ErrUnsupportedDevice, name)
	}

	return PartName{
		Family:   strings.ToUpper(m[1]),
		Kilobits: kbits,
		Revision: strings.ToUpper(m[3]),
	}, nil
}

// Resolve maps a part name and bus address to a catalog geometry.
//
// It fails with ErrUnsupportedDevice for unknown names and sizes, for the
// block-select parts (512 B, 1 KiB, 2 KiB) and for the obsolete 4 KiB part
// without revision A. It fails with ErrInvalidAddress when the bus address
// does not fit the geometry.
func Resolve(name string, address uint8) (Geometry, error) {
	_, g, err := resolve(name, address)
	return g, err
}

func resolve(name string, address uint8) (PartName, Geometry, error) {
	part, err := ParseName(name)
	if err != nil {
		return PartName{}, Geometry{}, err
	}

	g, err := LookupGeometry(part.Capacity())
	if err != nil {
		return PartName{}, Geometry{}, fmt.Errorf("%s: %w", part, err)
	}

	if g.Capacity == 4096 && part.Revision != "A" {
		return PartName{}, Geometry{}, fmt.Errorf("%w: %s is obsolete, only the A revision is supported", ErrUnsupportedDevice, part)
	}

	if err := ValidateAddress(g, address); err != nil {
		return PartName{}, Geometry{}, fmt.Errorf("%s: %w", part, err)
	}
	return part, g, nil
}

package i2c

import "errors"

// Transport errors.
var (
	// ErrNACK signals that the slave did not acknowledge a byte.
	ErrNACK = errors.New("NACK received")

	// ErrNoDevice signals that no device acknowledged the slave address.
	// It wraps ErrNACK so callers polling for an ACK can test either.
	ErrNoDevice = errNoDevice{}

	// ErrNotConfigured is returned by a Port used before Configure.
	ErrNotConfigured = errors.New("port not configured")

	// ErrInvalidAddressWidth is returned by Configure for widths other than 1 or 2.
	ErrInvalidAddressWidth = errors.New("invalid address width")

	// ErrInvalidBusAddress is returned for slave addresses outside the 7-bit range.
	ErrInvalidBusAddress = errors.New("invalid bus address")

	// ErrClosed is returned by operations on a closed bus or controller.
	ErrClosed = errors.New("bus closed")
)

type errNoDevice struct{}

func (errNoDevice) Error() string { return "no such device" }

func (errNoDevice) Unwrap() error { return ErrNACK }

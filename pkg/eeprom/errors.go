package eeprom

import "errors"

// Errors returned by the resolver and the store.
var (
	// ErrUnsupportedDevice is returned for part names that do not map to a
	// supported geometry.
	ErrUnsupportedDevice = errors.New("unsupported device")

	// ErrInvalidAddress is returned when the bus address does not fit the
	// addressing scheme of the geometry.
	ErrInvalidAddress = errors.New("invalid bus address for device")

	// ErrOutOfRange is returned when a requested range exceeds the capacity.
	// No transport call is made in that case.
	ErrOutOfRange = errors.New("range out of device capacity")

	// ErrWriteTimeout is returned when completion of a write cycle could not
	// be confirmed.
	ErrWriteTimeout = errors.New("write cycle timeout")

	// ErrShortRead is returned when the transport returns fewer bytes than requested.
	ErrShortRead = errors.New("short read")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store closed")
)

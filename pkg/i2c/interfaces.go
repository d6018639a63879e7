package i2c

// Port is a transport bound to one slave address.
// Implemented by RegisterPort.
type Port interface {
	// Configure sets how on-chip addresses are encoded: addressWidth bytes,
	// most significant byte first. When registerAddressing is false the
	// address arguments of ReadFrom and WriteTo are ignored.
	Configure(addressWidth int, registerAddressing bool) error

	// ReadFrom performs one bounded read transaction starting at address.
	ReadFrom(address, length int) ([]byte, error)

	// WriteTo performs one bounded write transaction starting at address.
	WriteTo(address int, data []byte) error
}

// Prober is implemented by ports able to check whether their slave
// acknowledges its address.
type Prober interface {
	// Probe returns nil when the slave acknowledged, an error wrapping
	// ErrNACK when it did not, or any other transport error.
	Probe() error
}

// Bus is a raw I2C master.
type Bus interface {
	// Tx runs one transaction against the 7-bit slave address: w is written
	// first (if not empty), then len(r) bytes are read into r after a
	// repeated start (if r is not empty). A STOP condition ends the transaction.
	Tx(address uint8, w, r []byte) error

	// Close releases the bus.
	Close() error
}

// Controller hands out ports on one bus.
// Implemented by BusController.
type Controller interface {
	// Port returns a port bound to the 7-bit slave address.
	Port(address uint8) (Port, error)

	// Close releases the bus.
	Close() error
}

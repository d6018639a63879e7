// Package i2c defines the transport contract EEPROM drivers consume.
//
// The contract is split in two layers:
//
//   - Bus: a raw I2C master able to run one combined transaction
//     (optional write phase, optional repeated-start read phase) against a
//     7-bit slave address. Backends implement Bus: the MCP2221A USB bridge
//     (package mcp2221), Linux i2c-dev (package i2cdev) and a simulated chip
//     (package sim).
//
//   - Port: a bus bound to one slave address that knows how on-chip
//     addresses are encoded. Port is what the eeprom package talks to.
//     RegisterPort implements Port on top of any Bus.
//
// # Basic Usage
//
//	ctrl := i2c.NewBusController(bus)
//	port, err := ctrl.Port(0x50)
//	if err != nil {
//	    return err
//	}
//	_ = port.Configure(2, true)
//	data, err := port.ReadFrom(0x0100, 32)
//
// # Acknowledge Polling
//
// Ports that can probe their slave address implement Prober. A chip busy with
// its internal write cycle does not acknowledge its address, so Probe returns
// an error wrapping ErrNACK until the cycle completes.
package i2c

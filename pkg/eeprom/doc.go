// Package eeprom drives 24xx-family serial EEPROMs over an I2C transport.
//
// The package has two parts. The catalog resolves a part name such as
// "24AA256" and a bus address to a Geometry. The Store exposes the chip as a
// flat byte array: reads and writes of any range are split at page
// boundaries so no single bus transaction crosses a page, and every page
// write is followed by a wait for the chip's internal write cycle.
//
// # Basic Usage
//
//	ctrl := i2c.NewBusController(bus)
//	store, err := eeprom.Open(ctrl, "24AA256", 0x50)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	if err := store.Write(0x34, data); err != nil {
//	    return err
//	}
//	back, err := store.Read(0x34, len(data))
//
// # Write Cycle
//
// After a page write the chip does not respond until it has committed the
// page. The default FixedDelay waiter sleeps WriteCycleMargin times
// WriteCycleTimeMax. AckPolling probes the chip instead and returns as soon
// as it acknowledges; it needs a port implementing i2c.Prober.
//
// # Unsupported Parts
//
// The 512 byte, 1 KiB and 2 KiB parts select their upper address bits
// through the slave address. They are rejected with ErrUnsupportedDevice.
package eeprom

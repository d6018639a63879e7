package mcp2221

import (
	"fmt"
	"time"

	"github.com/i2cflash/i2cflash-go/pkg/i2c"
)

// Largest I2C payload carried by one report.
const chunkMax = 60

// I2C engine states reported in status and data responses.
const (
	stateIdle            byte = 0x00
	stateStartTimeout    byte = 0x12
	stateRepStartTimeout byte = 0x17
	stateAddrTimeout     byte = 0x23
	stateAddrNACK        byte = 0x25
	statePartialData     byte = 0x41
	stateWriteTimeout    byte = 0x44
	stateWritingNoStop   byte = 0x45
	stateReadTimeout     byte = 0x52
	stateReadPartial     byte = 0x54
	stateReadComplete    byte = 0x55
	stateStopTimeout     byte = 0x62
	readError            byte = 0x7F
)

// stateError maps a fatal engine state to an error.
func stateError(addr uint8, state byte) error {
	switch state {
	case stateAddrNACK:
		return fmt.Errorf("0x%02x: %w", addr, i2c.ErrNoDevice)
	case stateStartTimeout, stateRepStartTimeout, stateAddrTimeout,
		stateWriteTimeout, stateReadTimeout, stateStopTimeout:
		return fmt.Errorf("0x%02x: %w (state 0x%02x)", addr, ErrTimeout, state)
	}
	return nil
}

// Tx implements i2c.Bus. A transaction with both phases writes without
// STOP and reads after a repeated START.
func (d *Device) Tx(address uint8, w, r []byte) error {
	if address < i2c.MinAddress || address > i2c.MaxAddress {
		return fmt.Errorf("%w: 0x%02x", i2c.ErrInvalidBusAddress, address)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dev == nil {
		return i2c.ErrClosed
	}

	switch {
	case len(w) > 0 && len(r) > 0:
		if err := d.write(address, w, false); err != nil {
			return err
		}
		return d.read(address, r, true)
	case len(w) > 0:
		return d.write(address, w, true)
	case len(r) > 0:
		return d.read(address, r, false)
	}
	return nil
}

// idle cancels a stale transfer left behind by an earlier failure.
func (d *Device) idle(allowNoStop bool) error {
	st, err := d.status()
	if err != nil {
		return err
	}
	if st.state == stateIdle || (allowNoStop && st.state == stateWritingNoStop) {
		return nil
	}
	return d.cancel()
}

func (d *Device) write(addr uint8, data []byte, stop bool) error {
	if len(data) > 0xFFFF {
		return fmt.Errorf("mcp2221: write of %d bytes exceeds transfer limit", len(data))
	}
	if err := d.idle(false); err != nil {
		return err
	}

	cmd := cmdI2CWrite
	if !stop {
		cmd = cmdI2CWriteNoStop
	}

	for pos := 0; pos < len(data); {
		n := min(chunkMax, len(data)-pos)

		msg := makeMsg()
		msg[1] = byte(len(data))
		msg[2] = byte(len(data) >> 8)
		msg[3] = addr << 1
		copy(msg[4:], data[pos:pos+n])

		sent := false
		for try := 0; try < d.retries; try++ {
			rsp, err := d.send(cmd, msg)
			if err == nil {
				sent = true
				break
			}
			if rsp == nil {
				return err
			}
			if serr := stateError(addr, rsp[2]); serr != nil {
				return serr
			}
			time.Sleep(d.pollInterval)
		}
		if !sent {
			return fmt.Errorf("write 0x%02x: %w", addr, ErrTooManyRetries)
		}

		if err := d.drain(); err != nil {
			return err
		}
		pos += n
	}

	return d.waitWriteDone(addr, stop)
}

// drain waits until the bridge has shifted out the current chunk.
func (d *Device) drain() error {
	for try := 0; try < d.retries; try++ {
		st, err := d.status()
		if err != nil {
			return err
		}
		if st.state != statePartialData {
			return nil
		}
		time.Sleep(d.pollInterval)
	}
	return ErrTooManyRetries
}

func (d *Device) waitWriteDone(addr uint8, stop bool) error {
	for try := 0; try < d.retries; try++ {
		st, err := d.status()
		if err != nil {
			return err
		}
		if st.state == stateIdle {
			return nil
		}
		if !stop && st.state == stateWritingNoStop {
			return nil
		}
		if serr := stateError(addr, st.state); serr != nil {
			return serr
		}
		time.Sleep(d.pollInterval)
	}
	return fmt.Errorf("write 0x%02x: %w", addr, ErrTooManyRetries)
}

func (d *Device) read(addr uint8, buf []byte, repeated bool) error {
	if len(buf) > 0xFFFF {
		return fmt.Errorf("mcp2221: read of %d bytes exceeds transfer limit", len(buf))
	}
	if err := d.idle(repeated); err != nil {
		return err
	}

	cmd := cmdI2CRead
	if repeated {
		cmd = cmdI2CReadRepStart
	}

	msg := makeMsg()
	msg[1] = byte(len(buf))
	msg[2] = byte(len(buf) >> 8)
	msg[3] = addr<<1 | 0x01
	if rsp, err := d.send(cmd, msg); err != nil {
		if rsp != nil {
			if serr := stateError(addr, rsp[2]); serr != nil {
				return serr
			}
		}
		return err
	}

	for pos := 0; pos < len(buf); {
		chunk, err := d.fetch(addr)
		if err != nil {
			return err
		}
		n := copy(buf[pos:], chunk)
		pos += n
	}
	return nil
}

// fetch collects the next chunk of read data from the bridge.
func (d *Device) fetch(addr uint8) ([]byte, error) {
	for try := 0; try < d.retries; try++ {
		rsp, err := d.send(cmdI2CReadGetData, makeMsg())
		if rsp == nil {
			return nil, err
		}
		if serr := stateError(addr, rsp[2]); serr != nil {
			return nil, serr
		}

		ready := err == nil && rsp[3] != readError &&
			(rsp[2] == stateIdle || rsp[2] == stateReadPartial || rsp[2] == stateReadComplete)
		if ready && rsp[3] > 0 {
			n := min(int(rsp[3]), chunkMax)
			return rsp[4 : 4+n], nil
		}
		time.Sleep(d.pollInterval)
	}
	return nil, fmt.Errorf("read 0x%02x: %w", addr, ErrTooManyRetries)
}

// Compile-time interface satisfaction check.
var _ i2c.Bus = (*Device)(nil)

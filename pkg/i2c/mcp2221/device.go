// Package mcp2221 drives the I2C master of a Microchip MCP2221A USB bridge.
//
// The MCP2221A enumerates as a USB HID device. Every command is a 64-byte
// report answered by a 64-byte report; I2C payloads travel in chunks of at
// most 60 bytes.
//
// Datasheet: http://ww1.microchip.com/downloads/en/devicedoc/20005565b.pdf
package mcp2221

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/karalabe/hid"
)

// USB identifiers of an unconfigured MCP2221A.
const (
	DefaultVID uint16 = 0x04D8
	DefaultPID uint16 = 0x00DD
)

// Bus clock frequencies.
const (
	StandardSpeed uint32 = 100000
	HighSpeed     uint32 = 400000
)

const (
	msgSize = 64
	clkHz   = 12000000
)

// Command codes.
const (
	cmdStatus    byte = 0x10
	cmdSetParams byte = 0x10

	cmdI2CWrite        byte = 0x90
	cmdI2CWriteNoStop  byte = 0x94
	cmdI2CRead         byte = 0x91
	cmdI2CReadRepStart byte = 0x93
	cmdI2CReadGetData  byte = 0x40
)

// Errors reported by the bridge.
var (
	ErrCommandFailed  = errors.New("mcp2221: command failed")
	ErrShortResponse  = errors.New("mcp2221: short response")
	ErrTimeout        = errors.New("mcp2221: I2C timeout")
	ErrTooManyRetries = errors.New("mcp2221: too many retries")
	ErrBusy           = errors.New("mcp2221: transfer in progress")
	ErrInvalidSpeed   = errors.New("mcp2221: invalid bus speed")
	ErrNotFound       = errors.New("mcp2221: device not found")
)

// hidDevice is the part of *hid.Device the driver uses.
type hidDevice interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
	Close() error
}

// Info describes an attached bridge.
type Info struct {
	Index        int
	Path         string
	Serial       string
	Manufacturer string
	Product      string
}

// Enumerate lists attached bridges with the given USB identifiers. The
// order is stable, so Info.Index can be passed to Open.
func Enumerate(vid, pid uint16) []Info {
	var out []Info
	for i, d := range hid.Enumerate(vid, pid) {
		out = append(out, Info{
			Index:        i,
			Path:         d.Path,
			Serial:       d.Serial,
			Manufacturer: d.Manufacturer,
			Product:      d.Product,
		})
	}
	return out
}

// Device is an opened MCP2221A. It implements i2c.Bus.
type Device struct {
	mu  sync.Mutex
	dev hidDevice

	// sleep between status polls
	pollInterval time.Duration
	retries      int
}

// Open claims the bridge enumerated at index.
func Open(index int, vid, pid uint16) (*Device, error) {
	if !hid.Supported() {
		return nil, fmt.Errorf("%w: HID not supported on this platform", ErrNotFound)
	}

	infos := hid.Enumerate(vid, pid)
	if index < 0 || index >= len(infos) {
		return nil, fmt.Errorf("%w: index %d, %d attached (%04x:%04x)", ErrNotFound, index, len(infos), vid, pid)
	}

	dev, err := infos[index].Open()
	if err != nil {
		return nil, fmt.Errorf("mcp2221: open %s: %w", infos[index].Path, err)
	}
	return newDevice(dev), nil
}

func newDevice(dev hidDevice) *Device {
	return &Device{
		dev:          dev,
		pollInterval: 300 * time.Microsecond,
		retries:      50,
	}
}

// Close releases the USB device.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dev == nil {
		return nil
	}
	err := d.dev.Close()
	d.dev = nil
	return err
}

// SetSpeed sets the I2C clock divider for the given bus frequency in Hz.
// The setting is volatile and lost on reset.
func (d *Device) SetSpeed(hz uint32) error {
	if hz > clkHz/3 || hz < clkHz/258 {
		return fmt.Errorf("%w: %d Hz", ErrInvalidSpeed, hz)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	msg := makeMsg()
	msg[3] = 0x20
	msg[4] = byte(clkHz/hz - 3)

	rsp, err := d.send(cmdSetParams, msg)
	if err != nil {
		return err
	}
	if parseStatus(rsp).speedChg == 0x21 {
		return ErrBusy
	}
	return nil
}

// Cancel aborts any I2C transfer in progress.
func (d *Device) Cancel() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancel()
}

func (d *Device) cancel() error {
	msg := makeMsg()
	msg[2] = 0x10

	rsp, err := d.send(cmdSetParams, msg)
	if err != nil {
		return err
	}
	if parseStatus(rsp).cancel == 0x10 {
		time.Sleep(d.pollInterval)
	}
	return nil
}

func makeMsg() []byte { return make([]byte, msgSize) }

// send transmits one command report and returns the response report. A
// response whose status byte is not zero is returned along with
// ErrCommandFailed so callers can decode the I2C state.
func (d *Device) send(cmd byte, msg []byte) ([]byte, error) {
	if d.dev == nil {
		return nil, fmt.Errorf("mcp2221: device closed")
	}

	msg[0] = cmd
	if _, err := d.dev.Write(msg); err != nil {
		return nil, fmt.Errorf("mcp2221: write command 0x%02x: %w", cmd, err)
	}

	rsp := makeMsg()
	n, err := d.dev.Read(rsp)
	if err != nil {
		return nil, fmt.Errorf("mcp2221: read response 0x%02x: %w", cmd, err)
	}
	if n < msgSize {
		return nil, fmt.Errorf("%w: command 0x%02x, %d of %d bytes", ErrShortResponse, cmd, n, msgSize)
	}
	if rsp[0] != cmd || rsp[1] != 0x00 {
		return rsp, fmt.Errorf("%w: command 0x%02x status 0x%02x", ErrCommandFailed, cmd, rsp[1])
	}
	return rsp, nil
}

// status holds the decoded fields of a status response the driver uses.
type status struct {
	cancel   byte
	speedChg byte
	state    byte
}

func parseStatus(msg []byte) status {
	return status{
		cancel:   msg[2],
		speedChg: msg[3],
		state:    msg[8],
	}
}

func (d *Device) status() (status, error) {
	rsp, err := d.send(cmdStatus, makeMsg())
	if err != nil {
		return status{}, err
	}
	return parseStatus(rsp), nil
}

// Package bridge opens I2C transports from connection strings.
//
// Supported forms:
//
//	mcp2221://[index][?vid=0x04d8&pid=0x00dd]   MCP2221A USB bridge
//	i2cdev:///dev/i2c-1  or  i2cdev://1           Linux i2c-dev adapter
//	sim://[image.bin][?size=4096&page=32&width=2&addr=0x50&cycle=5ms]
//
// The simulator keeps its memory in the optional image file, which is
// loaded on open and written back on close.
package bridge

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/i2cflash/i2cflash-go/pkg/eeprom"
	"github.com/i2cflash/i2cflash-go/pkg/i2c"
	"github.com/i2cflash/i2cflash-go/pkg/i2c/i2cdev"
	"github.com/i2cflash/i2cflash-go/pkg/i2c/mcp2221"
	"github.com/i2cflash/i2cflash-go/pkg/i2c/sim"
	"github.com/i2cflash/i2cflash-go/pkg/log"
)

// Transport kinds.
const (
	KindMCP2221 = "mcp2221"
	KindI2CDev  = "i2cdev"
	KindSim     = "sim"
)

// ErrBadURL is wrapped by connection string parse errors.
var ErrBadURL = errors.New("bad connection string")

// Target is a parsed connection string.
type Target struct {
	Kind string

	// Index selects among attached MCP2221A bridges.
	Index int
	VID   uint16
	PID   uint16

	// Path is the i2c-dev node or the simulator image file.
	Path string

	// Simulator geometry. Zero values are filled from Options.Geometry.
	Size       int
	PageSize   int
	Width      int
	Address    uint8
	WriteCycle time.Duration

	raw string
}

// String returns the connection string the target was parsed from.
func (t Target) String() string {
	return t.raw
}

// ParseURL parses a connection string.
func ParseURL(s string) (Target, error) {
	u, err := url.Parse(s)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %w", ErrBadURL, err)
	}

	t := Target{Kind: u.Scheme, raw: s}
	q := u.Query()

	switch u.Scheme {
	case KindMCP2221:
		t.VID, t.PID = mcp2221.DefaultVID, mcp2221.DefaultPID
		if u.Host != "" {
			if t.Index, err = strconv.Atoi(u.Host); err != nil || t.Index < 0 {
				return Target{}, fmt.Errorf("%w: bridge index %q", ErrBadURL, u.Host)
			}
		}
		if t.VID, err = parseUint16(q, "vid", t.VID); err != nil {
			return Target{}, err
		}
		if t.PID, err = parseUint16(q, "pid", t.PID); err != nil {
			return Target{}, err
		}

	case KindI2CDev:
		switch {
		case u.Path != "":
			t.Path = u.Path
		case u.Host != "":
			n, err := strconv.Atoi(u.Host)
			if err != nil || n < 0 {
				return Target{}, fmt.Errorf("%w: adapter %q", ErrBadURL, u.Host)
			}
			t.Path = i2cdev.DevicePath(n)
		default:
			return Target{}, fmt.Errorf("%w: i2cdev needs a device path", ErrBadURL)
		}

	case KindSim:
		t.Path = u.Host + u.Path
		if t.Size, err = parseInt(q, "size"); err != nil {
			return Target{}, err
		}
		if t.PageSize, err = parseInt(q, "page"); err != nil {
			return Target{}, err
		}
		if t.Width, err = parseInt(q, "width"); err != nil {
			return Target{}, err
		}
		addr, err := parseUint16(q, "addr", 0)
		if err != nil {
			return Target{}, err
		}
		if addr > 0x7F {
			return Target{}, fmt.Errorf("%w: addr 0x%x", ErrBadURL, addr)
		}
		t.Address = uint8(addr)
		t.WriteCycle = eeprom.WriteCycleTimeMax
		if v := q.Get("cycle"); v != "" {
			if t.WriteCycle, err = time.ParseDuration(v); err != nil {
				return Target{}, fmt.Errorf("%w: cycle: %w", ErrBadURL, err)
			}
		}

	case "":
		return Target{}, fmt.Errorf("%w: %q has no scheme", ErrBadURL, s)
	default:
		return Target{}, fmt.Errorf("%w: unknown scheme %q", ErrBadURL, u.Scheme)
	}
	return t, nil
}

func parseUint16(q url.Values, key string, def uint16) (uint16, error) {
	v := q.Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrBadURL, key, v)
	}
	return uint16(n), nil
}

func parseInt(q url.Values, key string) (int, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrBadURL, key, v)
	}
	return n, nil
}

// Options configure Open.
type Options struct {
	// HighSpeed selects a 400 kHz clock where the transport supports it.
	HighSpeed bool

	// Geometry fills in simulator parameters missing from the URL.
	Geometry eeprom.Geometry

	// Logger receives bus-layer trace events. Nil disables bus tracing.
	Logger    log.Logger
	SessionID string
}

// Open opens the transport described by t and returns a controller on it.
func Open(t Target, opts Options) (i2c.Controller, error) {
	bus, err := openBus(t, opts)
	if err != nil {
		return nil, err
	}
	if opts.Logger != nil {
		bus = i2c.NewTracedBus(bus, opts.Logger, opts.SessionID)
	}
	return i2c.NewBusController(bus), nil
}

// OpenURL parses s and opens it.
func OpenURL(s string, opts Options) (i2c.Controller, error) {
	t, err := ParseURL(s)
	if err != nil {
		return nil, err
	}
	return Open(t, opts)
}

func openBus(t Target, opts Options) (i2c.Bus, error) {
	switch t.Kind {
	case KindMCP2221:
		dev, err := mcp2221.Open(t.Index, t.VID, t.PID)
		if err != nil {
			return nil, err
		}
		speed := mcp2221.StandardSpeed
		if opts.HighSpeed {
			speed = mcp2221.HighSpeed
		}
		if err := dev.SetSpeed(speed); err != nil {
			_ = dev.Close()
			return nil, fmt.Errorf("set bus speed: %w", err)
		}
		return dev, nil

	case KindI2CDev:
		// The adapter clock is fixed by the kernel driver.
		b, err := i2cdev.Open(t.Path)
		if err != nil {
			return nil, err
		}
		return b, nil

	case KindSim:
		cfg := sim.Config{
			Address:      t.Address,
			Capacity:     pick(t.Size, opts.Geometry.Capacity),
			PageSize:     pick(t.PageSize, opts.Geometry.PageSize),
			AddressWidth: pick(t.Width, opts.Geometry.AddressWidth),
			WriteCycle:   t.WriteCycle,
			ImagePath:    t.Path,
		}
		if cfg.Capacity == 0 {
			cfg.Capacity = sim.DefaultCapacity
		}
		if cfg.PageSize == 0 || cfg.AddressWidth == 0 {
			g, err := eeprom.LookupGeometry(cfg.Capacity)
			if err != nil {
				return nil, fmt.Errorf("sim: %w", err)
			}
			cfg.PageSize = pick(cfg.PageSize, g.PageSize)
			cfg.AddressWidth = pick(cfg.AddressWidth, g.AddressWidth)
		}
		chip, err := sim.Open(cfg)
		if err != nil {
			return nil, err
		}
		return chip, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", ErrBadURL, t.Kind)
}

func pick(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}

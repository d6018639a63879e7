// Package config loads i2cflash settings from YAML files and the environment.
//
// A configuration file looks like:
//
//	bridge: mcp2221://0
//	high_speed: true
//	part: 24AA32A
//	address: 0x50
//	write_cycle:
//	  strategy: ack_polling
//	  timeout: 20ms
//	log:
//	  level: info
//	  trace: /tmp/i2cflash.etrace
//	history: ~/.i2cflash/history.db
//
// Missing keys keep their defaults. Command-line flags override file values.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/i2cflash/i2cflash-go/pkg/eeprom"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvBridge   = "I2CFLASH_BRIDGE"
	EnvLogLevel = "I2CFLASH_LOGLEVEL"
)

// Write cycle strategies.
const (
	StrategyFixed      = "fixed"
	StrategyAckPolling = "ack_polling"
)

// Default values.
const (
	DefaultBridge   = "mcp2221://"
	DefaultPart     = "24AA32A"
	DefaultAddress  = eeprom.BaseAddress
	DefaultLogLevel = "info"
)

// ErrInvalid is wrapped by all validation errors.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the settings of the command-line tools.
type Config struct {
	// Bridge is the connection string of the I2C transport.
	Bridge string `yaml:"bridge"`

	// HighSpeed selects a 400 kHz bus clock instead of 100 kHz.
	HighSpeed bool `yaml:"high_speed"`

	// Part is the EEPROM part name, e.g. "24AA256".
	Part string `yaml:"part"`

	// Address is the 7-bit bus address of the EEPROM.
	Address uint8 `yaml:"address"`

	WriteCycle WriteCycle `yaml:"write_cycle"`
	Log        Log        `yaml:"log"`

	// History is the path of the operation history database. Empty disables it.
	History string `yaml:"history"`
}

// WriteCycle selects how page writes wait for the chip.
type WriteCycle struct {
	Strategy string        `yaml:"strategy"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Log configures operational logging and protocol tracing.
type Log struct {
	Level string `yaml:"level"`

	// Trace is the path of a CBOR protocol trace file. Empty disables tracing.
	Trace string `yaml:"trace"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Bridge:  DefaultBridge,
		Part:    DefaultPart,
		Address: DefaultAddress,
		WriteCycle: WriteCycle{
			Strategy: StrategyFixed,
			Timeout:  eeprom.WriteCycleMargin * eeprom.WriteCycleTimeMax,
		},
		Log: Log{Level: DefaultLogLevel},
	}
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, or returns the defaults when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// ApplyEnv overrides settings from the environment. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvBridge); ok && v != "" {
		c.Bridge = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
}

// Validate checks the configuration for consistency. The part and address
// are checked against the EEPROM catalog.
func (c *Config) Validate() error {
	if c.Bridge == "" {
		return fmt.Errorf("%w: bridge is required", ErrInvalid)
	}
	if _, err := eeprom.Resolve(c.Part, c.Address); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	switch c.WriteCycle.Strategy {
	case StrategyFixed, StrategyAckPolling:
	default:
		return fmt.Errorf("%w: write_cycle.strategy %q (want %s or %s)", ErrInvalid, c.WriteCycle.Strategy, StrategyFixed, StrategyAckPolling)
	}
	if c.WriteCycle.Timeout < eeprom.WriteCycleTimeMax {
		return fmt.Errorf("%w: write_cycle.timeout %v is shorter than the %v write cycle", ErrInvalid, c.WriteCycle.Timeout, eeprom.WriteCycleTimeMax)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}

// Waiter returns the write cycle waiter selected by the configuration.
func (c *Config) Waiter() eeprom.WriteCycleWaiter {
	if c.WriteCycle.Strategy == StrategyAckPolling {
		return eeprom.AckPolling{Timeout: c.WriteCycle.Timeout}
	}
	return eeprom.FixedDelay{Delay: c.WriteCycle.Timeout}
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/i2cflash/i2cflash-go/pkg/eeprom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "mcp2221://", cfg.Bridge)
	assert.Equal(t, "24AA32A", cfg.Part)
	assert.Equal(t, uint8(0x50), cfg.Address)
	assert.Equal(t, StrategyFixed, cfg.WriteCycle.Strategy)
	assert.Equal(t, 20*time.Millisecond, cfg.WriteCycle.Timeout)
	assert.False(t, cfg.HighSpeed)
	assert.Empty(t, cfg.History)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
bridge: sim://?size=32768
high_speed: true
part: 24LC256
address: 0x53
write_cycle:
  strategy: ack_polling
  timeout: 10ms
log:
  level: debug
  trace: /tmp/x.etrace
`))
	require.NoError(t, err)

	assert.Equal(t, "sim://?size=32768", cfg.Bridge)
	assert.True(t, cfg.HighSpeed)
	assert.Equal(t, "24LC256", cfg.Part)
	assert.Equal(t, uint8(0x53), cfg.Address)
	assert.Equal(t, StrategyAckPolling, cfg.WriteCycle.Strategy)
	assert.Equal(t, 10*time.Millisecond, cfg.WriteCycle.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/x.etrace", cfg.Log.Trace)
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("part: 24AA512\n"))
	require.NoError(t, err)

	assert.Equal(t, "24AA512", cfg.Part)
	assert.Equal(t, DefaultBridge, cfg.Bridge)
	assert.Equal(t, StrategyFixed, cfg.WriteCycle.Strategy)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"syntax", "bridge: [unclosed"},
		{"empty bridge", "bridge: \"\""},
		{"unsupported part", "part: 24AA16"},
		{"address mismatch", "part: 24AA02\naddress: 0x51"},
		{"strategy", "write_cycle:\n  strategy: hope"},
		{"timeout", "write_cycle:\n  timeout: 1ms"},
		{"log level", "log:\n  level: chatty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("part: 24AA16"))
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorIs(t, err, eeprom.ErrUnsupportedDevice)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "i2cflash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("part: 24AA64\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "24AA64", cfg.Part)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	cfg, err = LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvBridge:   "i2cdev:///dev/i2c-1",
		EnvLogLevel: "DEBUG",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.Equal(t, "i2cdev:///dev/i2c-1", cfg.Bridge)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestWaiter(t *testing.T) {
	cfg := Default()
	assert.Equal(t, eeprom.FixedDelay{Delay: 20 * time.Millisecond}, cfg.Waiter())

	cfg.WriteCycle.Strategy = StrategyAckPolling
	assert.Equal(t, eeprom.AckPolling{Timeout: 20 * time.Millisecond}, cfg.Waiter())
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.History = "/var/lib/i2cflash/history.db"

	data, err := cfg.Marshal()
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

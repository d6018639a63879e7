package selftest

import (
	"errors"
	"testing"
	"time"

	"github.com/i2cflash/i2cflash-go/pkg/eeprom"
	"github.com/i2cflash/i2cflash-go/pkg/i2c"
	"github.com/i2cflash/i2cflash-go/pkg/i2c/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSim(t *testing.T, name string) (*eeprom.Store, *sim.Chip) {
	t.Helper()
	g, err := eeprom.Resolve(name, 0x50)
	require.NoError(t, err)

	chip, err := sim.New(sim.Config{Capacity: g.Capacity, PageSize: g.PageSize, AddressWidth: g.AddressWidth})
	require.NoError(t, err)

	s, err := eeprom.Open(i2c.NewBusController(chip), name, 0x50,
		eeprom.WithWriteCycleWaiter(eeprom.FixedDelay{Delay: time.Nanosecond}))
	require.NoError(t, err)
	return s, chip
}

// corruptingDevice flips one bit of every read at offset.
type corruptingDevice struct {
	eeprom.Device
	offset int
}

func (c corruptingDevice) Read(address, length int) ([]byte, error) {
	data, err := c.Device.Read(address, length)
	if err == nil && c.offset < len(data) {
		data[c.offset] ^= 0x01
	}
	return data, err
}

func TestPattern(t *testing.T) {
	p := Pattern(0xA5)
	assert.Equal(t, 610, len(p))
	assert.Equal(t, "This is a5 I2C EEPROM test 0. This is a5 I2C EEPROM test 1. ", string(p[:60]))
	assert.Contains(t, string(p), "test 19. ")
	assert.NotEqual(t, Pattern(0x00), p)
}

func TestRoundTrip(t *testing.T) {
	s, chip := openSim(t, "24AA32A")

	res, err := RoundTrip(s, 0x42)
	require.NoError(t, err)

	assert.Equal(t, BaseAddress, res.Address)
	assert.Equal(t, 610, res.Write.Bytes)
	assert.Equal(t, 610, res.Read.Bytes)
	assert.Equal(t, Digest(Pattern(0x42)), res.Digest)
	assert.Equal(t, Pattern(0x42), chip.Bytes()[BaseAddress:BaseAddress+610])
	assert.Zero(t, chip.Violations())
}

func TestRoundTripSmallPart(t *testing.T) {
	s, _ := openSim(t, "24AA01")

	res, err := RoundTrip(s, 1)
	require.NoError(t, err)
	assert.Equal(t, 128-BaseAddress, res.Write.Bytes)
}

func TestRoundTripMismatch(t *testing.T) {
	s, _ := openSim(t, "24AA32A")

	_, err := RoundTrip(corruptingDevice{Device: s, offset: 17}, 7)
	require.ErrorIs(t, err, ErrMismatch)

	var m Mismatch
	require.True(t, errors.As(err, &m))
	assert.Equal(t, 17, m.Offset)
	assert.Equal(t, 610, m.Length)
	assert.Equal(t, m.Want^0x01, m.Got)
}

func TestFirstMismatch(t *testing.T) {
	_, ok := FirstMismatch([]byte("abc"), []byte("abc"))
	assert.False(t, ok)

	m, ok := FirstMismatch([]byte("abc"), []byte("abd"))
	require.True(t, ok)
	assert.Equal(t, Mismatch{Offset: 2, Want: 'c', Got: 'd', Length: 3}, m)
	assert.Equal(t, "mismatch 63/64 @ 0x2 on 3 bytes", m.Error())

	m, ok = FirstMismatch([]byte("abc"), []byte("ab"))
	require.True(t, ok)
	assert.Equal(t, 2, m.Offset)
}

func TestReadBandwidth(t *testing.T) {
	s, _ := openSim(t, "24AA64")

	r, err := ReadBandwidth(s)
	require.NoError(t, err)
	assert.Equal(t, 8192, r.Bytes)
	assert.Equal(t, "Read", r.Action)
}

func TestReportString(t *testing.T) {
	tests := []struct {
		r    Report
		want string
	}{
		{Report{"Read", 4096, 250 * time.Millisecond}, "Read 4.0 KiB in 250 ms @ 16.0 KiB/s"},
		{Report{"Write", 610, 2 * time.Second}, "Write 610 bytes in 2 seconds @ 305 bytes/s"},
		{Report{"Read", 0, 0}, "Read 0 bytes in 0 ms @ 0 bytes/s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.r.String())
	}
}

func TestDigest(t *testing.T) {
	assert.Equal(t, "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8", Digest(nil))
	assert.Len(t, Digest([]byte("x")), 64)
}

//go:build linux

package i2cdev

import (
	"errors"
	"fmt"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/i2cflash/i2cflash-go/pkg/i2c"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	addr   uint16
	w      []byte
	fill   []byte
	err    error
	closed int
}

func (f *fakeAdapter) Tx(addr uint16, w, r []byte) error {
	f.addr = addr
	f.w = append([]byte(nil), w...)
	copy(r, f.fill)
	return f.err
}

func (f *fakeAdapter) Close() error {
	f.closed++
	return nil
}

func TestTx(t *testing.T) {
	fa := &fakeAdapter{fill: []byte{0xCA, 0xFE}}
	b := newBus(fa, "/dev/i2c-1")

	r := make([]byte, 2)
	require.NoError(t, b.Tx(0x50, []byte{0x00, 0x10}, r))
	assert.Equal(t, uint16(0x50), fa.addr)
	assert.Equal(t, []byte{0x00, 0x10}, fa.w)
	assert.Equal(t, []byte{0xCA, 0xFE}, r)
}

func TestTranslate(t *testing.T) {
	// sysfs formats the errno into its message.
	assert.ErrorIs(t, translate(0x50, fmt.Errorf("sysfs-i2c: %v", unix.ENXIO)), i2c.ErrNoDevice)
	assert.ErrorIs(t, translate(0x50, fmt.Errorf("sysfs-i2c: %v", unix.EREMOTEIO)), i2c.ErrNACK)
	assert.ErrorIs(t, translate(0x50, unix.EREMOTEIO), i2c.ErrNACK)

	err := translate(0x50, fmt.Errorf("sysfs-i2c: %w", unix.EIO))
	assert.NotErrorIs(t, err, i2c.ErrNACK)
	assert.ErrorIs(t, err, unix.EIO)
}

func TestTxNACK(t *testing.T) {
	b := newBus(&fakeAdapter{err: errors.New("sysfs-i2c: remote I/O error")}, "/dev/i2c-1")
	assert.ErrorIs(t, b.Tx(0x51, nil, make([]byte, 1)), i2c.ErrNACK)
}

func TestTxValidationAndClose(t *testing.T) {
	fa := &fakeAdapter{}
	b := newBus(fa, "/dev/i2c-1")

	assert.ErrorIs(t, b.Tx(0x02, []byte{0}, nil), i2c.ErrInvalidBusAddress)
	assert.NoError(t, b.Tx(0x50, nil, nil))

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	assert.Equal(t, 1, fa.closed)
	assert.ErrorIs(t, b.Tx(0x50, []byte{0}, nil), i2c.ErrClosed)
}

func TestOpenRejectsBadPath(t *testing.T) {
	_, err := Open("/dev/spidev0.0")
	assert.Error(t, err)
}

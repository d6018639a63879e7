package i2c_test

import (
	"sync"
	"testing"
	"time"

	"github.com/i2cflash/i2cflash-go/pkg/i2c"
	"github.com/i2cflash/i2cflash-go/pkg/i2c/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBusControllerPort(t *testing.T) {
	bus := mocks.NewMockBus(t)
	ctrl := i2c.NewBusController(bus)

	_, err := ctrl.Port(0x80)
	assert.ErrorIs(t, err, i2c.ErrInvalidBusAddress)

	port, err := ctrl.Port(0x50)
	require.NoError(t, err)
	require.NoError(t, port.Configure(1, true))

	bus.EXPECT().Tx(uint8(0x50), []byte{0x00, 0x11}, []byte(nil)).Return(nil).Once()
	require.NoError(t, port.WriteTo(0, []byte{0x11}))

	_, ok := port.(i2c.Prober)
	assert.True(t, ok, "ports from a BusController should support probing")
}

func TestBusControllerClose(t *testing.T) {
	bus := mocks.NewMockBus(t)
	bus.EXPECT().Close().Return(nil).Once()
	ctrl := i2c.NewBusController(bus)

	port, err := ctrl.Port(0x50)
	require.NoError(t, err)
	require.NoError(t, port.Configure(1, true))

	require.NoError(t, ctrl.Close())
	// Second close is a no-op.
	require.NoError(t, ctrl.Close())

	_, err = ctrl.Port(0x50)
	assert.ErrorIs(t, err, i2c.ErrClosed)

	err = port.WriteTo(0, []byte{1})
	assert.ErrorIs(t, err, i2c.ErrClosed)
}

func TestBusControllerSerializesTransactions(t *testing.T) {
	bus := mocks.NewMockBus(t)
	ctrl := i2c.NewBusController(bus)

	var (
		mu       sync.Mutex
		inFlight int
		maxSeen  int
	)
	bus.EXPECT().Tx(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(uint8, []byte, []byte) error {
			mu.Lock()
			inFlight++
			if inFlight > maxSeen {
				maxSeen = inFlight
			}
			mu.Unlock()

			time.Sleep(50 * time.Microsecond)

			mu.Lock()
			inFlight--
			mu.Unlock()
			return nil
		})

	var wg sync.WaitGroup
	for _, addr := range []uint8{0x50, 0x51, 0x52, 0x53} {
		port, err := ctrl.Port(addr)
		require.NoError(t, err)
		require.NoError(t, port.Configure(2, true))

		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				_ = port.WriteTo(i, []byte{byte(i)})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}

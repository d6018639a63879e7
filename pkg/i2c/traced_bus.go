package i2c

import (
	"fmt"
	"time"

	"github.com/i2cflash/i2cflash-go/pkg/log"
)

// TracedBus reports every transaction of the wrapped Bus to a trace logger.
// Bus-layer events carry the raw bytes on the wire, so the write phase
// includes the on-chip address bytes.
type TracedBus struct {
	bus       Bus
	logger    log.Logger
	sessionID string
}

// NewTracedBus wraps bus. A nil logger disables tracing.
func NewTracedBus(bus Bus, logger log.Logger, sessionID string) *TracedBus {
	return &TracedBus{bus: bus, logger: log.OrNoop(logger), sessionID: sessionID}
}

// Tx implements Bus.
func (b *TracedBus) Tx(address uint8, w, r []byte) error {
	start := time.Now()
	err := b.bus.Tx(address, w, r)
	elapsed := time.Since(start)

	if err != nil {
		b.logger.Log(log.Event{
			Timestamp:  time.Now(),
			SessionID:  b.sessionID,
			Direction:  direction(r),
			Layer:      log.LayerBus,
			Category:   log.CategoryError,
			BusAddress: address,
			Error: &log.ErrorEventData{
				Layer:   log.LayerBus,
				Message: err.Error(),
				Context: fmt.Sprintf("tx w=%d r=%d", len(w), len(r)),
			},
		})
		return err
	}

	if len(w) > 0 {
		b.logger.Log(b.makeEvent(address, w, log.DirectionOut, elapsed))
	}
	if len(r) > 0 {
		b.logger.Log(b.makeEvent(address, r, log.DirectionIn, elapsed))
	}
	return nil
}

func (b *TracedBus) makeEvent(address uint8, data []byte, dir log.Direction, d time.Duration) log.Event {
	return log.Event{
		Timestamp:   time.Now(),
		SessionID:   b.sessionID,
		Direction:   dir,
		Layer:       log.LayerBus,
		Category:    log.CategoryTransaction,
		BusAddress:  address,
		Transaction: log.NewTransactionEvent(0, data, d),
	}
}

func direction(r []byte) log.Direction {
	if len(r) > 0 {
		return log.DirectionIn
	}
	return log.DirectionOut
}

// Close closes the wrapped bus.
func (b *TracedBus) Close() error {
	err := b.bus.Close()
	b.logger.Log(log.Event{
		Timestamp:   time.Now(),
		SessionID:   b.sessionID,
		Layer:       log.LayerBus,
		Category:    log.CategoryState,
		StateChange: &log.StateChangeEvent{Entity: log.StateEntityBus, OldState: "open", NewState: "closed"},
	})
	return err
}

// Compile-time interface satisfaction check.
var _ Bus = (*TracedBus)(nil)

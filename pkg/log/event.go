package log

import "time"

// MaxDataSize is the number of payload bytes kept in a TransactionEvent.
const MaxDataSize = 32

// Event represents a protocol trace event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the store instance or tool run (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates data flow relative to the chip.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Part is the EEPROM part name (e.g. 24AA256).
	Part string `cbor:"6,keyasint,omitempty"`

	// BusAddress is the 7-bit slave address.
	BusAddress uint8 `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Transaction *TransactionEvent `cbor:"10,keyasint,omitempty"` // Bus or store transfer
	WriteCycle  *WriteCycleEvent  `cbor:"11,keyasint,omitempty"` // Post-write completion wait
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"` // Store/bus lifecycle
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of data flow.
type Direction uint8

const (
	// DirectionIn indicates data read from the chip.
	DirectionIn Direction = 0
	// DirectionOut indicates data written to the chip.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerBus is the raw I2C transaction layer.
	LayerBus Layer = 0
	// LayerStore is the page-chunked memory layer.
	LayerStore Layer = 1
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerBus:
		return "BUS"
	case LayerStore:
		return "STORE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryTransaction indicates a read or write transfer.
	CategoryTransaction Category = 0
	// CategoryWriteCycle indicates a write-cycle wait.
	CategoryWriteCycle Category = 1
	// CategoryState indicates a state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTransaction:
		return "TRANSACTION"
	case CategoryWriteCycle:
		return "WRITE_CYCLE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// TransactionEvent captures one transfer.
type TransactionEvent struct {
	// Address is the on-chip memory address of the first byte.
	Address int `cbor:"1,keyasint"`

	// Length is the number of bytes transferred.
	Length int `cbor:"2,keyasint"`

	// Data is the transferred bytes (may be truncated to MaxDataSize).
	Data []byte `cbor:"3,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"4,keyasint,omitempty"`

	// Duration of the transfer. Stored as nanoseconds.
	Duration time.Duration `cbor:"5,keyasint,omitempty"`
}

// NewTransactionEvent builds a TransactionEvent, truncating data to MaxDataSize.
func NewTransactionEvent(address int, data []byte, d time.Duration) *TransactionEvent {
	ev := &TransactionEvent{
		Address:  address,
		Length:   len(data),
		Duration: d,
	}
	if len(data) > MaxDataSize {
		ev.Data = append([]byte(nil), data[:MaxDataSize]...)
		ev.Truncated = true
	} else if len(data) > 0 {
		ev.Data = append([]byte(nil), data...)
	}
	return ev
}

// WriteCycleEvent captures the wait for a chip's internal write cycle.
type WriteCycleEvent struct {
	// Address is the memory address of the chunk just written.
	Address int `cbor:"1,keyasint"`

	// Strategy is the waiting strategy used.
	Strategy WaitStrategy `cbor:"2,keyasint"`

	// Waited is the time spent waiting. Stored as nanoseconds.
	Waited time.Duration `cbor:"3,keyasint"`

	// Polls is the number of acknowledge probes issued (ACK polling only).
	Polls int `cbor:"4,keyasint,omitempty"`

	// TimedOut indicates the chip did not become ready in time.
	TimedOut bool `cbor:"5,keyasint,omitempty"`
}

// WaitStrategy identifies how completion of a write cycle is awaited.
type WaitStrategy uint8

const (
	// WaitFixed sleeps for a fixed worst-case time.
	WaitFixed WaitStrategy = 0
	// WaitAckPolling probes the chip until it acknowledges.
	WaitAckPolling WaitStrategy = 1
)

// String returns the strategy name.
func (w WaitStrategy) String() string {
	switch w {
	case WaitFixed:
		return "FIXED"
	case WaitAckPolling:
		return "ACK_POLLING"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures store and bus lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityStore indicates a store state change.
	StateEntityStore StateEntity = 0
	// StateEntityBus indicates a bus state change.
	StateEntityBus StateEntity = 1
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityStore:
		return "STORE"
	case StateEntityBus:
		return "BUS"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}

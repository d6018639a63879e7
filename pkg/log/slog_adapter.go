package log

import (
	"context"
	"encoding/hex"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger.
// Useful for development when you want to see bus traffic in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.Part != "" {
		attrs = append(attrs, slog.String("part", event.Part))
	}
	if event.BusAddress != 0 {
		attrs = append(attrs, slog.Int("bus_addr", int(event.BusAddress)))
	}

	switch {
	case event.Transaction != nil:
		tx := event.Transaction
		attrs = append(attrs,
			slog.Int("addr", tx.Address),
			slog.Int("len", tx.Length),
			slog.Duration("duration", tx.Duration),
		)
		if len(tx.Data) > 0 {
			attrs = append(attrs, slog.String("data", hex.EncodeToString(tx.Data)))
		}
		if tx.Truncated {
			attrs = append(attrs, slog.Bool("truncated", true))
		}
	case event.WriteCycle != nil:
		wc := event.WriteCycle
		attrs = append(attrs,
			slog.Int("addr", wc.Address),
			slog.String("strategy", wc.Strategy.String()),
			slog.Duration("waited", wc.Waited),
		)
		if wc.Polls > 0 {
			attrs = append(attrs, slog.Int("polls", wc.Polls))
		}
		if wc.TimedOut {
			attrs = append(attrs, slog.Bool("timed_out", true))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity.String()),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "trace", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)

// Package commands implements the i2cflash-log CLI commands.
package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/i2cflash/i2cflash-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Layer     *log.Layer
	Direction *log.Direction
	Category  *log.Category
	Part      string
}

func (f ViewFilter) matches(e log.Event) bool {
	lf := log.Filter{Layer: f.Layer, Direction: f.Direction, Category: f.Category, Part: f.Part}
	return lf.Matches(e)
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session] 0xADDR DIRECTION LAYER Type
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	session := shortenSessionID(event.SessionID)

	var typeLabel string
	switch {
	case event.Transaction != nil:
		typeLabel = "Transaction"
	case event.WriteCycle != nil:
		typeLabel = "WriteCycle"
	case event.StateChange != nil:
		typeLabel = "State"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [%s] 0x%02x %-3s %s %s", ts, session, event.BusAddress, event.Direction, event.Layer, typeLabel)
	if event.Part != "" {
		fmt.Fprintf(w, " (%s)", event.Part)
	}
	fmt.Fprintln(w)

	switch {
	case event.Transaction != nil:
		formatTransactionDetails(w, event.Layer, event.Transaction)
	case event.WriteCycle != nil:
		formatWriteCycleDetails(w, event.WriteCycle)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatTransactionDetails(w io.Writer, layer log.Layer, tx *log.TransactionEvent) {
	// Bus events carry the raw wire bytes, so the memory address is meaningless there.
	if layer == log.LayerStore {
		fmt.Fprintf(w, "  Address: 0x%04x\n", tx.Address)
	}
	fmt.Fprintf(w, "  Length: %d bytes\n", tx.Length)
	if len(tx.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(tx.Data))
		if tx.Truncated {
			fmt.Fprintf(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
	if tx.Duration > 0 {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(tx.Duration))
	}
}

func formatWriteCycleDetails(w io.Writer, wc *log.WriteCycleEvent) {
	fmt.Fprintf(w, "  Address: 0x%04x\n", wc.Address)
	fmt.Fprintf(w, "  Strategy: %s\n", wc.Strategy)
	fmt.Fprintf(w, "  Waited: %s", formatDuration(wc.Waited))
	if wc.Polls > 0 {
		fmt.Fprintf(w, " (%d polls)", wc.Polls)
	}
	fmt.Fprintln(w)
	if wc.TimedOut {
		fmt.Fprintln(w, "  TIMED OUT")
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity.String())
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer.String())
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseLayerFlag parses a layer string from command-line flag (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "bus":
		return log.LayerBus, nil
	case "store":
		return log.LayerStore, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be bus or store)", s)
	}
}

// ParseDirectionFlag parses a direction string from command-line flag (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "_")) {
	case "transaction":
		return log.CategoryTransaction, nil
	case "write_cycle":
		return log.CategoryWriteCycle, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be transaction, write-cycle, state, or error)", s)
	}
}

// ParseBusAddressFlag parses a 7-bit bus address, decimal or 0x-prefixed hex.
func ParseBusAddressFlag(s string) (uint8, error) {
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil || n > 0x7F {
		return 0, fmt.Errorf("invalid bus address: %s", s)
	}
	return uint8(n), nil
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if !filter.matches(event) {
			continue
		}
		formatEvent(output, event)
	}
	return nil
}

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func logJSON(t *testing.T, event Event) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	NewSlogAdapter(slog.New(handler)).Log(event)

	if buf.Len() == 0 {
		t.Fatal("no output produced")
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	return entry
}

func TestSlogAdapterLogsTransactionEvent(t *testing.T) {
	entry := logJSON(t, Event{
		Timestamp:   time.Now(),
		SessionID:   "session-123",
		Direction:   DirectionOut,
		Layer:       LayerStore,
		Category:    CategoryTransaction,
		Part:        "24AA32A",
		BusAddress:  0x50,
		Transaction: NewTransactionEvent(0x34, []byte{0xDE, 0xAD}, time.Millisecond),
	})

	checks := map[string]any{
		"msg":       "trace",
		"level":     "DEBUG",
		"session":   "session-123",
		"direction": "OUT",
		"layer":     "STORE",
		"category":  "TRANSACTION",
		"part":      "24AA32A",
		"bus_addr":  float64(0x50),
		"addr":      float64(0x34),
		"len":       float64(2),
		"data":      "dead",
	}
	for k, want := range checks {
		if entry[k] != want {
			t.Errorf("%s: got %v, want %v", k, entry[k], want)
		}
	}
	if _, ok := entry["truncated"]; ok {
		t.Error("truncated should be omitted")
	}
}

func TestSlogAdapterLogsWriteCycleEvent(t *testing.T) {
	entry := logJSON(t, Event{
		Category: CategoryWriteCycle,
		WriteCycle: &WriteCycleEvent{
			Address:  0x60,
			Strategy: WaitAckPolling,
			Waited:   2 * time.Millisecond,
			Polls:    4,
			TimedOut: true,
		},
	})

	if entry["strategy"] != "ACK_POLLING" {
		t.Errorf("strategy: got %v", entry["strategy"])
	}
	if entry["polls"] != float64(4) {
		t.Errorf("polls: got %v", entry["polls"])
	}
	if entry["timed_out"] != true {
		t.Errorf("timed_out: got %v", entry["timed_out"])
	}
	if _, ok := entry["part"]; ok {
		t.Error("part should be omitted when empty")
	}
}

func TestSlogAdapterLogsStateAndError(t *testing.T) {
	entry := logJSON(t, Event{
		Category:    CategoryState,
		StateChange: &StateChangeEvent{Entity: StateEntityStore, OldState: "", NewState: "open", Reason: "resolved"},
	})
	if entry["entity"] != "STORE" || entry["new_state"] != "open" || entry["reason"] != "resolved" {
		t.Errorf("unexpected state entry: %v", entry)
	}

	entry = logJSON(t, Event{
		Category: CategoryError,
		Error:    &ErrorEventData{Layer: LayerBus, Message: "NACK received", Context: "write 0x0040"},
	})
	if entry["error_layer"] != "BUS" || entry["error_msg"] != "NACK received" || entry["error_context"] != "write 0x0040" {
		t.Errorf("unexpected error entry: %v", entry)
	}
}

func TestSlogAdapterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	NewSlogAdapter(slog.New(handler)).Log(Event{SessionID: "x"})

	if buf.Len() != 0 {
		t.Errorf("expected no output at info level, got %q", buf.String())
	}
}

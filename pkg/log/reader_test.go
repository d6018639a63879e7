package log

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"
)

func createTestTraceFile(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.etrace")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test trace: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func readAll(t *testing.T, path string, filter Filter) []Event {
	t.Helper()

	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var out []Event
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		out = append(out, event)
	}
	return out
}

func TestReaderIteratesEvents(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), SessionID: "s-1", Direction: DirectionIn, Layer: LayerBus, Category: CategoryTransaction},
		{Timestamp: time.Now(), SessionID: "s-2", Direction: DirectionOut, Layer: LayerStore, Category: CategoryTransaction},
		{Timestamp: time.Now(), SessionID: "s-3", Direction: DirectionOut, Layer: LayerStore, Category: CategoryWriteCycle},
	}

	read := readAll(t, createTestTraceFile(t, events), Filter{})
	if len(read) != 3 {
		t.Fatalf("got %d events, want 3", len(read))
	}
	for i, want := range []string{"s-1", "s-2", "s-3"} {
		if read[i].SessionID != want {
			t.Errorf("event %d: SessionID %q, want %q", i, read[i].SessionID, want)
		}
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "none.etrace")); err == nil {
		t.Fatal("expected error")
	}
}

func TestReaderEmptyFile(t *testing.T) {
	if n := len(readAll(t, createTestTraceFile(t, nil), Filter{})); n != 0 {
		t.Errorf("got %d events, want 0", n)
	}
}

func TestFilterMatches(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []Event{
		{Timestamp: base, SessionID: "a", Direction: DirectionIn, Layer: LayerBus, Category: CategoryTransaction, Part: "24AA256", BusAddress: 0x50},
		{Timestamp: base.Add(time.Second), SessionID: "a", Direction: DirectionOut, Layer: LayerStore, Category: CategoryWriteCycle, Part: "24AA256", BusAddress: 0x50},
		{Timestamp: base.Add(2 * time.Second), SessionID: "b", Direction: DirectionOut, Layer: LayerStore, Category: CategoryError, Part: "24LC02", BusAddress: 0x51},
	}
	path := createTestTraceFile(t, events)

	in := DirectionIn
	store := LayerStore
	wc := CategoryWriteCycle
	addr := uint8(0x51)
	start := base.Add(time.Second)
	end := base.Add(2 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 3},
		{"session", Filter{SessionID: "a"}, 2},
		{"direction", Filter{Direction: &in}, 1},
		{"layer", Filter{Layer: &store}, 2},
		{"category", Filter{Category: &wc}, 1},
		{"part case insensitive", Filter{Part: "24aa256"}, 2},
		{"bus address", Filter{BusAddress: &addr}, 1},
		{"time window", Filter{TimeStart: &start, TimeEnd: &end}, 1},
		{"combined no match", Filter{SessionID: "b", Direction: &in}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(readAll(t, path, tt.filter)); got != tt.want {
				t.Errorf("got %d events, want %d", got, tt.want)
			}
		})
	}
}

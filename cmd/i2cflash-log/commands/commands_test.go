package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/i2cflash/i2cflash-go/pkg/log"
)

func createTestTraceFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.etrace")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func readAll(t *testing.T, path string) []log.Event {
	t.Helper()
	reader, err := log.NewReader(path)
	if err != nil {
		t.Fatalf("failed to open trace: %v", err)
	}
	defer reader.Close()

	var out []log.Event
	for {
		e, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("failed to read event: %v", err)
		}
		out = append(out, e)
	}
}

var testTime = time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)

func sampleEvents() []log.Event {
	return []log.Event{
		{
			Timestamp: testTime, SessionID: "sess-aaaa-1111", Direction: log.DirectionOut,
			Layer: log.LayerStore, Category: log.CategoryState, Part: "24AA32A", BusAddress: 0x50,
			StateChange: &log.StateChangeEvent{Entity: log.StateEntityStore, NewState: "open"},
		},
		{
			Timestamp: testTime.Add(time.Millisecond), SessionID: "sess-aaaa-1111", Direction: log.DirectionOut,
			Layer: log.LayerStore, Category: log.CategoryTransaction, Part: "24AA32A", BusAddress: 0x50,
			Transaction: log.NewTransactionEvent(0x34, []byte{0xde, 0xad, 0xbe, 0xef}, 150*time.Microsecond),
		},
		{
			Timestamp: testTime.Add(2 * time.Millisecond), SessionID: "sess-aaaa-1111", Direction: log.DirectionOut,
			Layer: log.LayerStore, Category: log.CategoryWriteCycle, Part: "24AA32A", BusAddress: 0x50,
			WriteCycle: &log.WriteCycleEvent{Address: 0x34, Strategy: log.WaitAckPolling, Waited: 3 * time.Millisecond, Polls: 12},
		},
		{
			Timestamp: testTime.Add(6 * time.Millisecond), SessionID: "sess-aaaa-1111", Direction: log.DirectionIn,
			Layer: log.LayerBus, Category: log.CategoryTransaction, BusAddress: 0x50,
			Transaction: log.NewTransactionEvent(0, []byte{0xde, 0xad}, 90*time.Microsecond),
		},
		{
			Timestamp: testTime.Add(7 * time.Millisecond), SessionID: "sess-bbbb-2222", Direction: log.DirectionIn,
			Layer: log.LayerStore, Category: log.CategoryError, Part: "24AA256", BusAddress: 0x53,
			Error: &log.ErrorEventData{Layer: log.LayerStore, Message: "NACK received", Context: "read 0x0000+64"},
		},
	}
}

func TestFormatTransactionEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[1])
	output := buf.String()

	for _, want := range []string{
		"2026-01-28T10:15:32.124456Z",
		"[sess-aaa]",
		"0x50 OUT STORE Transaction (24AA32A)",
		"Address: 0x0034",
		"Length: 4 bytes",
		"Data: deadbeef",
		"Duration: 150.000us",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestFormatBusTransactionOmitsAddress(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[3])

	if strings.Contains(buf.String(), "Address:") {
		t.Errorf("bus event should not show a memory address, got:\n%s", buf.String())
	}
}

func TestFormatWriteCycleEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[2])
	output := buf.String()

	for _, want := range []string{"WriteCycle", "Strategy: ACK_POLLING", "Waited: 3.000ms (12 polls)"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}

	buf.Reset()
	formatEvent(&buf, log.Event{Timestamp: testTime, WriteCycle: &log.WriteCycleEvent{TimedOut: true}})
	if !strings.Contains(buf.String(), "TIMED OUT") {
		t.Errorf("expected timeout marker, got:\n%s", buf.String())
	}
}

func TestFormatStateAndErrorEvents(t *testing.T) {
	events := sampleEvents()

	var buf bytes.Buffer
	formatEvent(&buf, events[0])
	if !strings.Contains(buf.String(), "  -> open") {
		t.Errorf("expected state transition, got:\n%s", buf.String())
	}

	buf.Reset()
	formatEvent(&buf, events[4])
	for _, want := range []string{"Error", "Message: NACK received", "Context: read 0x0000+64"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in output, got:\n%s", want, buf.String())
		}
	}
}

func TestParseFlags(t *testing.T) {
	if l, err := ParseLayerFlag("BUS"); err != nil || l != log.LayerBus {
		t.Errorf("ParseLayerFlag(BUS) = %v, %v", l, err)
	}
	if _, err := ParseLayerFlag("wire"); err == nil {
		t.Error("expected error for unknown layer")
	}

	if d, err := ParseDirectionFlag("in"); err != nil || d != log.DirectionIn {
		t.Errorf("ParseDirectionFlag(in) = %v, %v", d, err)
	}
	if _, err := ParseDirectionFlag("sideways"); err == nil {
		t.Error("expected error for unknown direction")
	}

	tests := []struct {
		input string
		want  log.Category
	}{
		{"transaction", log.CategoryTransaction},
		{"write-cycle", log.CategoryWriteCycle},
		{"WRITE_CYCLE", log.CategoryWriteCycle},
		{"state", log.CategoryState},
		{"error", log.CategoryError},
	}
	for _, tt := range tests {
		got, err := ParseCategoryFlag(tt.input)
		if err != nil || got != tt.want {
			t.Errorf("ParseCategoryFlag(%q) = %v, %v; want %v", tt.input, got, err, tt.want)
		}
	}

	if a, err := ParseBusAddressFlag("0x53"); err != nil || a != 0x53 {
		t.Errorf("ParseBusAddressFlag(0x53) = %v, %v", a, err)
	}
	for _, bad := range []string{"0x80", "foo", "-1"} {
		if _, err := ParseBusAddressFlag(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestRunViewFilters(t *testing.T) {
	path := createTestTraceFile(t, sampleEvents())

	layer := log.LayerBus
	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{Layer: &layer}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	if n := strings.Count(buf.String(), "Transaction"); n != 1 {
		t.Errorf("expected 1 bus transaction, got %d:\n%s", n, buf.String())
	}

	buf.Reset()
	if err := RunView(path, ViewFilter{Part: "24aa256"}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	if !strings.Contains(buf.String(), "NACK received") || strings.Contains(buf.String(), "24AA32A") {
		t.Errorf("part filter mismatch:\n%s", buf.String())
	}
}

func TestRunViewMissingFile(t *testing.T) {
	if err := RunView(filepath.Join(t.TempDir(), "none.etrace"), ViewFilter{}, io.Discard); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExportToJSONL(t *testing.T) {
	path := createTestTraceFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}

	var e log.Event
	if err := json.Unmarshal([]byte(lines[1]), &e); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if e.Transaction == nil || e.Transaction.Address != 0x34 {
		t.Errorf("expected transaction at 0x34, got %+v", e.Transaction)
	}
}

func TestExportToCSV(t *testing.T) {
	path := createTestTraceFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "out.csv")

	if err := RunExport(path, "csv", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected header + 5 rows, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "timestamp,session_id,direction") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[2], "0x0034,4,deadbeef") {
		t.Errorf("unexpected transaction row: %s", lines[2])
	}
	if !strings.HasSuffix(lines[3], ",3000") {
		t.Errorf("unexpected write cycle row: %s", lines[3])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestTraceFile(t, sampleEvents())
	if err := RunExport(path, "xml", filepath.Join(t.TempDir(), "out")); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRunFilter(t *testing.T) {
	path := createTestTraceFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "filtered.etrace")

	n, err := RunFilter(path, FilterOptions{Output: out, SessionID: "sess-aaaa-1111", Layer: "store"})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 events, got %d", n)
	}

	events := readAll(t, out)
	if len(events) != 3 {
		t.Fatalf("expected 3 events in output, got %d", len(events))
	}
	for _, e := range events {
		if e.SessionID != "sess-aaaa-1111" || e.Layer != log.LayerStore {
			t.Errorf("unexpected event: %+v", e)
		}
	}
}

func TestRunFilterByAddressAndTime(t *testing.T) {
	path := createTestTraceFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "filtered.etrace")

	n, err := RunFilter(path, FilterOptions{Output: out, BusAddress: "0x53"})
	if err != nil || n != 1 {
		t.Errorf("bus address filter: n=%d err=%v", n, err)
	}

	n, err = RunFilter(path, FilterOptions{Output: out, TimeEnd: testTime.Add(time.Second).Format(time.RFC3339)})
	if err != nil || n != 5 {
		t.Errorf("time filter: n=%d err=%v", n, err)
	}

	if _, err := RunFilter(path, FilterOptions{Output: out, TimeStart: "yesterday"}); err == nil {
		t.Error("expected error for bad time")
	}
	if _, err := RunFilter(path, FilterOptions{Output: out, Category: "bogus"}); err == nil {
		t.Error("expected error for bad category")
	}
}

func TestCollectStats(t *testing.T) {
	path := createTestTraceFile(t, sampleEvents())

	stats, err := CollectStats(path)
	if err != nil {
		t.Fatalf("CollectStats failed: %v", err)
	}

	if stats.TotalEvents != 5 {
		t.Errorf("expected 5 events, got %d", stats.TotalEvents)
	}
	if stats.EventsByLayer[log.LayerStore] != 4 || stats.EventsByLayer[log.LayerBus] != 1 {
		t.Errorf("unexpected layer counts: %v", stats.EventsByLayer)
	}
	if stats.Errors != 1 {
		t.Errorf("expected 1 error, got %d", stats.Errors)
	}
	if len(stats.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(stats.Sessions))
	}

	s := stats.Sessions["sess-aaaa-1111"]
	if s.Part != "24AA32A" || s.BytesWritten != 4 || s.BytesRead != 0 {
		t.Errorf("unexpected session stats: %+v", s)
	}
	if s.WriteCycles != 1 || s.Waited != 3*time.Millisecond {
		t.Errorf("unexpected write cycle stats: %+v", s)
	}
	if !stats.TimeRange.Start.Equal(testTime) || !stats.TimeRange.End.Equal(testTime.Add(7*time.Millisecond)) {
		t.Errorf("unexpected time range: %v", stats.TimeRange)
	}
}

func TestRunStatsOutput(t *testing.T) {
	path := createTestTraceFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Total Events: 5",
		"STORE:         4",
		"Sessions: 2",
		"[sess-aaa] 4 events",
		"Written: 4 bytes",
		"Write cycles: 1, avg wait 3.000ms",
		"Errors: 1",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

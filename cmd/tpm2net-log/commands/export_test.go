package commands

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tpm2net/tpm2net-go/pkg/log"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.tlog")

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

func TestExportToJSONL(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)
	events := []log.Event{
		{
			Timestamp:  ts,
			DriverID:   "drv-1",
			Direction:  log.DirectionOut,
			Layer:      log.LayerTransport,
			Category:   log.CategoryPacket,
			RemoteAddr: "10.0.0.42:65506",
			Packet:     &log.PacketEvent{Panel: 0, TotalPackets: 1, Size: 199},
		},
		{
			Timestamp: ts.Add(time.Millisecond),
			DriverID:  "drv-1",
			Direction: log.DirectionOut,
			Layer:     log.LayerProtocol,
			Category:  log.CategoryCache,
			Cache:     &log.CacheEvent{Panel: 0, Changed: true, Size: 192},
		},
	}

	path := createTestLogFile(t, events)

	outPath := filepath.Join(t.TempDir(), "out.jsonl")
	if err := RunExport(path, "jsonl", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 JSONL lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "drv-1") {
		t.Errorf("expected driver ID in output, got: %s", lines[0])
	}
}

func TestExportToCSV(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	events := []log.Event{
		{
			Timestamp: ts,
			DriverID:  "drv-1",
			Direction: log.DirectionOut,
			Layer:     log.LayerTransport,
			Category:  log.CategoryPacket,
			Packet:    &log.PacketEvent{Panel: 2, TotalPackets: 4, Size: 199},
		},
		{
			Timestamp:   ts,
			DriverID:    "drv-1",
			Direction:   log.DirectionOut,
			Layer:       log.LayerDriver,
			Category:    log.CategoryState,
			StateChange: &log.StateChangeEvent{NewState: "ready"},
		},
	}

	path := createTestLogFile(t, events)

	outPath := filepath.Join(t.TempDir(), "out.csv")
	if err := RunExport(path, "csv", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}

	// Header + 2 events
	if len(records) != 3 {
		t.Fatalf("expected 3 CSV records, got %d", len(records))
	}
	if records[0][0] != "timestamp" {
		t.Errorf("expected timestamp header, got: %s", records[0][0])
	}
	if records[1][6] != "packet" {
		t.Errorf("expected packet type, got: %s", records[1][6])
	}
	if records[1][7] != "2" {
		t.Errorf("expected panel 2, got: %s", records[1][7])
	}
	if records[2][6] != "state" {
		t.Errorf("expected state type, got: %s", records[2][6])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, []log.Event{{Timestamp: time.Now()}})

	if err := RunExport(path, "xml", ""); err == nil {
		t.Error("expected error for unknown format")
	}
}

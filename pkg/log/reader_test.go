package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func createTestLogFile(t *testing.T, events []Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.tlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func TestReaderIteratesEvents(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), DriverID: "driver-1", Direction: DirectionOut, Layer: LayerTransport, Category: CategoryPacket},
		{Timestamp: time.Now(), DriverID: "driver-2", Direction: DirectionOut, Layer: LayerProtocol, Category: CategoryCache},
		{Timestamp: time.Now(), DriverID: "driver-3", Direction: DirectionOut, Layer: LayerDriver, Category: CategoryState},
	}

	path := createTestLogFile(t, events)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 3 {
		t.Fatalf("got %d events, want 3", len(read))
	}

	// Verify order
	if read[0].DriverID != "driver-1" {
		t.Errorf("first event DriverID = %q, want %q", read[0].DriverID, "driver-1")
	}
	if read[2].DriverID != "driver-3" {
		t.Errorf("last event DriverID = %q, want %q", read[2].DriverID, "driver-3")
	}
}

func TestReaderHandlesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.tlog")

	// Create empty file
	logger, _ := NewFileLogger(path)
	logger.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	event, err := reader.Next()
	if err != io.EOF {
		t.Errorf("expected io.EOF, got err=%v, event=%+v", err, event)
	}
}

func TestReaderFilterByDriverID(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), DriverID: "driver-A", Direction: DirectionOut, Layer: LayerTransport, Category: CategoryPacket},
		{Timestamp: time.Now(), DriverID: "driver-B", Direction: DirectionOut, Layer: LayerProtocol, Category: CategoryCache},
		{Timestamp: time.Now(), DriverID: "driver-A", Direction: DirectionOut, Layer: LayerDriver, Category: CategoryState},
		{Timestamp: time.Now(), DriverID: "driver-C", Direction: DirectionOut, Layer: LayerTransport, Category: CategoryPacket},
	}

	path := createTestLogFile(t, events)

	filter := Filter{DriverID: "driver-A"}
	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 2 {
		t.Fatalf("got %d events, want 2", len(read))
	}

	for _, e := range read {
		if e.DriverID != "driver-A" {
			t.Errorf("event has DriverID=%q, want %q", e.DriverID, "driver-A")
		}
	}
}

func TestReaderFilterByLayer(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), DriverID: "driver-1", Direction: DirectionOut, Layer: LayerTransport, Category: CategoryPacket},
		{Timestamp: time.Now(), DriverID: "driver-2", Direction: DirectionOut, Layer: LayerProtocol, Category: CategoryCache},
		{Timestamp: time.Now(), DriverID: "driver-3", Direction: DirectionOut, Layer: LayerProtocol, Category: CategoryCache},
		{Timestamp: time.Now(), DriverID: "driver-4", Direction: DirectionOut, Layer: LayerDriver, Category: CategoryState},
	}

	path := createTestLogFile(t, events)

	layer := LayerProtocol
	filter := Filter{Layer: &layer}
	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 2 {
		t.Fatalf("got %d events, want 2", len(read))
	}

	for _, e := range read {
		if e.Layer != LayerProtocol {
			t.Errorf("event has Layer=%v, want %v", e.Layer, LayerProtocol)
		}
	}
}

func TestReaderFilterByTimeRange(t *testing.T) {
	baseTime := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	events := []Event{
		{Timestamp: baseTime.Add(-1 * time.Hour), DriverID: "driver-1", Direction: DirectionOut, Layer: LayerTransport, Category: CategoryPacket},
		{Timestamp: baseTime, DriverID: "driver-2", Direction: DirectionOut, Layer: LayerProtocol, Category: CategoryCache},
		{Timestamp: baseTime.Add(30 * time.Minute), DriverID: "driver-3", Direction: DirectionOut, Layer: LayerDriver, Category: CategoryState},
		{Timestamp: baseTime.Add(2 * time.Hour), DriverID: "driver-4", Direction: DirectionOut, Layer: LayerTransport, Category: CategoryPacket},
	}

	path := createTestLogFile(t, events)

	start := baseTime.Add(-5 * time.Minute)
	end := baseTime.Add(1 * time.Hour)
	filter := Filter{
		TimeStart: &start,
		TimeEnd:   &end,
	}
	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 2 {
		t.Fatalf("got %d events, want 2 (events within time range)", len(read))
	}

	// Verify it's the middle two events
	if read[0].DriverID != "driver-2" {
		t.Errorf("first event DriverID = %q, want %q", read[0].DriverID, "driver-2")
	}
	if read[1].DriverID != "driver-3" {
		t.Errorf("second event DriverID = %q, want %q", read[1].DriverID, "driver-3")
	}
}

func TestReaderFilterByPanel(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), DriverID: "d", Direction: DirectionOut, Layer: LayerTransport, Category: CategoryPacket, Packet: &PacketEvent{Panel: 0, Size: 10}},
		{Timestamp: time.Now(), DriverID: "d", Direction: DirectionOut, Layer: LayerTransport, Category: CategoryPacket, Packet: &PacketEvent{Panel: 1, Size: 10}},
		{Timestamp: time.Now(), DriverID: "d", Direction: DirectionOut, Layer: LayerProtocol, Category: CategoryCache, Cache: &CacheEvent{Panel: 1, Changed: true, Size: 10}},
		{Timestamp: time.Now(), DriverID: "d", Direction: DirectionOut, Layer: LayerDriver, Category: CategoryState, StateChange: &StateChangeEvent{NewState: "ready"}},
	}

	path := createTestLogFile(t, events)

	panel := 1
	filter := Filter{Panel: &panel}
	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	// Packet and cache events for panel 1; the state change never
	// matches a panel filter.
	if len(read) != 2 {
		t.Fatalf("got %d events, want 2", len(read))
	}
}

func TestReaderCombinedFilters(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), DriverID: "driver-A", Direction: DirectionIn, Layer: LayerTransport, Category: CategoryPacket},
		{Timestamp: time.Now(), DriverID: "driver-A", Direction: DirectionOut, Layer: LayerProtocol, Category: CategoryCache},
		{Timestamp: time.Now(), DriverID: "driver-B", Direction: DirectionIn, Layer: LayerProtocol, Category: CategoryCache},
		{Timestamp: time.Now(), DriverID: "driver-A", Direction: DirectionIn, Layer: LayerProtocol, Category: CategoryCache},
	}

	path := createTestLogFile(t, events)

	layer := LayerProtocol
	dir := DirectionIn
	filter := Filter{
		DriverID:  "driver-A",
		Layer:     &layer,
		Direction: &dir,
	}
	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	// Only the last event matches all criteria
	if len(read) != 1 {
		t.Fatalf("got %d events, want 1", len(read))
	}

	if read[0].DriverID != "driver-A" || read[0].Layer != LayerProtocol || read[0].Direction != DirectionIn {
		t.Error("event doesn't match all filter criteria")
	}
}

// Package commands implements the tpm2net-log CLI commands.
package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/tpm2net/tpm2net-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Layer     *log.Layer
	Direction *log.Direction
	Category  *log.Category
	Panel     *int
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [drv:id] DIRECTION LAYER Type
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	driverID := shortenDriverID(event.DriverID)
	dir := event.Direction.String()

	var typeLabel string
	switch {
	case event.Packet != nil:
		typeLabel = "Packet"
	case event.Cache != nil:
		typeLabel = "Cache"
	case event.StateChange != nil:
		typeLabel = "State"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [drv:%s] %-3s %s %s\n", ts, driverID, dir, event.Layer.String(), typeLabel)

	if event.RemoteAddr != "" {
		fmt.Fprintf(w, "  Remote: %s\n", event.RemoteAddr)
	}

	switch {
	case event.Packet != nil:
		formatPacketDetails(w, event.Packet)
	case event.Cache != nil:
		formatCacheDetails(w, event.Cache)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenDriverID returns the first 8 characters of the driver ID.
func shortenDriverID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatPacketDetails writes packet-specific details.
func formatPacketDetails(w io.Writer, pkt *log.PacketEvent) {
	if pkt.Panel >= 0 {
		fmt.Fprintf(w, "  Panel: %d\n", pkt.Panel)
	}
	fmt.Fprintf(w, "  Packet: %d/%d\n", pkt.PacketNumber, pkt.TotalPackets)
	fmt.Fprintf(w, "  Size: %d bytes\n", pkt.Size)
	if len(pkt.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(pkt.Data))
		if pkt.Truncated {
			fmt.Fprintf(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

// formatCacheDetails writes change-detection details.
func formatCacheDetails(w io.Writer, cache *log.CacheEvent) {
	decision := "suppressed"
	if cache.Changed {
		decision = "changed"
	}
	fmt.Fprintf(w, "  Panel: %d\n", cache.Panel)
	fmt.Fprintf(w, "  Decision: %s\n", decision)
	fmt.Fprintf(w, "  Size: %d bytes\n", cache.Size)
}

// formatStateChangeDetails writes state change details.
func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

// formatErrorDetails writes error details.
func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer.String())
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// ParseLayerFlag parses a layer string from command-line flag (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	return parseLayer(s)
}

// parseLayer parses a layer string (case-insensitive).
func parseLayer(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "transport":
		return log.LayerTransport, nil
	case "protocol":
		return log.LayerProtocol, nil
	case "driver":
		return log.LayerDriver, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be transport, protocol, or driver)", s)
	}
}

// ParseDirectionFlag parses a direction string from command-line flag (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	return parseDirection(s)
}

// parseDirection parses a direction string (case-insensitive).
func parseDirection(s string) (log.Direction, error) {
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
	return parseCategory(s)
}

// parseCategory parses a category string (case-insensitive).
func parseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "packet":
		return log.CategoryPacket, nil
	case "cache":
		return log.CategoryCache, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be packet, cache, state, or error)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		if filter.Layer != nil && event.Layer != *filter.Layer {
			continue
		}
		if filter.Direction != nil && event.Direction != *filter.Direction {
			continue
		}
		if filter.Category != nil && event.Category != *filter.Category {
			continue
		}
		if filter.Panel != nil && !matchesPanel(event, *filter.Panel) {
			continue
		}

		formatEvent(output, event)
	}

	return nil
}

// matchesPanel returns true if the event carries the given panel index.
func matchesPanel(event log.Event, panel int) bool {
	switch {
	case event.Packet != nil:
		return event.Packet.Panel == panel
	case event.Cache != nil:
		return event.Cache.Panel == panel
	default:
		return false
	}
}

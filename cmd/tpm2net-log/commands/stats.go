package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/tpm2net/tpm2net-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Drivers           map[string]*DriverStats
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// DriverStats holds statistics for a single driver or receiver instance.
type DriverStats struct {
	FirstSeen       time.Time
	LastSeen        time.Time
	Events          int
	RemoteAddr      string
	PacketsSent     int
	PacketBytes     int
	CacheChanged    int
	CacheSuppressed int
	Panels          map[int]struct{}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Drivers:           make(map[string]*DriverStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByLayer[event.Layer]++
		stats.EventsByCategory[event.Category]++
		stats.EventsByDirection[event.Direction]++

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		// Track per-driver stats
		drv, ok := stats.Drivers[event.DriverID]
		if !ok {
			drv = &DriverStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
				Panels:    make(map[int]struct{}),
			}
			stats.Drivers[event.DriverID] = drv
		}
		drv.Events++
		if event.Timestamp.After(drv.LastSeen) {
			drv.LastSeen = event.Timestamp
		}
		if event.RemoteAddr != "" && drv.RemoteAddr == "" {
			drv.RemoteAddr = event.RemoteAddr
		}

		if event.Packet != nil {
			drv.PacketsSent++
			drv.PacketBytes += event.Packet.Size
			if event.Packet.Panel >= 0 {
				drv.Panels[event.Packet.Panel] = struct{}{}
			}
		}

		if event.Cache != nil {
			if event.Cache.Changed {
				drv.CacheChanged++
			} else {
				drv.CacheSuppressed++
			}
			drv.Panels[event.Cache.Panel] = struct{}{}
		}

		if event.Error != nil {
			stats.Errors++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== TPM2.net Protocol Log Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	// Total events
	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	// Events by layer
	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerTransport, log.LayerProtocol, log.LayerDriver} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Events by category
	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryPacket, log.CategoryCache, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Events by direction
	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Drivers
	fmt.Fprintf(w, "Drivers: %d\n", len(stats.Drivers))
	if len(stats.Drivers) > 0 {
		// Sort by first seen time
		type drvInfo struct {
			id    string
			stats *DriverStats
		}
		drivers := make([]drvInfo, 0, len(stats.Drivers))
		for id, ds := range stats.Drivers {
			drivers = append(drivers, drvInfo{id, ds})
		}
		sort.Slice(drivers, func(i, j int) bool {
			return drivers[i].stats.FirstSeen.Before(drivers[j].stats.FirstSeen)
		})

		fmt.Fprintln(w, "")
		for _, d := range drivers {
			duration := d.stats.LastSeen.Sub(d.stats.FirstSeen).Round(time.Millisecond)
			shortID := d.id
			if len(shortID) > 8 {
				shortID = shortID[:8]
			}
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortID, d.stats.Events, duration)
			if d.stats.RemoteAddr != "" {
				fmt.Fprintf(w, "           Remote: %s\n", d.stats.RemoteAddr)
			}
			if d.stats.PacketsSent > 0 {
				fmt.Fprintf(w, "           Packets: %d (%d bytes)\n", d.stats.PacketsSent, d.stats.PacketBytes)
			}
			if d.stats.CacheChanged+d.stats.CacheSuppressed > 0 {
				fmt.Fprintf(w, "           Cache: %d changed, %d suppressed\n",
					d.stats.CacheChanged, d.stats.CacheSuppressed)
			}
			if len(d.stats.Panels) > 0 {
				fmt.Fprintf(w, "           Panels: %d\n", len(d.stats.Panels))
			}
		}
	}

	// Errors
	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}

// Command tpm2net-monitor receives and inspects TPM2.net traffic.
//
// It binds the TPM2.net UDP port, parses incoming packets,
// reassembles multi-packet frames, and prints periodic traffic
// statistics. A WebSocket preview endpoint can mirror completed
// frames to browser clients, and the monitor can announce itself via
// mDNS so senders find it without configuration.
//
// Usage:
//
//	tpm2net-monitor [flags]
//
// Flags:
//
//	-listen string     UDP listen address (default ":65506")
//	-ws string         HTTP listen address for the WebSocket preview (e.g. ":8080")
//	-announce          Announce this receiver via mDNS
//	-name string       mDNS instance name (default derived from geometry)
//	-width int         Panel width in pixels (default 8)
//	-height int        Panel height in pixels (default 8)
//	-panels int        Panel count (default 1)
//	-stats duration    Statistics print interval (default 10s)
//	-protocol-log string Write protocol events to a .tlog file
//	-verbose           Log every completed frame
//	-version           Print version and exit
//
// Examples:
//
//	# Plain traffic monitor
//	tpm2net-monitor
//
//	# Browser preview on :8080/ws, announced via mDNS
//	tpm2net-monitor -ws :8080 -announce -width 16 -height 16 -panels 4
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/tpm2net/tpm2net-go/pkg/discovery"
	plog "github.com/tpm2net/tpm2net-go/pkg/log"
	"github.com/tpm2net/tpm2net-go/pkg/monitor"
	"github.com/tpm2net/tpm2net-go/pkg/tpm2"
	"github.com/tpm2net/tpm2net-go/pkg/transport"
	"github.com/tpm2net/tpm2net-go/pkg/version"
)

type cliConfig struct {
	Listen      string
	WS          string
	Announce    bool
	Name        string
	Width       int
	Height      int
	Panels      int
	Stats       time.Duration
	ProtocolLog string
	Verbose     bool
	Version     bool
}

var cli cliConfig

func init() {
	flag.StringVar(&cli.Listen, "listen", fmt.Sprintf(":%d", tpm2.NetPort), "UDP listen address")
	flag.StringVar(&cli.WS, "ws", "", "HTTP listen address for the WebSocket preview (e.g. :8080)")
	flag.BoolVar(&cli.Announce, "announce", false, "Announce this receiver via mDNS")
	flag.StringVar(&cli.Name, "name", "", "mDNS instance name (default derived from geometry)")
	flag.IntVar(&cli.Width, "width", 8, "Panel width in pixels")
	flag.IntVar(&cli.Height, "height", 8, "Panel height in pixels")
	flag.IntVar(&cli.Panels, "panels", 1, "Panel count")
	flag.DurationVar(&cli.Stats, "stats", 10*time.Second, "Statistics print interval")
	flag.StringVar(&cli.ProtocolLog, "protocol-log", "", "Write protocol events to a .tlog file")
	flag.BoolVar(&cli.Verbose, "verbose", false, "Log every completed frame")
	flag.BoolVar(&cli.Version, "version", false, "Print version and exit")
}

func main() {
	flag.Parse()

	if cli.Version {
		fmt.Println(version.String())
		return
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var protocolLogger plog.Logger
	if cli.ProtocolLog != "" {
		fl, err := plog.NewFileLogger(cli.ProtocolLog)
		if err != nil {
			zlog.Fatal().Err(err).Str("path", cli.ProtocolLog).Msg("failed to open protocol log")
		}
		defer fl.Close()
		protocolLogger = fl
		zlog.Info().Str("path", cli.ProtocolLog).Msg("protocol logging enabled")
	}

	stats := monitor.NewStats()
	reasm := monitor.NewReassembler()
	hub := monitor.NewHub(monitor.Topology{
		PanelWidth:  cli.Width,
		PanelHeight: cli.Height,
		PanelCount:  cli.Panels,
	})

	receiver := transport.NewReceiver(transport.ReceiverConfig{
		Address: cli.Listen,
		Logger:  protocolLogger,
		OnPacket: func(src net.Addr, packet []byte) {
			handlePacket(src, packet, stats, reasm, hub)
		},
		OnError: func(err error) {
			zlog.Error().Err(err).Msg("receive error")
		},
	})
	if err := receiver.Start(ctx); err != nil {
		zlog.Fatal().Err(err).Str("listen", cli.Listen).Msg("failed to start receiver")
	}
	defer receiver.Stop()
	zlog.Info().Str("listen", cli.Listen).Msg("listening for TPM2.net packets")

	if cli.WS != "" {
		go servePreview(cli.WS, hub)
	}

	if cli.Announce {
		advertiser := discovery.NewAdvertiser(discovery.AdvertiserConfig{})
		info := &discovery.WallInfo{
			InstanceName: cli.Name,
			Port:         listenPort(cli.Listen),
			PanelWidth:   cli.Width,
			PanelHeight:  cli.Height,
			PanelCount:   cli.Panels,
			Version:      version.ProtocolRevision,
		}
		if err := advertiser.Advertise(info); err != nil {
			zlog.Error().Err(err).Msg("mDNS announcement failed")
		} else {
			defer advertiser.Stop()
			zlog.Info().
				Str("service", discovery.ServiceType).
				Int("panels", cli.Panels).
				Msg("announcing via mDNS")
		}
	}

	go statsLoop(ctx, stats, hub)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	zlog.Info().Str("signal", sig.String()).Msg("shutting down")

	snap := stats.Snapshot()
	zlog.Info().
		Uint64("packets", snap.Packets).
		Uint64("frames", snap.Frames).
		Uint64("bytes", snap.Bytes).
		Uint64("parse_errors", snap.ParseErrors).
		Msg("final totals")
}

// handlePacket parses one datagram and feeds it through the
// statistics, reassembly, and preview pipeline.
func handlePacket(src net.Addr, packet []byte, stats *monitor.Stats, reasm *monitor.Reassembler, hub *monitor.Hub) {
	frame, err := tpm2.Parse(packet)
	if err != nil {
		stats.CountParseError()
		zlog.Debug().Err(err).Str("source", src.String()).Msg("bad packet")
		return
	}

	stats.CountPacket(src.String(), len(frame.Payload))

	complete := reasm.Add(src.String(), frame)
	if complete == nil {
		return
	}

	stats.CountFrame()
	hub.Broadcast(complete)

	if cli.Verbose {
		zlog.Info().
			Str("source", complete.Source).
			Int("packets", len(complete.Payloads)).
			Int("pixels", len(complete.Pixels())/3).
			Msg("frame")
	}
}

// servePreview runs the WebSocket preview HTTP server.
func servePreview(addr string, hub *monitor.Hub) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleWS)

	zlog.Info().Str("addr", addr).Msg("WebSocket preview at /ws")
	if err := http.ListenAndServe(addr, mux); err != nil {
		zlog.Error().Err(err).Msg("preview server stopped")
	}
}

// statsLoop prints traffic statistics at the configured interval.
func statsLoop(ctx context.Context, stats *monitor.Stats, hub *monitor.Hub) {
	interval := cli.Stats
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := stats.Snapshot()
			zlog.Info().
				Uint64("packets", snap.Packets).
				Uint64("frames", snap.Frames).
				Uint64("bytes", snap.Bytes).
				Uint64("parse_errors", snap.ParseErrors).
				Int("sources", snap.Sources).
				Int("preview_clients", hub.ClientCount()).
				Str("uptime", time.Since(snap.Since).Round(time.Second).String()).
				Msg("traffic")
		}
	}
}

// listenPort extracts the port number from a listen address like
// ":65506" or "0.0.0.0:65506".
func listenPort(addr string) uint16 {
	idx := strings.LastIndex(addr, ":")
	if idx < 0 {
		return tpm2.NetPort
	}
	port, err := strconv.Atoi(addr[idx+1:])
	if err != nil || port < 1 || port > 65535 {
		return tpm2.NetPort
	}
	return uint16(port)
}

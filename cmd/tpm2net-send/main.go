// Command tpm2net-send streams test patterns to a TPM2.net receiver.
//
// It drives one wall of chained LED panels over UDP (or the serial
// TPM2 flavor), with the standard transform pipeline: per-panel
// orientation, snake cabling or manual mapping, color order, and
// change suppression.
//
// Usage:
//
//	tpm2net-send [flags]
//
// Flags:
//
//	-config string     Wall configuration file (YAML)
//	-target string     Receiver address (default "127.0.0.1")
//	-port int          Receiver UDP port (default 65506)
//	-serial string     Serial device instead of UDP (e.g. /dev/ttyACM0)
//	-baud int          Serial baud rate (default 115200)
//	-width int         Panel width in pixels (default 8)
//	-height int        Panel height in pixels (default 8)
//	-panels int        Panel count (default 1)
//	-snake             Snake cabling (reverse every second scan line)
//	-orientation string Panel orientation for all panels (default "no-rotate")
//	-color-order string Color channel order for all panels (default "rgb")
//	-pattern string    Pattern: solid, gradient, rainbow, stripes, svg (default "rainbow")
//	-solid-color uint  Solid pattern color as 0xRRGGBB (default 0xFFFFFF)
//	-svg string        SVG file for the svg pattern
//	-fps int           Frames per second (default 25)
//	-frames int        Stop after this many frames (0 = run until interrupted)
//	-discover          Find the receiver via mDNS and take geometry from it
//	-protocol-log string Write protocol events to a .tlog file
//	-interactive       Interactive command prompt
//	-version           Print version and exit
//
// Examples:
//
//	# Rainbow on a 4-panel wall
//	tpm2net-send -target 10.0.0.42 -width 16 -height 16 -panels 4
//
//	# Stream an SVG once (change suppression keeps the wire quiet after)
//	tpm2net-send -config wall.yaml -pattern svg -svg logo.svg
//
//	# Let mDNS find the wall
//	tpm2net-send -discover -pattern stripes
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/tpm2net/tpm2net-go/pkg/config"
	"github.com/tpm2net/tpm2net-go/pkg/discovery"
	plog "github.com/tpm2net/tpm2net-go/pkg/log"
	"github.com/tpm2net/tpm2net-go/pkg/output"
	"github.com/tpm2net/tpm2net-go/pkg/pattern"
	"github.com/tpm2net/tpm2net-go/pkg/tpm2"
	"github.com/tpm2net/tpm2net-go/pkg/transport"
	"github.com/tpm2net/tpm2net-go/pkg/version"
)

type cliConfig struct {
	ConfigFile  string
	Target      string
	Port        int
	Serial      string
	Baud        int
	Width       int
	Height      int
	Panels      int
	Snake       bool
	Orientation string
	ColorOrder  string
	Pattern     string
	SolidColor  uint64
	SVGFile     string
	FPS         int
	Frames      int
	Discover    bool
	ProtocolLog string
	Interactive bool
	Version     bool
}

var cli cliConfig

func init() {
	flag.StringVar(&cli.ConfigFile, "config", "", "Wall configuration file (YAML)")
	flag.StringVar(&cli.Target, "target", "127.0.0.1", "Receiver address")
	flag.IntVar(&cli.Port, "port", tpm2.NetPort, "Receiver UDP port")
	flag.StringVar(&cli.Serial, "serial", "", "Serial device instead of UDP (e.g. /dev/ttyACM0)")
	flag.IntVar(&cli.Baud, "baud", transport.DefaultBaud, "Serial baud rate")
	flag.IntVar(&cli.Width, "width", 8, "Panel width in pixels")
	flag.IntVar(&cli.Height, "height", 8, "Panel height in pixels")
	flag.IntVar(&cli.Panels, "panels", 1, "Panel count")
	flag.BoolVar(&cli.Snake, "snake", false, "Snake cabling (reverse every second scan line)")
	flag.StringVar(&cli.Orientation, "orientation", "no-rotate", "Panel orientation for all panels")
	flag.StringVar(&cli.ColorOrder, "color-order", "rgb", "Color channel order for all panels")
	flag.StringVar(&cli.Pattern, "pattern", "rainbow", "Pattern: solid, gradient, rainbow, stripes, svg")
	flag.Uint64Var(&cli.SolidColor, "solid-color", 0xFFFFFF, "Solid pattern color as 0xRRGGBB")
	flag.StringVar(&cli.SVGFile, "svg", "", "SVG file for the svg pattern")
	flag.IntVar(&cli.FPS, "fps", 25, "Frames per second")
	flag.IntVar(&cli.Frames, "frames", 0, "Stop after this many frames (0 = run until interrupted)")
	flag.BoolVar(&cli.Discover, "discover", false, "Find the receiver via mDNS and take geometry from it")
	flag.StringVar(&cli.ProtocolLog, "protocol-log", "", "Write protocol events to a .tlog file")
	flag.BoolVar(&cli.Interactive, "interactive", false, "Interactive command prompt")
	flag.BoolVar(&cli.Version, "version", false, "Print version and exit")
}

// panelDriver is what the run loop and the interactive prompt need
// from either driver flavor.
type panelDriver interface {
	Update()
	IsConnected() bool
	ConnectionStatus() string
	ErrorCount() uint64
	Close() error
}

// advancer is implemented by animated pattern sources.
type advancer interface {
	Advance()
}

// swappableSource lets the interactive prompt replace the pattern
// while the update loop keeps running.
type swappableSource struct {
	mu  sync.Mutex
	src output.FrameSource
}

func (s *swappableSource) PanelBuffer(index int) []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.PanelBuffer(index)
}

func (s *swappableSource) Swap(src output.FrameSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src = src
}

func (s *swappableSource) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.src.(advancer); ok {
		a.Advance()
	}
}

func main() {
	flag.Parse()

	if cli.Version {
		fmt.Println(version.String())
		return
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	wall, err := buildWall()
	if err != nil {
		zlog.Fatal().Err(err).Msg("invalid configuration")
	}

	geom := pattern.Geometry{
		PanelWidth:  wall.PanelWidth,
		PanelHeight: wall.PanelHeight,
		PanelCount:  wall.PanelCount(),
	}
	src, err := buildPattern(cli.Pattern, geom)
	if err != nil {
		zlog.Fatal().Err(err).Msg("invalid pattern")
	}
	source := &swappableSource{src: src}

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

	driver, err := buildDriver(wall, source, protocolLogger)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to create driver")
	}
	defer driver.Close()

	zlog.Info().
		Str("status", driver.ConnectionStatus()).
		Int("panels", wall.PanelCount()).
		Str("pattern", cli.Pattern).
		Msg("driver ready")
	if !driver.IsConnected() {
		zlog.Warn().Msg("transport initialization failed; updates will be no-ops")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fps := cli.FPS
	if fps < 1 {
		fps = 1
	}

	// The driver is single-goroutine: the run loop owns all Update
	// calls, the prompt only requests one via sendNow.
	sendNow := make(chan struct{}, 1)
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		runLoop(ctx, cancel, driver, source, fps, sendNow)
	}()

	if cli.Interactive {
		prompt, err := newPrompt(driver, source, geom, sendNow)
		if err != nil {
			zlog.Fatal().Err(err).Msg("failed to start prompt")
		}
		prompt.Run(ctx, cancel)
	} else {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigCh:
			zlog.Info().Str("signal", sig.String()).Msg("shutting down")
		case <-ctx.Done():
		}
	}

	cancel()
	<-loopDone
	zlog.Info().Uint64("send_errors", driver.ErrorCount()).Msg("goodbye")
}

// runLoop ticks the animation and the driver at the configured rate
// until ctx ends or the frame limit is reached.
func runLoop(ctx context.Context, cancel context.CancelFunc, driver panelDriver, source *swappableSource, fps int, sendNow <-chan struct{}) {
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	frames := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-sendNow:
			driver.Update()
		case <-ticker.C:
			source.Advance()
			driver.Update()
			frames++
			if cli.Frames > 0 && frames >= cli.Frames {
				zlog.Info().Int("frames", frames).Msg("frame limit reached")
				cancel()
				return
			}
		}
	}
}

// buildWall assembles the effective wall configuration: mDNS
// discovery, then the config file, then flags, in that priority.
func buildWall() (*config.Wall, error) {
	if cli.Discover {
		return discoverWall()
	}

	if cli.ConfigFile != "" {
		return config.Load(cli.ConfigFile)
	}

	wall := &config.Wall{
		Target:       cli.Target,
		Port:         cli.Port,
		SerialDevice: cli.Serial,
		SerialBaud:   cli.Baud,
		PanelWidth:   cli.Width,
		PanelHeight:  cli.Height,
		Snake:        cli.Snake,
	}
	for i := 0; i < cli.Panels; i++ {
		wall.Panels = append(wall.Panels, config.Panel{
			Orientation: cli.Orientation,
			ColorOrder:  cli.ColorOrder,
		})
	}
	return wall, wall.Validate()
}

// discoverWall browses mDNS for a receiver and builds the wall from
// its announcement.
func discoverWall() (*config.Wall, error) {
	ctx, cancel := context.WithTimeout(context.Background(), discovery.BrowseTimeout)
	defer cancel()

	zlog.Info().Str("service", discovery.ServiceType).Msg("browsing for receivers")
	svc, err := discovery.NewBrowser(discovery.BrowserConfig{}).FindFirst(ctx)
	if err != nil {
		return nil, fmt.Errorf("no receiver found: %w", err)
	}
	if len(svc.Addresses) == 0 {
		return nil, fmt.Errorf("receiver %s announced no addresses", svc.InstanceName)
	}

	zlog.Info().
		Str("instance", svc.InstanceName).
		Str("addr", svc.Addresses[0]).
		Int("panels", svc.PanelCount).
		Msg("receiver found")

	wall := &config.Wall{
		Target:      svc.Addresses[0],
		Port:        int(svc.Port),
		PanelWidth:  svc.PanelWidth,
		PanelHeight: svc.PanelHeight,
		Snake:       cli.Snake,
	}
	for i := 0; i < svc.PanelCount; i++ {
		wall.Panels = append(wall.Panels, config.Panel{
			Orientation: cli.Orientation,
			ColorOrder:  cli.ColorOrder,
		})
	}
	return wall, wall.Validate()
}

// buildDriver creates the UDP or serial driver for the wall.
func buildDriver(wall *config.Wall, src output.FrameSource, logger plog.Logger) (panelDriver, error) {
	cfg := wall.DriverConfig()
	cfg.Logger = logger

	if wall.SerialDevice != "" {
		port, err := transport.OpenSerial(wall.SerialDevice, wall.SerialBaud)
		if err != nil {
			return nil, err
		}
		return output.NewSerial(cfg, port, wall.SerialDevice, src)
	}

	udp := transport.NewUDP()
	if logger != nil {
		udp.SetLogger(logger, cfg.ID)
	}
	return output.New(cfg, udp, src)
}

// buildPattern constructs a frame source by name.
func buildPattern(name string, geom pattern.Geometry) (output.FrameSource, error) {
	switch strings.ToLower(name) {
	case "solid":
		return pattern.NewSolid(geom, uint32(cli.SolidColor)), nil
	case "gradient":
		return pattern.NewGradient(geom, 0x000000, uint32(cli.SolidColor)), nil
	case "rainbow":
		return pattern.NewRainbow(geom, 0), nil
	case "stripes":
		return pattern.NewStripes(geom, []uint32{0xFF0000, 0x00FF00, 0x0000FF}, 2), nil
	case "svg":
		if cli.SVGFile == "" {
			return nil, fmt.Errorf("pattern svg requires -svg <file>")
		}
		return pattern.NewSVGFromFile(geom, cli.SVGFile)
	default:
		return nil, fmt.Errorf("unknown pattern: %s (must be solid, gradient, rainbow, stripes, or svg)", name)
	}
}

// parseColor parses a hex color argument like "ff8800" or "0xFF8800".
func parseColor(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	s = strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || v > 0xFFFFFF {
		return 0, fmt.Errorf("invalid color: %s (expected RRGGBB hex)", s)
	}
	return uint32(v), nil
}

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/tpm2net/tpm2net-go/pkg/output"
	"github.com/tpm2net/tpm2net-go/pkg/pattern"
)

// prompt handles interactive mode for tpm2net-send.
type prompt struct {
	driver  panelDriver
	source  *swappableSource
	geom    pattern.Geometry
	sendNow chan<- struct{}
	rl      *readline.Instance

	currentPattern string
	currentColor   uint32
}

// newPrompt creates a new interactive prompt.
func newPrompt(driver panelDriver, source *swappableSource, geom pattern.Geometry, sendNow chan<- struct{}) (*prompt, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "tpm2> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &prompt{
		driver:         driver,
		source:         source,
		geom:           geom,
		sendNow:        sendNow,
		rl:             rl,
		currentPattern: cli.Pattern,
		currentColor:   uint32(cli.SolidColor),
	}, nil
}

// Run starts the interactive command loop.
func (p *prompt) Run(ctx context.Context, cancel context.CancelFunc) {
	defer p.rl.Close()

	p.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := p.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(p.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			p.printHelp()

		case "status", "s":
			p.cmdStatus()

		case "pattern", "p":
			p.cmdPattern(args)

		case "color", "c":
			p.cmdColor(args)

		case "stripe-width":
			p.cmdStripeWidth(args)

		case "send":
			select {
			case p.sendNow <- struct{}{}:
				fmt.Fprintln(p.rl.Stdout(), "Frame queued")
			default:
				fmt.Fprintln(p.rl.Stdout(), "Frame already pending")
			}

		case "errors", "e":
			fmt.Fprintf(p.rl.Stdout(), "Send errors: %d\n", p.driver.ErrorCount())

		case "quit", "exit", "q":
			fmt.Fprintln(p.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(p.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (p *prompt) printHelp() {
	fmt.Fprintln(p.rl.Stdout(), `
TPM2.net Sender Commands:
  Pattern:
    pattern <name>       - Switch pattern (solid, gradient, rainbow, stripes)
    color <rrggbb>       - Set the pattern color (hex)
    stripe-width <n>     - Set stripe width (stripes pattern)
    send                 - Push a frame immediately

  Status:
    status               - Show connection status and geometry
    errors               - Show the send error count

  General:
    help                 - Show this help
    quit                 - Exit`)
}

// cmdStatus shows the driver and wall status.
func (p *prompt) cmdStatus() {
	fmt.Fprintln(p.rl.Stdout(), "\nSender Status")
	fmt.Fprintln(p.rl.Stdout(), "-------------------------------------------")
	fmt.Fprintf(p.rl.Stdout(), "  Connection:   %s\n", p.driver.ConnectionStatus())
	fmt.Fprintf(p.rl.Stdout(), "  Connected:    %t\n", p.driver.IsConnected())
	fmt.Fprintf(p.rl.Stdout(), "  Send errors:  %d\n", p.driver.ErrorCount())
	fmt.Fprintf(p.rl.Stdout(), "  Panels:       %d x (%dx%d)\n",
		p.geom.PanelCount, p.geom.PanelWidth, p.geom.PanelHeight)
	fmt.Fprintf(p.rl.Stdout(), "  Pattern:      %s\n", p.currentPattern)
	fmt.Fprintf(p.rl.Stdout(), "  Color:        #%06X\n", p.currentColor)
	fmt.Fprintln(p.rl.Stdout())
}

// cmdPattern switches the active pattern.
func (p *prompt) cmdPattern(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(p.rl.Stdout(), "Usage: pattern <solid|gradient|rainbow|stripes>")
		return
	}

	name := strings.ToLower(args[0])
	src, err := p.buildSource(name)
	if err != nil {
		fmt.Fprintf(p.rl.Stdout(), "Error: %v\n", err)
		return
	}

	p.source.Swap(src)
	p.currentPattern = name
	fmt.Fprintf(p.rl.Stdout(), "Pattern: %s\n", name)
}

// cmdColor sets the pattern color and rebuilds the source.
func (p *prompt) cmdColor(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(p.rl.Stdout(), "Usage: color <rrggbb>")
		fmt.Fprintln(p.rl.Stdout(), "  Example: color ff8800")
		return
	}

	c, err := parseColor(args[0])
	if err != nil {
		fmt.Fprintf(p.rl.Stdout(), "Error: %v\n", err)
		return
	}
	p.currentColor = c

	src, err := p.buildSource(p.currentPattern)
	if err != nil {
		fmt.Fprintf(p.rl.Stdout(), "Error: %v\n", err)
		return
	}
	p.source.Swap(src)
	fmt.Fprintf(p.rl.Stdout(), "Color: #%06X\n", c)
}

// cmdStripeWidth rebuilds the stripes pattern with a new band width.
func (p *prompt) cmdStripeWidth(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(p.rl.Stdout(), "Usage: stripe-width <pixels>")
		return
	}

	width, err := strconv.Atoi(args[0])
	if err != nil || width < 1 {
		fmt.Fprintf(p.rl.Stdout(), "Invalid width: %s\n", args[0])
		return
	}

	p.source.Swap(pattern.NewStripes(p.geom, []uint32{p.currentColor, 0x000000}, width))
	p.currentPattern = "stripes"
	fmt.Fprintf(p.rl.Stdout(), "Stripes with band width %d\n", width)
}

// buildSource constructs a pattern using the prompt's current color.
func (p *prompt) buildSource(name string) (output.FrameSource, error) {
	switch name {
	case "solid":
		return pattern.NewSolid(p.geom, p.currentColor), nil
	case "gradient":
		return pattern.NewGradient(p.geom, 0x000000, p.currentColor), nil
	case "rainbow":
		return pattern.NewRainbow(p.geom, 0), nil
	case "stripes":
		return pattern.NewStripes(p.geom, []uint32{p.currentColor, 0x000000}, 2), nil
	default:
		return nil, fmt.Errorf("unknown pattern: %s", name)
	}
}

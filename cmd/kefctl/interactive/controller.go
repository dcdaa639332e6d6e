// Package interactive provides the interactive command-line interface
// for kefctl.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/kef-protocol/kef-go/pkg/speaker"
)

// Controller handles interactive mode for kefctl.
type Controller struct {
	speaker *speaker.Speaker
	rl      *readline.Instance
}

// New creates the readline prompt. The speaker is attached by Run so the
// caller can route log output through Stderr before opening it.
func New() (*Controller, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "kef> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Controller{rl: rl}, nil
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("status"),
	readline.PcItem("volume"),
	readline.PcItem("up"),
	readline.PcItem("down"),
	readline.PcItem("mute"),
	readline.PcItem("unmute"),
	readline.PcItem("source", sourceItems()...),
	readline.PcItem("on", sourceItems()...),
	readline.PcItem("off"),
	readline.PcItem("online"),
	readline.PcItem("help"),
	readline.PcItem("quit"),
)

func sourceItems() []readline.PrefixCompleterInterface {
	return []readline.PrefixCompleterInterface{
		readline.PcItem("wifi"),
		readline.PcItem("bluetooth"),
		readline.PcItem("aux"),
		readline.PcItem("opt"),
		readline.PcItem("usb"),
	}
}

// Stdout returns a writer that properly coordinates with the readline input.
func (c *Controller) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (c *Controller) Stderr() io.Writer {
	return c.rl.Stderr()
}

// Run starts the interactive command loop against sp.
func (c *Controller) Run(ctx context.Context, cancel context.CancelFunc, sp *speaker.Speaker) {
	defer c.rl.Close()
	c.speaker = sp

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
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
			c.printHelp()

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			c.execute(ctx, cmd, args)
		}
	}
}

func (c *Controller) execute(ctx context.Context, cmd string, args []string) {
	err := Execute(ctx, c.speaker, c.rl.Stdout(), cmd, args)
	switch {
	case err == nil:
	case errors.Is(err, ErrUnknownCommand):
		fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
	default:
		fmt.Fprintf(c.rl.Stdout(), "Error: %v\n", err)
	}
}

func (c *Controller) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
KEF Speaker Commands:
  State:
    status             - Show power, source, standby, orientation and volume
    online             - Check whether the speaker accepts connections

  Volume:
    volume [level]     - Show or set the volume (0-100)
    up / down          - Change the volume by one step
    mute / unmute      - Toggle mute, keeping the level

  Power & Source:
    source [name]      - Show or select the input (wifi, bluetooth, aux, opt, usb)
    on [source]        - Turn on, optionally switching input first
    off                - Turn off

  General:
    help               - Show this help
    quit               - Exit`)
}

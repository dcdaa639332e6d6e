package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/kef-protocol/kef-go/pkg/speaker"
	"github.com/kef-protocol/kef-go/pkg/wire"
)

// ErrUnknownCommand is returned by Execute for a command it does not know.
var ErrUnknownCommand = errors.New("unknown command")

// ErrUsage is returned by Execute when a command's arguments are wrong.
var ErrUsage = errors.New("usage")

// Execute runs one speaker command and writes its result to w. It backs
// both the one-shot command line and the interactive prompt.
func Execute(ctx context.Context, sp *speaker.Speaker, w io.Writer, cmd string, args []string) error {
	switch strings.ToLower(cmd) {
	case "status", "st":
		return cmdStatus(ctx, sp, w)
	case "volume", "vol", "v":
		return cmdVolume(ctx, sp, w, args)
	case "up", "+":
		level, err := sp.IncreaseVolume(ctx)
		return printVolume(w, level, err)
	case "down", "-":
		level, err := sp.DecreaseVolume(ctx)
		return printVolume(w, level, err)
	case "mute":
		if err := sp.Mute(ctx); err != nil {
			return err
		}
		fmt.Fprintln(w, "Muted")
		return nil
	case "unmute":
		if err := sp.Unmute(ctx); err != nil {
			return err
		}
		fmt.Fprintln(w, "Unmuted")
		return nil
	case "source", "src", "s":
		return cmdSource(ctx, sp, w, args)
	case "on":
		return cmdOn(ctx, sp, w, args)
	case "off":
		if err := sp.TurnOff(ctx); err != nil {
			return err
		}
		fmt.Fprintln(w, "Speaker is off")
		return nil
	case "online":
		if sp.IsOnline(ctx) {
			fmt.Fprintln(w, "online")
		} else {
			fmt.Fprintln(w, "offline")
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

func cmdStatus(ctx context.Context, sp *speaker.Speaker, w io.Writer) error {
	state, err := sp.State(ctx)
	if err != nil {
		return err
	}
	level, muted, err := sp.VolumeAndMute(ctx)
	if err != nil {
		return err
	}

	power := "off"
	if state.IsOn {
		power = "on"
	}
	standby := state.Standby.String()
	if m, ok := state.Standby.Minutes(); ok {
		standby = fmt.Sprintf("%d minutes", m)
	}

	cfg := sp.Config()
	fmt.Fprintf(w, "Speaker:     %s\n", cfg.Address())
	fmt.Fprintf(w, "Power:       %s\n", power)
	fmt.Fprintf(w, "Source:      %s\n", state.Source)
	fmt.Fprintf(w, "Standby:     %s\n", standby)
	fmt.Fprintf(w, "Orientation: %s\n", state.Orientation)
	fmt.Fprintf(w, "Volume:      %d%%", percent(level))
	if muted {
		fmt.Fprint(w, " (muted)")
	}
	fmt.Fprintln(w)
	return nil
}

func cmdVolume(ctx context.Context, sp *speaker.Speaker, w io.Writer, args []string) error {
	if len(args) == 0 {
		level, muted, err := sp.VolumeAndMute(ctx)
		if err != nil {
			return err
		}
		if muted {
			fmt.Fprintf(w, "Volume: %d%% (muted)\n", percent(level))
		} else {
			fmt.Fprintf(w, "Volume: %d%%\n", percent(level))
		}
		return nil
	}

	level, err := parseLevel(args[0])
	if err != nil {
		return err
	}
	applied, err := sp.SetVolume(ctx, level)
	return printVolume(w, applied, err)
}

func cmdSource(ctx context.Context, sp *speaker.Speaker, w io.Writer, args []string) error {
	if len(args) == 0 {
		src, err := sp.Source(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Source: %s\n", src)
		return nil
	}

	src, err := wire.ParseSource(args[0])
	if err != nil {
		return err
	}
	// Switching the input of a sleeping speaker leaves it asleep.
	on, err := sp.IsOn(ctx)
	if err != nil {
		return err
	}
	if err := sp.SetSource(ctx, src, on); err != nil {
		return err
	}
	fmt.Fprintf(w, "Source: %s\n", src)
	return nil
}

func cmdOn(ctx context.Context, sp *speaker.Speaker, w io.Writer, args []string) error {
	if len(args) == 0 {
		if err := sp.TurnOn(ctx); err != nil {
			return err
		}
		fmt.Fprintln(w, "Speaker is on")
		return nil
	}

	src, err := wire.ParseSource(args[0])
	if err != nil {
		return err
	}
	if err := sp.TurnOnSource(ctx, src); err != nil {
		return err
	}
	fmt.Fprintf(w, "Speaker is on (%s)\n", src)
	return nil
}

// parseLevel accepts a percentage ("35", "35%") or a fraction ("0.35").
func parseLevel(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: volume <0-100>", ErrUsage)
	}
	if strings.Contains(s, ".") && v <= 1 {
		return v, nil
	}
	if v > 100 {
		return 0, fmt.Errorf("%w: volume <0-100>", ErrUsage)
	}
	return v / 100, nil
}

func printVolume(w io.Writer, level float64, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Volume: %d%%\n", percent(level))
	return nil
}

func percent(level float64) int {
	return int(level*100 + 0.5)
}

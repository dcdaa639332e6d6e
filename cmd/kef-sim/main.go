// Command kef-sim runs a simulated KEF speaker for local testing.
//
// It speaks the control protocol on TCP: queries are answered from the
// simulated state, sets are acknowledged, and source and power changes can
// be made to take effect only after a delay, like the real hardware.
//
// Usage:
//
//	kef-sim [flags]
//
// Flags:
//
//	-config string        YAML configuration file
//	-listen string        Listen address (default "127.0.0.1:50001")
//	-source string        Initial source: wifi, bluetooth, aux, opt, usb (default "aux")
//	-on                   Start powered on (default true)
//	-volume int           Initial volume 0-100 (default 30)
//	-source-delay dur     Delay before a source change is reported
//	-power-delay dur      Delay before a power change is reported (boot time)
//	-prefix-frames        Prefix every reply with a stale frame
//	-log-level string     Log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# Simulate a speaker that takes 20s to boot
//	kef-sim -on=false -power-delay 20s
//
//	# Point kefctl at it
//	kefctl -host 127.0.0.1 status
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kef-protocol/kef-go/pkg/simulator"
	"github.com/kef-protocol/kef-go/pkg/speaker"
	"github.com/kef-protocol/kef-go/pkg/wire"
)

var (
	configFile   = flag.String("config", "", "YAML configuration file")
	listen       = flag.String("listen", fmt.Sprintf("127.0.0.1:%d", speaker.DefaultPort), "Listen address")
	source       = flag.String("source", "aux", "Initial source: wifi, bluetooth, aux, opt, usb")
	on           = flag.Bool("on", true, "Start powered on")
	volume       = flag.Int("volume", 30, "Initial volume 0-100")
	sourceDelay  = flag.Duration("source-delay", 0, "Delay before a source change is reported")
	powerDelay   = flag.Duration("power-delay", 0, "Delay before a power change is reported (boot time)")
	prefixFrames = flag.Bool("prefix-frames", false, "Prefix every reply with a stale frame")
	logLevel     = flag.String("log-level", "info", "Log level: debug, info, warn, error")
)

func main() {
	flag.Parse()

	level, err := parseLevel(*logLevel)
	if err != nil {
		fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := buildConfig()
	if err != nil {
		fatal(err)
	}
	if level <= slog.LevelDebug {
		cfg.Logger = logger
	}

	sim, err := simulator.New(cfg)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := sim.Start(ctx); err != nil {
		fatal(err)
	}

	logger.Info("Simulated speaker listening",
		"address", sim.Addr().String(),
		"state", sim.State().String(),
		"volume", sim.VolumeByte())

	go reportChanges(ctx, sim, logger)

	<-ctx.Done()
	logger.Info("Shutting down...")
	if err := sim.Stop(); err != nil {
		logger.Error("Error stopping simulator", "error", err)
	}
}

// buildConfig loads the config file, if any, and applies flags that were
// set explicitly on top of it.
func buildConfig() (simulator.Config, error) {
	var cfg simulator.Config
	fromFile := *configFile != ""
	if fromFile {
		loaded, err := simulator.LoadConfig(*configFile)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	use := func(name string) bool { return set[name] || !fromFile }

	if use("listen") {
		cfg.Address = *listen
	}
	if use("source") {
		src, err := wire.ParseSource(*source)
		if err != nil {
			return cfg, err
		}
		cfg.Source = src
	}
	if use("on") {
		cfg.On = *on
	}
	if use("volume") {
		if *volume < 0 || *volume > wire.MaxVolumeLevel {
			return cfg, fmt.Errorf("volume %d outside 0-100", *volume)
		}
		cfg.Volume = uint8(*volume)
	}
	if use("source-delay") {
		cfg.SourceDelay = *sourceDelay
	}
	if use("power-delay") {
		cfg.PowerDelay = *powerDelay
	}
	if use("prefix-frames") {
		cfg.PrefixFrames = *prefixFrames
	}
	return cfg, nil
}

// reportChanges logs the simulated state whenever it changes.
func reportChanges(ctx context.Context, sim *simulator.Simulator, logger *slog.Logger) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	lastSource, lastVolume := sim.SourceByte(), sim.VolumeByte()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		src, vol := sim.SourceByte(), sim.VolumeByte()
		if src != lastSource {
			logger.Info("Source changed", "state", sim.State().String(), "code", fmt.Sprintf("0x%02x", src))
			lastSource = src
		}
		if vol != lastVolume {
			level, muted := wire.DecodeVolume(vol)
			logger.Info("Volume changed", "level", level, "muted", muted)
			lastVolume = vol
		}
	}
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s (use: debug, info, warn, error)", s)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// Command kefctl controls a KEF wireless speaker over its TCP control port.
//
// Usage:
//
//	kefctl [flags] <command> [args]
//	kefctl [flags] -interactive
//
// Flags:
//
//	-config string        YAML configuration file
//	-host string          Speaker hostname or IP address
//	-port int             Control port (default 50001)
//	-standby string       Auto-standby: 20, 60 or never (default "never")
//	-inverse              Speakers are set up R/L instead of L/R
//	-log-level string     Log level: debug, info, warn, error (default "warn")
//	-protocol-log string  File path for protocol event capture (CBOR format)
//	-interactive          Start an interactive prompt
//
// Commands:
//
//	status              Show power, source, standby, orientation and volume
//	volume [level]      Show or set the volume (0-100)
//	up, down            Change the volume by one step
//	mute, unmute        Toggle mute, keeping the level
//	source [name]       Show or select the input (wifi, bluetooth, aux, opt, usb)
//	on [source]         Turn on, optionally switching input first
//	off                 Turn off
//	online              Check whether the speaker accepts connections
//
// Examples:
//
//	# Turn on with the optical input
//	kefctl -host 192.168.1.50 on opt
//
//	# Capture a session for kef-log
//	kefctl -host 192.168.1.50 -protocol-log speaker.klog status
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kef-protocol/kef-go/cmd/kefctl/interactive"
	keflog "github.com/kef-protocol/kef-go/pkg/log"
	"github.com/kef-protocol/kef-go/pkg/speaker"
	"github.com/kef-protocol/kef-go/pkg/wire"
)

var (
	configFile  = flag.String("config", "", "YAML configuration file")
	host        = flag.String("host", "", "Speaker hostname or IP address")
	port        = flag.Int("port", speaker.DefaultPort, "Control port")
	standby     = flag.String("standby", "never", "Auto-standby: 20, 60 or never")
	inverse     = flag.Bool("inverse", false, "Speakers are set up R/L instead of L/R")
	logLevel    = flag.String("log-level", "warn", "Log level: debug, info, warn, error")
	protocolLog = flag.String("protocol-log", "", "File path for protocol event capture (CBOR format)")
	interact    = flag.Bool("interactive", false, "Start an interactive prompt")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: kefctl [flags] <command> [args]\n\nFlags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands: status, volume [level], up, down, mute, unmute, source [name], on [source], off, online\n")
	}
	flag.Parse()

	if !*interact && flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	level, err := parseLevel(*logLevel)
	if err != nil {
		fatal(err)
	}

	cfg, err := buildConfig()
	if err != nil {
		fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// The prompt must exist before the logger so log lines do not garble input.
	var ic *interactive.Controller
	var logOut io.Writer = os.Stderr
	if *interact {
		ic, err = interactive.New()
		if err != nil {
			fatal(err)
		}
		logOut = ic.Stderr()
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
	cfg.Logger = logger

	// Only set the protocol logger when non-nil to avoid a typed-nil interface.
	var fileLogger *keflog.FileLogger
	if *protocolLog != "" {
		fileLogger, err = keflog.NewFileLogger(*protocolLog)
		if err != nil {
			fatal(fmt.Errorf("failed to create protocol logger: %w", err))
		}
		defer fileLogger.Close()
		if level <= slog.LevelDebug {
			cfg.ProtocolLogger = keflog.NewMultiLogger(fileLogger, keflog.NewSlogAdapter(logger))
		} else {
			cfg.ProtocolLogger = fileLogger
		}
		logger.Info("Protocol capture enabled", "path", *protocolLog)
	} else if level <= slog.LevelDebug {
		cfg.ProtocolLogger = keflog.NewSlogAdapter(logger)
	}

	sp, err := speaker.New(cfg)
	if err != nil {
		fatal(err)
	}
	defer sp.Close()

	if ic != nil {
		ic.Run(ctx, cancel, sp)
		return
	}

	err = interactive.Execute(ctx, sp, os.Stdout, flag.Arg(0), flag.Args()[1:])
	if err != nil {
		if errors.Is(err, interactive.ErrUnknownCommand) {
			flag.Usage()
		}
		sp.Close()
		if fileLogger != nil {
			fileLogger.Close()
		}
		fatal(err)
	}
}

// buildConfig loads the config file, if any, and applies flags that were
// set explicitly on top of it.
func buildConfig() (speaker.Config, error) {
	cfg := speaker.DefaultConfig()
	if *configFile != "" {
		loaded, err := speaker.LoadConfig(*configFile)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["host"] {
		cfg.Host = *host
	}
	if set["port"] {
		cfg.Port = *port
	}
	if set["standby"] {
		p, err := wire.ParseStandby(*standby)
		if err != nil {
			return cfg, err
		}
		cfg.Standby = p
	}
	if set["inverse"] {
		cfg.Orientation = wire.OrientationLR
		if *inverse {
			cfg.Orientation = wire.OrientationRL
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
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

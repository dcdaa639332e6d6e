package speaker

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kef-protocol/kef-go/pkg/wire"
)

// fileConfig is the YAML form of Config. Durations are strings such as
// "2s" or "500ms".
type fileConfig struct {
	Host          string   `yaml:"host"`
	Port          int      `yaml:"port"`
	Standby       string   `yaml:"standby"`
	Orientation   string   `yaml:"orientation"`
	Inverse       *bool    `yaml:"inverse"`
	VolumeStep    *float64 `yaml:"volume_step"`
	MaximumVolume *float64 `yaml:"maximum_volume"`

	Timeouts struct {
		Connect string `yaml:"connect"`
		Read    string `yaml:"read"`
		Idle    string `yaml:"idle"`
	} `yaml:"timeouts"`

	Polling struct {
		SourceInterval string `yaml:"source_interval"`
		SourceAttempts int    `yaml:"source_attempts"`
		PowerInterval  string `yaml:"power_interval"`
		PowerAttempts  int    `yaml:"power_attempts"`
	} `yaml:"polling"`
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
//
// Example:
//
//	host: 192.168.1.50
//	standby: 60min
//	orientation: R/L
//	maximum_volume: 0.6
//	timeouts:
//	  idle: 1s
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML config data on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := DefaultConfig()
	if fc.Host != "" {
		cfg.Host = fc.Host
	}
	if fc.Port != 0 {
		cfg.Port = fc.Port
	}
	if fc.Standby != "" {
		p, err := wire.ParseStandby(fc.Standby)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		cfg.Standby = p
	}
	if fc.Orientation != "" {
		o, err := wire.ParseOrientation(fc.Orientation)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		cfg.Orientation = o
	}
	if fc.Inverse != nil {
		cfg.Orientation = wire.OrientationLR
		if *fc.Inverse {
			cfg.Orientation = wire.OrientationRL
		}
	}
	if fc.VolumeStep != nil {
		cfg.VolumeStep = *fc.VolumeStep
	}
	if fc.MaximumVolume != nil {
		cfg.MaximumVolume = *fc.MaximumVolume
	}

	durations := []struct {
		name string
		in   string
		out  *time.Duration
	}{
		{"timeouts.connect", fc.Timeouts.Connect, &cfg.ConnectTimeout},
		{"timeouts.read", fc.Timeouts.Read, &cfg.ReadTimeout},
		{"timeouts.idle", fc.Timeouts.Idle, &cfg.KeepAlive},
		{"polling.source_interval", fc.Polling.SourceInterval, &cfg.SourcePollInterval},
		{"polling.power_interval", fc.Polling.PowerInterval, &cfg.PowerPollInterval},
	}
	for _, d := range durations {
		if d.in == "" {
			continue
		}
		v, err := time.ParseDuration(d.in)
		if err != nil || v <= 0 {
			return Config{}, fmt.Errorf("%w: %s: bad duration %q", ErrInvalidConfig, d.name, d.in)
		}
		*d.out = v
	}
	if fc.Polling.SourceAttempts > 0 {
		cfg.SourcePollAttempts = fc.Polling.SourceAttempts
	}
	if fc.Polling.PowerAttempts > 0 {
		cfg.PowerPollAttempts = fc.Polling.PowerAttempts
	}

	return cfg, nil
}

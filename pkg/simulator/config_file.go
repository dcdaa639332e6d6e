package simulator

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kef-protocol/kef-go/pkg/wire"
)

// fileConfig is the YAML form of Config.
type fileConfig struct {
	Listen       string `yaml:"listen"`
	Source       string `yaml:"source"`
	On           *bool  `yaml:"on"`
	Standby      string `yaml:"standby"`
	Orientation  string `yaml:"orientation"`
	Volume       *int   `yaml:"volume"`
	Muted        bool   `yaml:"muted"`
	SourceDelay  string `yaml:"source_delay"`
	PowerDelay   string `yaml:"power_delay"`
	PrefixFrames bool   `yaml:"prefix_frames"`
}

// LoadConfig reads a YAML simulator config.
//
// Example:
//
//	listen: 127.0.0.1:50001
//	source: aux
//	on: false
//	volume: 30
//	power_delay: 3s
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML simulator config data. Missing fields keep
// their Config zero values, except On which defaults to true.
func ParseConfig(data []byte) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Config{
		Address:      fc.Listen,
		On:           true,
		Muted:        fc.Muted,
		PrefixFrames: fc.PrefixFrames,
	}
	if fc.On != nil {
		cfg.On = *fc.On
	}

	var err error
	if fc.Source != "" {
		if cfg.Source, err = wire.ParseSource(fc.Source); err != nil {
			return Config{}, err
		}
	}
	if fc.Standby != "" {
		if cfg.Standby, err = wire.ParseStandby(fc.Standby); err != nil {
			return Config{}, err
		}
	}
	if fc.Orientation != "" {
		if cfg.Orientation, err = wire.ParseOrientation(fc.Orientation); err != nil {
			return Config{}, err
		}
	}
	if fc.Volume != nil {
		if *fc.Volume < 0 || *fc.Volume > wire.MaxVolumeLevel {
			return Config{}, fmt.Errorf("volume %d outside 0..%d", *fc.Volume, wire.MaxVolumeLevel)
		}
		cfg.Volume = uint8(*fc.Volume)
	}
	if cfg.SourceDelay, err = parseDelay("source_delay", fc.SourceDelay); err != nil {
		return Config{}, err
	}
	if cfg.PowerDelay, err = parseDelay("power_delay", fc.PowerDelay); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseDelay(name, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s: bad duration %q", name, s)
	}
	return d, nil
}

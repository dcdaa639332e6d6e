package speaker

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/kef-protocol/kef-go/pkg/connection"
	"github.com/kef-protocol/kef-go/pkg/log"
	"github.com/kef-protocol/kef-go/pkg/transport"
	"github.com/kef-protocol/kef-go/pkg/wire"
)

// Defaults.
const (
	// DefaultPort is the speaker's control port.
	DefaultPort = 50001

	// DefaultVolumeStep is the change applied by IncreaseVolume and
	// DecreaseVolume.
	DefaultVolumeStep = 0.05

	// DefaultMaximumVolume caps SetVolume.
	DefaultMaximumVolume = 1.0

	// DefaultSourcePollInterval is the delay between source polls.
	DefaultSourcePollInterval = 500 * time.Millisecond

	// DefaultSourcePollAttempts bounds SetSource convergence polling.
	DefaultSourcePollAttempts = 10

	// DefaultPowerPollInterval is the delay between power polls.
	DefaultPowerPollInterval = 1 * time.Second

	// DefaultPowerPollAttempts bounds TurnOn/TurnOff polling. Booting can
	// take about 20s.
	DefaultPowerPollAttempts = 20
)

// Config configures a Speaker.
type Config struct {
	// Host is the speaker hostname or IP address.
	Host string

	// Port is the control port (default: 50001).
	Port int

	// Standby is the auto-standby policy written with every source change.
	// The zero value is never, matching DefaultConfig.
	Standby wire.StandbyPolicy

	// Orientation is the channel layout written with every source change.
	Orientation wire.Orientation

	// VolumeStep is the step for IncreaseVolume/DecreaseVolume (default: 0.05).
	VolumeStep float64

	// MaximumVolume caps SetVolume, in 0..1 (default: 1.0).
	MaximumVolume float64

	// ConnectTimeout bounds one dial attempt (default: 2s).
	ConnectTimeout time.Duration

	// ReadTimeout bounds the wait for a reply (default: 2s).
	ReadTimeout time.Duration

	// KeepAlive is the idle window before the connection is closed
	// (default: 1s).
	KeepAlive time.Duration

	// SourcePollInterval and SourcePollAttempts shape SetSource polling.
	SourcePollInterval time.Duration
	SourcePollAttempts int

	// PowerPollInterval and PowerPollAttempts shape TurnOn/TurnOff polling.
	PowerPollInterval time.Duration
	PowerPollAttempts int

	// Reconnect, Transport and Controller are the retry policies of the
	// three layers. Zero values use ReconnectPolicy, TransportPolicy and
	// ControllerPolicy.
	Reconnect  connection.RetryPolicy
	Transport  connection.RetryPolicy
	Controller connection.RetryPolicy

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ProtocolLogger receives protocol events from every layer.
	ProtocolLogger log.Logger
}

// DefaultConfig returns a Config with defaults for everything but Host.
func DefaultConfig() Config {
	return Config{
		Port:               DefaultPort,
		Standby:            wire.StandbyNever,
		Orientation:        wire.OrientationLR,
		VolumeStep:         DefaultVolumeStep,
		MaximumVolume:      DefaultMaximumVolume,
		ConnectTimeout:     connection.DefaultConnectTimeout,
		ReadTimeout:        connection.DefaultReadTimeout,
		KeepAlive:          connection.DefaultKeepAlive,
		SourcePollInterval: DefaultSourcePollInterval,
		SourcePollAttempts: DefaultSourcePollAttempts,
		PowerPollInterval:  DefaultPowerPollInterval,
		PowerPollAttempts:  DefaultPowerPollAttempts,
		Reconnect:          connection.ReconnectPolicy(),
		Transport:          transport.TransportPolicy(),
		Controller:         ControllerPolicy(),
	}
}

// ControllerPolicy returns the per-operation retry policy: 10 attempts
// with exponential backoff (base 1.5), retrying protocol errors and
// transient errors the transport gave up on.
func ControllerPolicy() connection.RetryPolicy {
	return connection.RetryPolicy{
		Name:        "controller",
		MaxAttempts: 10,
		Backoff: connection.BackoffConfig{
			Initial:    connection.InitialBackoff,
			Max:        connection.MaxBackoff,
			Multiplier: connection.BackoffMultiplier,
		},
		Retryable: IsRetryable,
	}
}

// IsRetryable reports whether a failed operation is worth repeating.
// Offline speakers, convergence timeouts and cancellation are final.
func IsRetryable(err error) bool {
	return errors.Is(err, wire.ErrProtocol) || errors.Is(err, connection.ErrTransient)
}

// Address returns host:port.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidConfig)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if !c.Standby.Valid() {
		return fmt.Errorf("%w: standby must be 20 minutes, 60 minutes or never", ErrInvalidConfig)
	}
	if c.Orientation != wire.OrientationLR && c.Orientation != wire.OrientationRL {
		return fmt.Errorf("%w: unknown orientation %d", ErrInvalidConfig, c.Orientation)
	}
	if !(c.MaximumVolume >= 0 && c.MaximumVolume <= 1) {
		return fmt.Errorf("%w: maximum volume %.2f outside 0..1", ErrInvalidConfig, c.MaximumVolume)
	}
	if !(c.VolumeStep >= 0 && c.VolumeStep <= 1) {
		return fmt.Errorf("%w: volume step %.2f outside 0..1", ErrInvalidConfig, c.VolumeStep)
	}
	return nil
}

// applyDefaults fills zero fields from DefaultConfig.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Port == 0 {
		c.Port = d.Port
	}
	if c.VolumeStep == 0 {
		c.VolumeStep = d.VolumeStep
	}
	if c.MaximumVolume == 0 {
		c.MaximumVolume = d.MaximumVolume
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = d.ConnectTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.KeepAlive <= 0 {
		c.KeepAlive = d.KeepAlive
	}
	if c.SourcePollInterval <= 0 {
		c.SourcePollInterval = d.SourcePollInterval
	}
	if c.SourcePollAttempts <= 0 {
		c.SourcePollAttempts = d.SourcePollAttempts
	}
	if c.PowerPollInterval <= 0 {
		c.PowerPollInterval = d.PowerPollInterval
	}
	if c.PowerPollAttempts <= 0 {
		c.PowerPollAttempts = d.PowerPollAttempts
	}
	if c.Reconnect.MaxAttempts == 0 {
		c.Reconnect = d.Reconnect
	}
	if c.Transport.MaxAttempts == 0 {
		c.Transport = d.Transport
	}
	if c.Controller.MaxAttempts == 0 {
		c.Controller = d.Controller
	}
}

package speaker

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/kef-protocol/kef-go/pkg/connection"
	"github.com/kef-protocol/kef-go/pkg/log"
	"github.com/kef-protocol/kef-go/pkg/transport"
	"github.com/kef-protocol/kef-go/pkg/wire"
)

// Speaker controls one KEF wireless speaker.
//
// Every method is safe for concurrent use; commands are serialized on the
// single connection owned by the underlying transport.
type Speaker struct {
	config   Config
	cmd      transport.Commander
	logger   *slog.Logger
	protoLog log.Logger

	mu       sync.Mutex
	observed *wire.State
}

// New creates a Speaker for cfg.Host. The connection is opened on first use
// and closed again after KeepAlive of inactivity.
func New(cfg Config) (*Speaker, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mgr := connection.NewManager(connection.Config{
		Address:        cfg.Address(),
		ConnectTimeout: cfg.ConnectTimeout,
		ReadTimeout:    cfg.ReadTimeout,
		KeepAlive:      cfg.KeepAlive,
		Reconnect:      cfg.Reconnect,
		Logger:         cfg.Logger,
		ProtocolLogger: cfg.ProtocolLogger,
	})
	client := transport.NewClient(mgr, transport.ClientConfig{
		Policy:         cfg.Transport,
		Logger:         cfg.Logger,
		ProtocolLogger: cfg.ProtocolLogger,
	})

	return NewWithCommander(client, cfg), nil
}

// NewWithCommander creates a Speaker on top of an existing Commander.
// Host and Port are not used.
func NewWithCommander(cmd transport.Commander, cfg Config) *Speaker {
	cfg.applyDefaults()
	return &Speaker{
		config:   cfg,
		cmd:      cmd,
		logger:   cfg.Logger,
		protoLog: log.OrNoop(cfg.ProtocolLogger),
	}
}

// Config returns the effective configuration.
func (s *Speaker) Config() Config {
	return s.config
}

// Close releases the connection and stops the idle watchdog.
func (s *Speaker) Close() error {
	return s.cmd.Close()
}

// ---------------------------------------------------------------------------
// Source and power
// ---------------------------------------------------------------------------

// State queries the source byte and decodes it.
func (s *Speaker) State(ctx context.Context) (wire.State, error) {
	var state wire.State
	err := s.retry(ctx, "state", func() error {
		code, err := s.cmd.Query(ctx, wire.FieldSource)
		if err != nil {
			return err
		}
		state, err = wire.DecodeSource(code)
		return err
	})
	if err != nil {
		return wire.State{}, err
	}
	s.observe(state)
	return state, nil
}

// Source returns the selected input source.
func (s *Speaker) Source(ctx context.Context) (wire.Source, error) {
	state, err := s.State(ctx)
	if err != nil {
		return 0, err
	}
	return state.Source, nil
}

// IsOn reports whether the speaker is powered on.
func (s *Speaker) IsOn(ctx context.Context) (bool, error) {
	state, err := s.State(ctx)
	if err != nil {
		return false, err
	}
	return state.IsOn, nil
}

// SetSource selects src with the configured standby policy and orientation,
// powering the speaker on or off, and waits until the speaker reports src.
//
// Returns a *ConvergenceError if the speaker acknowledged the change but
// kept reporting another source for SourcePollAttempts polls.
func (s *Speaker) SetSource(ctx context.Context, src wire.Source, on bool) error {
	code, err := wire.EncodeSourceCode(src, s.config.Standby, s.config.Orientation, on)
	if err != nil {
		return err
	}

	if err := s.retry(ctx, "set source", func() error {
		return s.cmd.Set(ctx, wire.FieldSource, code)
	}); err != nil {
		return err
	}

	var current wire.Source
	for attempt := 1; attempt <= s.config.SourcePollAttempts; attempt++ {
		current, err = s.Source(ctx)
		if err != nil {
			return err
		}
		if current == src {
			s.debugLog("Speaker: source converged", "source", src, "polls", attempt)
			return nil
		}
		s.debugLog("Speaker: source not yet switched",
			"wanted", src,
			"current", current,
			"poll", attempt)
		if attempt < s.config.SourcePollAttempts {
			if err := sleep(ctx, s.config.SourcePollInterval); err != nil {
				return err
			}
		}
	}

	return &ConvergenceError{
		Operation: "set source",
		Wanted:    src.String(),
		Observed:  current.String(),
		Attempts:  s.config.SourcePollAttempts,
	}
}

// TurnOn powers the speaker on with its current source. It returns at once
// if the speaker is already on.
func (s *Speaker) TurnOn(ctx context.Context) error {
	return s.turnOn(ctx, 0)
}

// TurnOnSource powers the speaker on with src selected. It returns at once
// if the speaker is already on, without changing the source.
func (s *Speaker) TurnOnSource(ctx context.Context, src wire.Source) error {
	return s.turnOn(ctx, src)
}

func (s *Speaker) turnOn(ctx context.Context, src wire.Source) error {
	state, err := s.State(ctx)
	if err != nil {
		return err
	}
	if state.IsOn {
		return nil
	}
	if src == 0 {
		src = state.Source
	}
	if err := s.SetSource(ctx, src, true); err != nil {
		return err
	}
	return s.waitPower(ctx, "turn on", true)
}

// TurnOff powers the speaker off, keeping its current source. It returns at
// once if the speaker is already off.
func (s *Speaker) TurnOff(ctx context.Context) error {
	state, err := s.State(ctx)
	if err != nil {
		return err
	}
	if !state.IsOn {
		return nil
	}
	if err := s.SetSource(ctx, state.Source, false); err != nil {
		return err
	}
	return s.waitPower(ctx, "turn off", false)
}

func (s *Speaker) waitPower(ctx context.Context, op string, want bool) error {
	var on bool
	var err error
	for attempt := 1; attempt <= s.config.PowerPollAttempts; attempt++ {
		on, err = s.IsOn(ctx)
		if err != nil {
			return err
		}
		if on == want {
			s.debugLog("Speaker: power converged", "operation", op, "polls", attempt)
			return nil
		}
		s.debugLog("Speaker: power not yet switched", "operation", op, "poll", attempt)
		if attempt < s.config.PowerPollAttempts {
			if err := sleep(ctx, s.config.PowerPollInterval); err != nil {
				return err
			}
		}
	}

	return &ConvergenceError{
		Operation: op,
		Wanted:    powerName(want),
		Observed:  powerName(on),
		Attempts:  s.config.PowerPollAttempts,
	}
}

// IsOnline reports whether a connection to the speaker can be opened.
// An unreachable speaker is reported as false, never as an error.
func (s *Speaker) IsOnline(ctx context.Context) bool {
	if err := s.cmd.Connect(ctx); err != nil {
		s.debugLog("Speaker: offline", "error", err)
		return false
	}
	return true
}

// ---------------------------------------------------------------------------
// Volume
// ---------------------------------------------------------------------------

// RawVolume returns the volume byte: the level plus 128 when muted.
func (s *Speaker) RawVolume(ctx context.Context) (uint8, error) {
	var raw uint8
	err := s.retry(ctx, "volume", func() error {
		v, err := s.cmd.Query(ctx, wire.FieldVolume)
		raw = v
		return err
	})
	return raw, err
}

// VolumeAndMute returns the level in 0..1 and the mute flag from a single
// query.
func (s *Speaker) VolumeAndMute(ctx context.Context) (float64, bool, error) {
	raw, err := s.RawVolume(ctx)
	if err != nil {
		return 0, false, err
	}
	level, muted := wire.DecodeVolume(raw)
	return float64(level) / wire.MaxVolumeLevel, muted, nil
}

// Volume returns the level in 0..1, or ErrMuted while muted.
func (s *Speaker) Volume(ctx context.Context) (float64, error) {
	level, muted, err := s.VolumeAndMute(ctx)
	if err != nil {
		return 0, err
	}
	if muted {
		return 0, ErrMuted
	}
	return level, nil
}

// IsMuted reports whether the speaker is muted.
func (s *Speaker) IsMuted(ctx context.Context) (bool, error) {
	raw, err := s.RawVolume(ctx)
	if err != nil {
		return false, err
	}
	_, muted := wire.DecodeVolume(raw)
	return muted, nil
}

// SetVolume clamps v to [0, MaximumVolume], sends it and returns the value
// applied. Setting a level also clears mute. NaN is rejected with
// wire.ErrInvalidValue and nothing is sent.
func (s *Speaker) SetVolume(ctx context.Context, v float64) (float64, error) {
	if math.IsNaN(v) {
		return 0, fmt.Errorf("%w: volume %v", wire.ErrInvalidValue, v)
	}
	v = math.Max(0, math.Min(s.config.MaximumVolume, v))
	level, err := wire.EncodeVolume(uint8(math.Round(v*wire.MaxVolumeLevel)), false)
	if err != nil {
		return 0, err
	}
	if err := s.setRawVolume(ctx, level); err != nil {
		return 0, err
	}
	return v, nil
}

// IncreaseVolume unmutes if needed and raises the level by VolumeStep.
func (s *Speaker) IncreaseVolume(ctx context.Context) (float64, error) {
	return s.changeVolume(ctx, s.config.VolumeStep)
}

// DecreaseVolume unmutes if needed and lowers the level by VolumeStep.
func (s *Speaker) DecreaseVolume(ctx context.Context) (float64, error) {
	return s.changeVolume(ctx, -s.config.VolumeStep)
}

func (s *Speaker) changeVolume(ctx context.Context, step float64) (float64, error) {
	raw, err := s.RawVolume(ctx)
	if err != nil {
		return 0, err
	}
	level, muted := wire.DecodeVolume(raw)
	if muted {
		if err := s.setRawVolume(ctx, level); err != nil {
			return 0, err
		}
	}
	return s.SetVolume(ctx, float64(level)/wire.MaxVolumeLevel+step)
}

// Mute sets the mute flag, keeping the level.
func (s *Speaker) Mute(ctx context.Context) error {
	raw, err := s.RawVolume(ctx)
	if err != nil {
		return err
	}
	level, _ := wire.DecodeVolume(raw)
	return s.setRawVolume(ctx, level+wire.MuteOffset)
}

// Unmute clears the mute flag, keeping the level.
func (s *Speaker) Unmute(ctx context.Context) error {
	raw, err := s.RawVolume(ctx)
	if err != nil {
		return err
	}
	level, _ := wire.DecodeVolume(raw)
	return s.setRawVolume(ctx, level)
}

func (s *Speaker) setRawVolume(ctx context.Context, raw uint8) error {
	return s.retry(ctx, "set volume", func() error {
		return s.cmd.Set(ctx, wire.FieldVolume, raw)
	})
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

func (s *Speaker) retry(ctx context.Context, op string, fn func() error) error {
	policy := s.config.Controller
	return policy.Do(ctx, func(int) error {
		return fn()
	}, func(attempt int, delay time.Duration, err error) {
		s.debugLog("Speaker: operation failed, retrying",
			"operation", op,
			"attempt", attempt,
			"delay", delay,
			"error", err)
		s.protoLog.Log(log.Event{
			Timestamp: time.Now(),
			Direction: log.DirectionOut,
			Layer:     log.LayerService,
			Category:  log.CategoryRetry,
			Retry: &log.RetryEvent{
				Policy:      policy.Name,
				Attempt:     attempt,
				MaxAttempts: policy.Attempts(),
				Delay:       delay,
				Reason:      fmt.Sprintf("%s: %v", op, err),
			},
		})
	})
}

// observe records a decoded state and emits a speaker state event when it
// differs from the previous observation.
func (s *Speaker) observe(state wire.State) {
	s.mu.Lock()
	prev := s.observed
	if prev != nil && *prev == state {
		s.mu.Unlock()
		return
	}
	s.observed = &state
	s.mu.Unlock()

	var old string
	if prev != nil {
		old = prev.String()
	}
	s.protoLog.Log(log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionIn,
		Layer:     log.LayerService,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntitySpeaker,
			OldState: old,
			NewState: state.String(),
		},
	})
}

// debugLog logs a debug message if logging is enabled.
func (s *Speaker) debugLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func powerName(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

package connection

import "time"

// Default backoff parameters.
const (
	// InitialBackoff is the delay after the first failed attempt.
	InitialBackoff = 1 * time.Second

	// MaxBackoff caps the delay between attempts.
	MaxBackoff = 10 * time.Second

	// BackoffMultiplier is the growth factor between attempts.
	BackoffMultiplier = 1.5
)

// BackoffConfig configures a Backoff. Zero fields take the defaults above.
// A Multiplier of exactly 1 produces a constant delay.
type BackoffConfig struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

// Backoff calculates exponential backoff delays for one retry loop.
// It is not safe for concurrent use.
type Backoff struct {
	current    time.Duration
	max        time.Duration
	multiplier float64
}

// NewBackoffWithConfig creates a backoff calculator with custom settings.
func NewBackoffWithConfig(cfg BackoffConfig) *Backoff {
	if cfg.Initial <= 0 {
		cfg.Initial = InitialBackoff
	}
	if cfg.Max <= 0 {
		cfg.Max = MaxBackoff
	}
	if cfg.Max < cfg.Initial {
		cfg.Max = cfg.Initial
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = BackoffMultiplier
	}

	return &Backoff{
		current:    cfg.Initial,
		max:        cfg.Max,
		multiplier: cfg.Multiplier,
	}
}

// Next returns the next delay and advances the backoff.
func (b *Backoff) Next() time.Duration {
	delay := b.current

	next := time.Duration(float64(b.current) * b.multiplier)
	if next > b.max {
		next = b.max
	}
	b.current = next

	return delay
}

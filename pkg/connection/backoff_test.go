package connection

import (
	"testing"
	"time"
)

func TestBackoff(t *testing.T) {
	t.Run("DefaultSequence", func(t *testing.T) {
		b := NewBackoffWithConfig(BackoffConfig{})

		// 1s, 1.5s, 2.25s, 3.375s, 5.0625s, 7.59375s, then capped at 10s.
		expected := []time.Duration{
			1000 * time.Millisecond,
			1500 * time.Millisecond,
			2250 * time.Millisecond,
			3375 * time.Millisecond,
			5062500 * time.Microsecond,
			7593750 * time.Microsecond,
			10 * time.Second,
			10 * time.Second,
		}

		for i, exp := range expected {
			got := b.Next()
			if got < exp-time.Millisecond || got > exp+time.Millisecond {
				t.Errorf("Attempt %d: delay = %v, want %v", i, got, exp)
			}
		}
	})

	t.Run("Constant", func(t *testing.T) {
		b := NewBackoffWithConfig(BackoffConfig{
			Initial:    500 * time.Millisecond,
			Max:        500 * time.Millisecond,
			Multiplier: 1,
		})
		for i := 0; i < 10; i++ {
			if got := b.Next(); got != 500*time.Millisecond {
				t.Fatalf("Attempt %d: delay = %v, want 500ms", i, got)
			}
		}
	})

	t.Run("MultiplierBelowOne", func(t *testing.T) {
		b := NewBackoffWithConfig(BackoffConfig{Initial: time.Second, Multiplier: 0.5})
		b.Next()
		if got := b.Next(); got != 1500*time.Millisecond {
			t.Errorf("Next() = %v, want 1.5s (default multiplier)", got)
		}
	})

	t.Run("MaxBelowInitial", func(t *testing.T) {
		b := NewBackoffWithConfig(BackoffConfig{Initial: 2 * time.Second, Max: time.Second})
		if got := b.Next(); got != 2*time.Second {
			t.Errorf("Next() = %v, want 2s", got)
		}
		if got := b.Next(); got != 2*time.Second {
			t.Errorf("Next() = %v, want 2s (max raised to initial)", got)
		}
	})
}

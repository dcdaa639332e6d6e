package speaker

import (
	"errors"
	"fmt"
)

// Speaker errors.
var (
	// ErrInvalidConfig indicates a Config that failed validation.
	ErrInvalidConfig = errors.New("invalid speaker config")

	// ErrConvergenceTimeout indicates the speaker acknowledged a command but
	// did not reach the requested state within the polling bound.
	ErrConvergenceTimeout = errors.New("speaker did not reach requested state")

	// ErrMuted is returned by Volume while the speaker is muted. The level is
	// preserved and available from VolumeAndMute.
	ErrMuted = errors.New("speaker is muted")
)

// ConvergenceError describes a state transition that did not complete.
type ConvergenceError struct {
	// Operation is the operation that was polling ("set source", "turn on").
	Operation string

	// Wanted is the requested state.
	Wanted string

	// Observed is the last state the speaker reported.
	Observed string

	// Attempts is the number of polls made.
	Attempts int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s: wanted %s, still %s after %d polls", e.Operation, e.Wanted, e.Observed, e.Attempts)
}

// Unwrap makes errors.Is(err, ErrConvergenceTimeout) true.
func (e *ConvergenceError) Unwrap() error {
	return ErrConvergenceTimeout
}

package connection

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"
)

// RetryPolicy is a named, bounded retry loop.
//
// Each layer of the stack owns one policy: the Manager's reconnect spin,
// the transport's per-command retries and the speaker's per-operation
// retries. They differ in bound, delay shape and in which errors they
// consider worth retrying.
type RetryPolicy struct {
	// Name identifies the policy in logs.
	Name string

	// MaxAttempts is the total number of attempts, including the first.
	// Values below 1 are treated as 1.
	MaxAttempts int

	// Backoff shapes the delay between attempts.
	Backoff BackoffConfig

	// Retryable reports whether an error should be retried.
	// Nil retries every error. Context errors are never retried.
	Retryable func(error) bool
}

// RetryFunc is one attempt. attempt is 1-based.
type RetryFunc func(attempt int) error

// RetryNotifyFunc is called before sleeping for the next attempt.
type RetryNotifyFunc func(attempt int, delay time.Duration, err error)

// ReconnectPolicy returns the policy used to open a session: up to 10
// dials, 0.5s apart, retrying only refused connections.
func ReconnectPolicy() RetryPolicy {
	return RetryPolicy{
		Name:        "reconnect",
		MaxAttempts: 10,
		Backoff: BackoffConfig{
			Initial:    500 * time.Millisecond,
			Max:        500 * time.Millisecond,
			Multiplier: 1,
		},
		Retryable: IsRefused,
	}
}

// Attempts returns the effective attempt bound.
func (p RetryPolicy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Do runs fn until it succeeds, returns a non-retryable error, the attempt
// bound is reached or ctx is done. The last error is returned; when more
// than one attempt was made it is wrapped with the policy name and count.
func (p RetryPolicy) Do(ctx context.Context, fn RetryFunc, notify RetryNotifyFunc) error {
	backoff := NewBackoffWithConfig(p.Backoff)
	max := p.Attempts()

	var err error
	for attempt := 1; attempt <= max; attempt++ {
		err = fn(attempt)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || isContextErr(err) {
			return err
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt == max {
			break
		}

		delay := backoff.Next()
		if notify != nil {
			notify(attempt, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	if max > 1 {
		return fmt.Errorf("%s: gave up after %d attempts: %w", p.Name, max, err)
	}
	return err
}

// IsRefused reports whether err is a refused TCP connection.
func IsRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

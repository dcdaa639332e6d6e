// Package connection owns the TCP session to a speaker.
//
// This package handles:
//   - Lazy connection on first use, with a bounded reconnect spin
//   - An idle watchdog that closes the session after a keep-alive window
//   - A connection-use lock so the watchdog never closes a session while a
//     command is in flight
//   - Backoff calculation and named retry policies used by every layer
//
// # Reconnect Spin
//
// Opening a session tries up to ReconnectPolicy().MaxAttempts dials. A
// refused connection is retried after a fixed 0.5s delay; a dial timeout or
// any other OS-level failure means the speaker is offline and is reported as
// ErrOffline immediately. This spin is separate from the exponential
// retries applied by the transport and speaker layers.
//
// # Idle Watchdog
//
// The speaker drops sessions it considers stale, so the Manager closes its
// own session once no exchange has completed for KeepAlive (default 1s). The
// watchdog wakes every WatchdogInterval (default 0.5s) and runs from
// NewManager until Close.
//
// # Exchanges
//
// Exchange writes one command and performs a single read of up to
// ReadBufferSize bytes. A read that times out returns an empty reply so the
// caller's retry policy decides what to do. Any other I/O error discards the
// session and is reported as ErrTransient.
package connection

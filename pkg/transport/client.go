package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kef-protocol/kef-go/pkg/connection"
	"github.com/kef-protocol/kef-go/pkg/log"
	"github.com/kef-protocol/kef-go/pkg/wire"
)

// ErrNoReply indicates the speaker sent nothing within the read timeout.
var ErrNoReply = fmt.Errorf("%w: no reply", connection.ErrTransient)

// TransportPolicy returns the per-command retry policy: 5 attempts with
// exponential backoff (base 1.5), retrying transient I/O errors only.
func TransportPolicy() connection.RetryPolicy {
	return connection.RetryPolicy{
		Name:        "transport",
		MaxAttempts: 5,
		Backoff: connection.BackoffConfig{
			Initial:    connection.InitialBackoff,
			Max:        connection.MaxBackoff,
			Multiplier: connection.BackoffMultiplier,
		},
		Retryable: IsTransient,
	}
}

// IsTransient reports whether err is worth another attempt on the same
// command.
func IsTransient(err error) bool {
	return errors.Is(err, connection.ErrTransient)
}

// ClientConfig configures a Client.
type ClientConfig struct {
	// Policy is the per-command retry policy. Zero value uses
	// TransportPolicy().
	Policy connection.RetryPolicy

	// Logger is the optional logger for debug output.
	Logger *slog.Logger

	// ProtocolLogger receives decoded command and reply events.
	ProtocolLogger log.Logger
}

// Client sends commands to one speaker through an Exchanger.
type Client struct {
	ex       Exchanger
	policy   connection.RetryPolicy
	logger   *slog.Logger
	protoLog log.Logger
}

// NewClient creates a Client on top of ex. The Client takes ownership of
// ex: Close closes it.
func NewClient(ex Exchanger, config ClientConfig) *Client {
	if config.Policy.MaxAttempts == 0 {
		config.Policy = TransportPolicy()
	}
	return &Client{
		ex:       ex,
		policy:   config.Policy,
		logger:   config.Logger,
		protoLog: log.OrNoop(config.ProtocolLogger),
	}
}

// Connect opens the session without sending a command.
func (c *Client) Connect(ctx context.Context) error {
	return c.ex.Connect(ctx)
}

// Query sends a query for field and returns the reported value byte.
func (c *Client) Query(ctx context.Context, field wire.Field) (uint8, error) {
	return c.send(ctx, wire.EncodeGet(field))
}

// Set sends a set for field and waits for the acknowledgement.
func (c *Client) Set(ctx context.Context, field wire.Field, value uint8) error {
	_, err := c.send(ctx, wire.EncodeSet(field, value))
	return err
}

// Close closes the underlying Exchanger.
func (c *Client) Close() error {
	return c.ex.Close()
}

func (c *Client) send(ctx context.Context, cmd []byte) (uint8, error) {
	var value uint8

	err := c.policy.Do(ctx, func(attempt int) error {
		c.logCommand(cmd, attempt)

		start := time.Now()
		raw, err := c.ex.Exchange(ctx, cmd)
		if err != nil {
			return err
		}
		if len(raw) == 0 {
			return ErrNoReply
		}

		v, err := wire.ParseReply(cmd, raw)
		if err != nil {
			c.logError(cmd, err)
			return err
		}

		value = v
		c.logReply(cmd, v, attempt, time.Since(start))
		return nil
	}, func(attempt int, delay time.Duration, err error) {
		c.debugLog("Client: command failed, retrying",
			"command", fmt.Sprintf("% x", cmd),
			"attempt", attempt,
			"delay", delay,
			"error", err)
		c.protoLog.Log(log.Event{
			Timestamp:    time.Now(),
			ConnectionID: c.ex.ConnectionID(),
			Direction:    log.DirectionOut,
			Layer:        log.LayerWire,
			Category:     log.CategoryRetry,
			Retry: &log.RetryEvent{
				Policy:      c.policy.Name,
				Attempt:     attempt,
				MaxAttempts: c.policy.Attempts(),
				Delay:       delay,
				Reason:      err.Error(),
			},
		})
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}

func (c *Client) logCommand(cmd []byte, attempt int) {
	msg := &log.MessageEvent{
		Type:    log.MessageTypeQuery,
		Field:   wire.Field(cmd[1]),
		Attempt: attempt,
	}
	if wire.IsSet(cmd) {
		v := cmd[3]
		msg.Type = log.MessageTypeSet
		msg.Value = &v
	}
	c.protoLog.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.ex.ConnectionID(),
		Direction:    log.DirectionOut,
		Layer:        log.LayerWire,
		Category:     log.CategoryMessage,
		Message:      msg,
	})
}

func (c *Client) logReply(cmd []byte, value uint8, attempt int, rtt time.Duration) {
	field := wire.Field(cmd[1])
	if wire.IsSet(cmd) {
		field = wire.FieldAck
	}
	c.protoLog.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.ex.ConnectionID(),
		Direction:    log.DirectionIn,
		Layer:        log.LayerWire,
		Category:     log.CategoryMessage,
		Message: &log.MessageEvent{
			Type:      log.MessageTypeReply,
			Field:     field,
			Value:     &value,
			Attempt:   attempt,
			RoundTrip: &rtt,
		},
	})
}

func (c *Client) logError(cmd []byte, err error) {
	c.debugLog("Client: bad reply", "command", fmt.Sprintf("% x", cmd), "error", err)
	c.protoLog.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.ex.ConnectionID(),
		Direction:    log.DirectionIn,
		Layer:        log.LayerWire,
		Category:     log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerWire,
			Message: err.Error(),
			Context: "parse reply",
		},
	})
}

// debugLog logs a debug message if logging is enabled.
func (c *Client) debugLog(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

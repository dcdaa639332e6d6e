package transport

import (
	"context"

	"github.com/kef-protocol/kef-go/pkg/connection"
	"github.com/kef-protocol/kef-go/pkg/wire"
)

// Exchanger performs raw command/reply exchanges on a speaker session.
// Implemented by connection.Manager.
type Exchanger interface {
	// Connect opens the session if needed.
	Connect(ctx context.Context) error

	// Exchange writes cmd and returns one read worth of reply bytes.
	Exchange(ctx context.Context, cmd []byte) ([]byte, error)

	// ConnectionID returns the current session ID, or "".
	ConnectionID() string

	// Close releases the session and stops background work.
	Close() error
}

// Commander issues typed commands to a speaker.
// Implemented by Client.
type Commander interface {
	// Connect opens the session without sending a command.
	Connect(ctx context.Context) error

	// Query reads the value byte of a field.
	Query(ctx context.Context, field wire.Field) (uint8, error)

	// Set writes the value byte of a field and waits for the ack.
	Set(ctx context.Context, field wire.Field, value uint8) error

	// Close releases the underlying session.
	Close() error
}

// Compile-time interface satisfaction checks.
var (
	_ Exchanger = (*connection.Manager)(nil)
	_ Commander = (*Client)(nil)
)

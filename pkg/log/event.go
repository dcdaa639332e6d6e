package log

import (
	"time"

	"github.com/kef-protocol/kef-go/pkg/wire"
)

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID identifies the TCP session (UUID). Empty for events that
	// happen while no session is open.
	ConnectionID string `cbor:"2,keyasint,omitempty"`

	// Direction indicates data flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// RemoteAddr is the speaker address (host:port).
	RemoteAddr string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"` // Transport layer
	Message     *MessageEvent     `cbor:"11,keyasint,omitempty"` // Wire layer (decoded)
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"` // Connection state
	Retry       *RetryEvent       `cbor:"13,keyasint,omitempty"` // Retry policies
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of data flow.
type Direction uint8

const (
	// DirectionIn indicates data received from the speaker.
	DirectionIn Direction = 0
	// DirectionOut indicates data sent to the speaker.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which protocol layer captured the event.
type Layer uint8

const (
	// LayerTransport is the socket layer (raw bytes).
	LayerTransport Layer = 0
	// LayerWire is the command layer (decoded commands and replies).
	LayerWire Layer = 1
	// LayerService is the speaker operation layer.
	LayerService Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerWire:
		return "WIRE"
	case LayerService:
		return "SERVICE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates command or reply traffic.
	CategoryMessage Category = 0
	// CategoryState indicates a state change.
	CategoryState Category = 1
	// CategoryRetry indicates a scheduled retry.
	CategoryRetry Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryRetry:
		return "RETRY"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw bytes written to or read from the socket.
type FrameEvent struct {
	// Size is the number of bytes transferred.
	Size int `cbor:"1,keyasint"`

	// Data is the raw bytes (may be truncated).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// MessageEvent captures a decoded command or reply at the wire layer.
type MessageEvent struct {
	// Type distinguishes queries, sets and replies.
	Type MessageType `cbor:"1,keyasint"`

	// Field addressed by the command.
	Field wire.Field `cbor:"2,keyasint"`

	// Value is the set value (sets) or the reported value (replies).
	Value *uint8 `cbor:"3,keyasint,omitempty"`

	// Attempt is the transport attempt number (1-based).
	Attempt int `cbor:"4,keyasint,omitempty"`

	// RoundTrip is the time from write to parsed reply (replies only).
	RoundTrip *time.Duration `cbor:"5,keyasint,omitempty"`
}

// MessageType distinguishes queries, sets and replies.
type MessageType uint8

const (
	// MessageTypeQuery indicates a 'G' command.
	MessageTypeQuery MessageType = 0
	// MessageTypeSet indicates an 'S' command.
	MessageTypeSet MessageType = 1
	// MessageTypeReply indicates a parsed 'R' frame.
	MessageTypeReply MessageType = 2
)

// String returns the message type name.
func (m MessageType) String() string {
	switch m {
	case MessageTypeQuery:
		return "QUERY"
	case MessageTypeSet:
		return "SET"
	case MessageTypeReply:
		return "REPLY"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures connection lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityConnection indicates a connection state change.
	StateEntityConnection StateEntity = 0
	// StateEntitySpeaker indicates an observed speaker state change
	// (source or power).
	StateEntitySpeaker StateEntity = 1
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityConnection:
		return "CONNECTION"
	case StateEntitySpeaker:
		return "SPEAKER"
	default:
		return "UNKNOWN"
	}
}

// RetryEvent captures a retry scheduled by a retry policy.
type RetryEvent struct {
	// Policy is the name of the retry policy.
	Policy string `cbor:"1,keyasint"`

	// Attempt is the attempt that just failed (1-based).
	Attempt int `cbor:"2,keyasint"`

	// MaxAttempts is the policy bound.
	MaxAttempts int `cbor:"3,keyasint"`

	// Delay before the next attempt.
	Delay time.Duration `cbor:"4,keyasint"`

	// Reason is the error that caused the retry.
	Reason string `cbor:"5,keyasint,omitempty"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}

// MaxFrameDataSize is the largest Data payload kept in a FrameEvent.
const MaxFrameDataSize = 256

// NewFrameEvent builds a FrameEvent, copying and truncating data.
func NewFrameEvent(data []byte) *FrameEvent {
	fe := &FrameEvent{Size: len(data)}
	if len(data) > MaxFrameDataSize {
		data = data[:MaxFrameDataSize]
		fe.Truncated = true
	}
	if len(data) > 0 {
		fe.Data = append([]byte(nil), data...)
	}
	return fe
}

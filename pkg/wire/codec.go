package wire

import (
	"bytes"
	"errors"
	"fmt"
)

// Framing bytes.
const (
	// MarkerGet starts a query command.
	MarkerGet byte = 'G'

	// MarkerSet starts a set command.
	MarkerSet byte = 'S'

	// MarkerReply starts every reply frame.
	MarkerReply byte = 'R'

	// GetSuffix terminates a query command.
	GetSuffix byte = 0x80

	// SetInfix separates the field from the value in a set command.
	SetInfix byte = 0x81

	// FieldAck is the field byte of the acknowledgement frame.
	FieldAck Field = 0x11

	// AckValue is the value byte of the acknowledgement frame.
	AckValue byte = 0xFF

	// ReplyFrameSize is the size of every reply frame.
	ReplyFrameSize = 3
)

// Value offsets.
const (
	// PowerOffOffset is added to the source code while the speaker is off.
	PowerOffOffset = 128

	// MuteOffset is added to the volume level while muted.
	MuteOffset = 128

	// StandbyStep is the code distance between two standby policies.
	StandbyStep = 16

	// OrientationOffset is added to the source code for R/L orientation.
	OrientationOffset = 64

	// MaxVolumeLevel is the highest volume level accepted by the speaker.
	MaxVolumeLevel = 100
)

// Codec errors.
var (
	// ErrProtocol indicates a malformed or unexpected reply.
	ErrProtocol = errors.New("protocol error")

	// ErrNotSettable indicates a source that can only be reported, never set.
	ErrNotSettable = errors.New("source is not settable")

	// ErrInvalidValue indicates an argument outside the encodable range.
	ErrInvalidValue = errors.New("invalid value")
)

// ackFrame is the complete acknowledgement frame.
var ackFrame = []byte{MarkerReply, byte(FieldAck), AckValue}

// ProtocolError describes a reply that could not be interpreted.
type ProtocolError struct {
	// Command is the command that was sent (may be nil for decode errors).
	Command []byte

	// Reply is the raw reply that was received.
	Reply []byte

	// Reason describes what was wrong.
	Reason string
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	if e.Command != nil {
		return fmt.Sprintf("protocol error: %s (command % x, reply % x)", e.Reason, e.Command, e.Reply)
	}
	return fmt.Sprintf("protocol error: %s (reply % x)", e.Reason, e.Reply)
}

// Unwrap makes errors.Is(err, ErrProtocol) true.
func (e *ProtocolError) Unwrap() error {
	return ErrProtocol
}

// EncodeGet returns the query command for a field.
func EncodeGet(field Field) []byte {
	return []byte{MarkerGet, byte(field), GetSuffix}
}

// EncodeSet returns the set command for a field.
func EncodeSet(field Field, value uint8) []byte {
	return []byte{MarkerSet, byte(field), SetInfix, value}
}

// IsQuery reports whether cmd is a query command.
func IsQuery(cmd []byte) bool {
	return len(cmd) == 3 && cmd[0] == MarkerGet && cmd[2] == GetSuffix
}

// IsSet reports whether cmd is a set command.
func IsSet(cmd []byte) bool {
	return len(cmd) == 4 && cmd[0] == MarkerSet && cmd[2] == SetInfix
}

// ---------------------------------------------------------------------------
// Source codes
// ---------------------------------------------------------------------------

type codeKey struct {
	source      Source
	standby     StandbyPolicy
	orientation Orientation
}

var (
	forwardCodes map[codeKey]uint8
	reverseCodes map[uint8]State
)

func init() {
	forwardCodes = make(map[codeKey]uint8)
	reverseCodes = make(map[uint8]State)

	for src, base := range baseCodes {
		decoded := src
		if src == SourceBluetoothPaired {
			decoded = SourceBluetooth
		}
		for _, p := range []StandbyPolicy{Standby20Min, Standby60Min, StandbyNever} {
			for _, o := range []Orientation{OrientationLR, OrientationRL} {
				code := base + StandbyStep*p.Index() + OrientationOffset*uint8(o)
				forwardCodes[codeKey{src, p, o}] = code
				if prev, dup := reverseCodes[code]; dup {
					panic(fmt.Sprintf("wire: source code %d used by %s and %s", code, prev.Source, decoded))
				}
				reverseCodes[code] = State{
					Source:      decoded,
					IsOn:        true,
					Standby:     p,
					Orientation: o,
				}
			}
		}
	}
}

// SourceCode returns the code that selects src with the given standby policy
// and orientation while the speaker is on.
func SourceCode(src Source, standby StandbyPolicy, orientation Orientation) (uint8, error) {
	if src == SourceBluetoothPaired {
		return 0, fmt.Errorf("%w: %s", ErrNotSettable, src)
	}
	code, ok := forwardCodes[codeKey{src, standby, orientation}]
	if !ok {
		return 0, fmt.Errorf("%w: source=%d standby=%d orientation=%d",
			ErrInvalidValue, src, standby, orientation)
	}
	return code, nil
}

// EncodeSourceCode returns the set value for src, adding the power-off
// offset when on is false.
func EncodeSourceCode(src Source, standby StandbyPolicy, orientation Orientation, on bool) (uint8, error) {
	code, err := SourceCode(src, standby, orientation)
	if err != nil {
		return 0, err
	}
	if !on {
		code += PowerOffOffset
	}
	return code, nil
}

// DecodeSource decodes a source byte as reported by the speaker.
func DecodeSource(code uint8) (State, error) {
	state, ok := reverseCodes[code%PowerOffOffset]
	if !ok {
		return State{}, &ProtocolError{
			Reply:  []byte{code},
			Reason: fmt.Sprintf("unknown source code %d", code),
		}
	}
	state.IsOn = code < PowerOffOffset
	return state, nil
}

// DecodePower reports whether the source byte indicates the speaker is on.
func DecodePower(code uint8) bool {
	return code < PowerOffOffset
}

// ---------------------------------------------------------------------------
// Volume
// ---------------------------------------------------------------------------

// EncodeVolume returns the volume byte for a level and mute flag.
func EncodeVolume(level uint8, muted bool) (uint8, error) {
	if level > MaxVolumeLevel {
		return 0, fmt.Errorf("%w: volume level %d > %d", ErrInvalidValue, level, MaxVolumeLevel)
	}
	if muted {
		return level + MuteOffset, nil
	}
	return level, nil
}

// DecodeVolume splits a volume byte into the level and mute flag.
func DecodeVolume(raw uint8) (level uint8, muted bool) {
	return raw % MuteOffset, raw >= MuteOffset
}

// ---------------------------------------------------------------------------
// Replies
// ---------------------------------------------------------------------------

// SplitFrames splits a raw read into reply frames.
//
// Frames are located by the 'R' marker and are always ReplyFrameSize bytes,
// so a value byte that happens to equal the marker stays inside its frame.
// Bytes before a marker and an incomplete trailing frame are dropped.
func SplitFrames(raw []byte) [][]byte {
	var frames [][]byte
	for i := 0; i < len(raw); {
		if raw[i] != MarkerReply {
			i++
			continue
		}
		if len(raw)-i < ReplyFrameSize {
			break
		}
		frames = append(frames, raw[i:i+ReplyFrameSize])
		i += ReplyFrameSize
	}
	return frames
}

// ParseReply selects the frame answering cmd from a raw read.
//
// For a query the frame echoing the queried field is selected and its value
// byte returned. For a set the acknowledgement frame must be present and
// AckValue is returned.
func ParseReply(cmd, raw []byte) (uint8, error) {
	frames := SplitFrames(raw)

	switch {
	case IsQuery(cmd):
		for _, f := range frames {
			if f[1] == cmd[1] {
				return f[ReplyFrameSize-1], nil
			}
		}
		return 0, &ProtocolError{
			Command: cmd,
			Reply:   raw,
			Reason:  fmt.Sprintf("no reply for field %s", Field(cmd[1])),
		}

	case IsSet(cmd):
		for _, f := range frames {
			if bytes.Equal(f, ackFrame) {
				return AckValue, nil
			}
		}
		return 0, &ProtocolError{
			Command: cmd,
			Reply:   raw,
			Reason:  "missing acknowledgement",
		}

	default:
		return 0, &ProtocolError{
			Command: cmd,
			Reply:   raw,
			Reason:  "unknown command shape",
		}
	}
}

// EncodeReply returns the reply frame for a query. Used by the simulator.
func EncodeReply(field Field, value uint8) []byte {
	return []byte{MarkerReply, byte(field), value}
}

// EncodeAck returns the acknowledgement frame.
func EncodeAck() []byte {
	return bytes.Clone(ackFrame)
}

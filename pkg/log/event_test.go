package log

import (
	"bytes"
	"testing"
	"time"

	"github.com/kef-protocol/kef-go/pkg/wire"
)

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{DirectionIn.String(), "IN"},
		{DirectionOut.String(), "OUT"},
		{Direction(99).String(), "UNKNOWN"},
		{LayerTransport.String(), "TRANSPORT"},
		{LayerWire.String(), "WIRE"},
		{LayerService.String(), "SERVICE"},
		{Layer(99).String(), "UNKNOWN"},
		{CategoryMessage.String(), "MESSAGE"},
		{CategoryState.String(), "STATE"},
		{CategoryRetry.String(), "RETRY"},
		{CategoryError.String(), "ERROR"},
		{Category(99).String(), "UNKNOWN"},
		{MessageTypeQuery.String(), "QUERY"},
		{MessageTypeSet.String(), "SET"},
		{MessageTypeReply.String(), "REPLY"},
		{StateEntityConnection.String(), "CONNECTION"},
		{StateEntitySpeaker.String(), "SPEAKER"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestNewFrameEvent(t *testing.T) {
	data := []byte{0x47, 0x30, 0x80}
	fe := NewFrameEvent(data)
	if fe.Size != 3 || fe.Truncated || !bytes.Equal(fe.Data, data) {
		t.Errorf("NewFrameEvent() = %+v", fe)
	}
	data[0] = 0
	if fe.Data[0] != 0x47 {
		t.Error("NewFrameEvent() did not copy data")
	}

	big := make([]byte, MaxFrameDataSize+10)
	fe = NewFrameEvent(big)
	if fe.Size != len(big) || !fe.Truncated || len(fe.Data) != MaxFrameDataSize {
		t.Errorf("NewFrameEvent(big) size=%d truncated=%v len=%d", fe.Size, fe.Truncated, len(fe.Data))
	}

	if fe := NewFrameEvent(nil); fe.Size != 0 || fe.Data != nil {
		t.Errorf("NewFrameEvent(nil) = %+v", fe)
	}
}

func TestEventCBORRoundTrip(t *testing.T) {
	value := uint8(0x0A)
	rtt := 12 * time.Millisecond
	original := Event{
		Timestamp:    time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC),
		ConnectionID: "5f0c6a1e-0d4b-4b8e-9a55-3c1f2e7d9b10",
		Direction:    DirectionIn,
		Layer:        LayerWire,
		Category:     CategoryMessage,
		RemoteAddr:   "192.168.1.20:50001",
		Message: &MessageEvent{
			Type:      MessageTypeReply,
			Field:     wire.FieldSource,
			Value:     &value,
			Attempt:   2,
			RoundTrip: &rtt,
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent() error = %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}

	if !decoded.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", decoded.Timestamp, original.Timestamp)
	}
	if decoded.ConnectionID != original.ConnectionID || decoded.RemoteAddr != original.RemoteAddr {
		t.Errorf("identity = (%q, %q)", decoded.ConnectionID, decoded.RemoteAddr)
	}
	if decoded.Message == nil {
		t.Fatal("Message is nil")
	}
	if decoded.Message.Field != wire.FieldSource || *decoded.Message.Value != 0x0A {
		t.Errorf("Message = %+v", decoded.Message)
	}
	if *decoded.Message.RoundTrip != rtt {
		t.Errorf("RoundTrip = %v, want %v", *decoded.Message.RoundTrip, rtt)
	}
	if decoded.Frame != nil || decoded.Retry != nil {
		t.Error("unexpected payloads after round trip")
	}
}

func TestRetryEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp: time.Now(),
		Layer:     LayerWire,
		Category:  CategoryRetry,
		Retry: &RetryEvent{
			Policy:      "transport",
			Attempt:     1,
			MaxAttempts: 5,
			Delay:       1500 * time.Millisecond,
			Reason:      "no reply",
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent() error = %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}
	if decoded.Retry == nil || *decoded.Retry != *original.Retry {
		t.Errorf("Retry = %+v, want %+v", decoded.Retry, original.Retry)
	}
}

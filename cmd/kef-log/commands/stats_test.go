package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/kef-protocol/kef-go/pkg/log"
	"github.com/kef-protocol/kef-go/pkg/wire"
)

func TestStatsCountsByLayer(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Layer: log.LayerTransport, Category: log.CategoryMessage},
		{Timestamp: ts, Layer: log.LayerTransport, Category: log.CategoryMessage},
		{Timestamp: ts, Layer: log.LayerWire, Category: log.CategoryMessage},
		{Timestamp: ts, Layer: log.LayerService, Category: log.CategoryMessage},
	}
	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "Total Events: 4") {
		t.Errorf("expected 4 total events, got: %s", output)
	}
	for _, want := range []string{"TRANSPORT:", "WIRE:", "SERVICE:"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output", want)
		}
	}
}

func TestStatsCountsByCategory(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Category: log.CategoryMessage},
		{Timestamp: ts, Category: log.CategoryState},
		{Timestamp: ts, Category: log.CategoryRetry, Retry: &log.RetryEvent{Policy: "transport", Attempt: 1, MaxAttempts: 5}},
		{Timestamp: ts, Category: log.CategoryRetry, Retry: &log.RetryEvent{Policy: "transport", Attempt: 2, MaxAttempts: 5}},
		{Timestamp: ts, Category: log.CategoryRetry, Retry: &log.RetryEvent{Policy: "reconnect", Attempt: 1, MaxAttempts: 10}},
		{Timestamp: ts, Category: log.CategoryError, Error: &log.ErrorEventData{Message: "connection reset"}},
	}
	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{"MESSAGE:", "STATE:", "RETRY:", "ERROR:", "Errors: 1"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output: %s", want, output)
		}
	}
	if !strings.Contains(output, "transport:") || !strings.Contains(output, "reconnect:") {
		t.Errorf("expected retries grouped by policy: %s", output)
	}
}

func TestStatsConnections(t *testing.T) {
	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	rtt := 40 * time.Millisecond
	events := []log.Event{
		{
			Timestamp: base, ConnectionID: "11112222-aaaa", RemoteAddr: "10.0.0.5:50001",
			Layer: log.LayerWire, Direction: log.DirectionOut, Category: log.CategoryMessage,
			Message: &log.MessageEvent{Type: log.MessageTypeQuery, Field: wire.FieldSource},
		},
		{
			Timestamp: base.Add(rtt), ConnectionID: "11112222-aaaa",
			Layer: log.LayerWire, Direction: log.DirectionIn, Category: log.CategoryMessage,
			Message: &log.MessageEvent{Type: log.MessageTypeReply, Field: wire.FieldSource, Value: u8(0x2c), RoundTrip: &rtt},
		},
		{Timestamp: base.Add(time.Second), Category: log.CategoryRetry, Retry: &log.RetryEvent{Policy: "reconnect"}},
	}
	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "Connections: 1") {
		t.Errorf("events without a session must not count as a connection: %s", output)
	}
	if !strings.Contains(output, "[11112222] 2 events") {
		t.Errorf("expected connection summary: %s", output)
	}
	if !strings.Contains(output, "Speaker: 10.0.0.5:50001") {
		t.Errorf("expected speaker address: %s", output)
	}
	if !strings.Contains(output, "Commands: 1 (slowest reply 40.000ms)") {
		t.Errorf("expected command summary: %s", output)
	}
}

func TestStatsEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "Total Events: 0") {
		t.Errorf("expected zero events: %s", output)
	}
	if strings.Contains(output, "Time Range") {
		t.Errorf("empty file must not print a time range: %s", output)
	}
}

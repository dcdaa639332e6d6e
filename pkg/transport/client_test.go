package transport

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kef-protocol/kef-go/pkg/connection"
	"github.com/kef-protocol/kef-go/pkg/log"
	"github.com/kef-protocol/kef-go/pkg/transport/mocks"
	"github.com/kef-protocol/kef-go/pkg/wire"
)

func fastTransportPolicy() connection.RetryPolicy {
	p := TransportPolicy()
	p.Backoff = connection.BackoffConfig{Initial: time.Millisecond, Max: time.Millisecond, Multiplier: 1}
	return p
}

func newTestClient(t *testing.T, ex Exchanger, protoLog log.Logger) *Client {
	t.Helper()
	return NewClient(ex, ClientConfig{Policy: fastTransportPolicy(), ProtocolLogger: protoLog})
}

func TestClientQuery(t *testing.T) {
	ex := mocks.NewMockExchanger(t)
	ex.EXPECT().ConnectionID().Return("session").Maybe()
	ex.EXPECT().Exchange(mock.Anything, []byte{0x47, 0x30, 0x80}).Return([]byte{0x52, 0x30, 0x0A}, nil).Once()

	c := newTestClient(t, ex, nil)
	v, err := c.Query(context.Background(), wire.FieldSource)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x0A), v)
}

func TestClientQuerySelectsMatchingFrame(t *testing.T) {
	ex := mocks.NewMockExchanger(t)
	ex.EXPECT().ConnectionID().Return("").Maybe()
	ex.EXPECT().Exchange(mock.Anything, mock.Anything).
		Return([]byte{0x52, 0x30, 0x0A, 0x52, 0x25, 0x9E}, nil).Once()

	c := newTestClient(t, ex, nil)
	v, err := c.Query(context.Background(), wire.FieldVolume)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x9E), v)
}

func TestClientSet(t *testing.T) {
	ex := mocks.NewMockExchanger(t)
	ex.EXPECT().ConnectionID().Return("").Maybe()
	ex.EXPECT().Exchange(mock.Anything, []byte{0x53, 0x30, 0x81, 0x0A}).Return([]byte{0x52, 0x11, 0xFF}, nil).Once()

	c := newTestClient(t, ex, nil)
	require.NoError(t, c.Set(context.Background(), wire.FieldSource, 0x0A))
}

func TestClientSetWithoutAckIsProtocolError(t *testing.T) {
	ex := mocks.NewMockExchanger(t)
	ex.EXPECT().ConnectionID().Return("").Maybe()
	ex.EXPECT().Exchange(mock.Anything, mock.Anything).Return([]byte{0x52, 0x25, 0x1E}, nil).Once()

	c := newTestClient(t, ex, nil)
	err := c.Set(context.Background(), wire.FieldVolume, 30)
	assert.ErrorIs(t, err, wire.ErrProtocol)
}

func TestClientRetriesEmptyReply(t *testing.T) {
	ex := mocks.NewMockExchanger(t)
	ex.EXPECT().ConnectionID().Return("").Maybe()
	ex.EXPECT().Exchange(mock.Anything, mock.Anything).Return([]byte{}, nil).Twice()
	ex.EXPECT().Exchange(mock.Anything, mock.Anything).Return([]byte{0x52, 0x25, 0x14}, nil).Once()

	c := newTestClient(t, ex, nil)
	v, err := c.Query(context.Background(), wire.FieldVolume)
	require.NoError(t, err)
	assert.Equal(t, uint8(20), v)
}

func TestClientRetriesTransientUntilBound(t *testing.T) {
	ex := mocks.NewMockExchanger(t)
	ex.EXPECT().ConnectionID().Return("").Maybe()
	ex.EXPECT().Exchange(mock.Anything, mock.Anything).
		Return(nil, connection.ErrTransient).Times(5)

	c := newTestClient(t, ex, nil)
	_, err := c.Query(context.Background(), wire.FieldSource)
	assert.ErrorIs(t, err, connection.ErrTransient)
}

func TestClientDoesNotRetryOffline(t *testing.T) {
	ex := mocks.NewMockExchanger(t)
	ex.EXPECT().ConnectionID().Return("").Maybe()
	ex.EXPECT().Exchange(mock.Anything, mock.Anything).
		Return(nil, connection.ErrOffline).Once()

	c := newTestClient(t, ex, nil)
	_, err := c.Query(context.Background(), wire.FieldSource)
	assert.ErrorIs(t, err, connection.ErrOffline)
}

func TestClientStopsOnCancel(t *testing.T) {
	ex := mocks.NewMockExchanger(t)
	ex.EXPECT().ConnectionID().Return("").Maybe()
	ex.EXPECT().Exchange(mock.Anything, mock.Anything).
		Return(nil, context.Canceled).Once()

	c := newTestClient(t, ex, nil)
	_, err := c.Query(context.Background(), wire.FieldSource)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClientConnectAndClose(t *testing.T) {
	ex := mocks.NewMockExchanger(t)
	ex.EXPECT().Connect(mock.Anything).Return(nil).Once()
	ex.EXPECT().Close().Return(nil).Once()

	c := newTestClient(t, ex, nil)
	require.NoError(t, c.Connect(context.Background()))
	require.NoError(t, c.Close())
}

func TestClientProtocolEvents(t *testing.T) {
	ex := mocks.NewMockExchanger(t)
	ex.EXPECT().ConnectionID().Return("session-1").Maybe()
	ex.EXPECT().Exchange(mock.Anything, mock.Anything).Return([]byte{}, nil).Once()
	ex.EXPECT().Exchange(mock.Anything, mock.Anything).Return([]byte{0x52, 0x11, 0xFF}, nil).Once()

	var mu sync.Mutex
	var events []log.Event
	c := newTestClient(t, ex, log.LoggerFunc(func(e log.Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}))

	require.NoError(t, c.Set(context.Background(), wire.FieldVolume, 42))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 4)

	assert.Equal(t, log.MessageTypeSet, events[0].Message.Type)
	assert.Equal(t, 1, events[0].Message.Attempt)
	require.NotNil(t, events[0].Message.Value)
	assert.Equal(t, uint8(42), *events[0].Message.Value)

	assert.Equal(t, log.CategoryRetry, events[1].Category)
	assert.Equal(t, "transport", events[1].Retry.Policy)

	assert.Equal(t, 2, events[2].Message.Attempt)

	assert.Equal(t, log.MessageTypeReply, events[3].Message.Type)
	assert.Equal(t, wire.FieldAck, events[3].Message.Field)
	assert.Equal(t, "session-1", events[3].ConnectionID)
	assert.NotNil(t, events[3].Message.RoundTrip)
}

func TestTransportPolicy(t *testing.T) {
	p := TransportPolicy()
	assert.Equal(t, 5, p.Attempts())
	assert.True(t, p.Retryable(ErrNoReply))
	assert.False(t, p.Retryable(wire.ErrProtocol))
	assert.False(t, p.Retryable(connection.ErrOffline))
}

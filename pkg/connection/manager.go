package connection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kef-protocol/kef-go/pkg/log"
)

// Default manager timings.
const (
	// DefaultConnectTimeout bounds a single dial attempt.
	DefaultConnectTimeout = 2 * time.Second

	// DefaultReadTimeout bounds the wait for a reply.
	DefaultReadTimeout = 2 * time.Second

	// DefaultKeepAlive is the idle window after which the connection is closed.
	DefaultKeepAlive = 1 * time.Second

	// DefaultWatchdogInterval is how often the idle watchdog wakes up.
	DefaultWatchdogInterval = 500 * time.Millisecond

	// DefaultReadBufferSize is the most bytes read per reply.
	DefaultReadBufferSize = 100
)

// Manager errors.
var (
	// ErrOffline indicates the speaker could not be reached.
	ErrOffline = errors.New("speaker is offline")

	// ErrTransient indicates an I/O failure during one exchange.
	ErrTransient = errors.New("transient connection error")

	// ErrManagerClosed indicates the Manager has been closed.
	ErrManagerClosed = errors.New("connection manager closed")
)

// State is the lifecycle state of a Manager.
type State int

const (
	// StateDisconnected indicates no open connection.
	StateDisconnected State = iota

	// StateConnecting indicates a dial in progress.
	StateConnecting

	// StateConnected indicates an open connection.
	StateConnected

	// StateClosed indicates the Manager was closed. Terminal.
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// DialError describes one failed dial attempt.
type DialError struct {
	Address string
	Attempt int
	Err     error
}

func (e *DialError) Error() string {
	return fmt.Sprintf("dial %s (attempt %d): %v", e.Address, e.Attempt, e.Err)
}

func (e *DialError) Unwrap() error {
	return e.Err
}

// Dialer opens network connections. *net.Dialer implements it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Config configures a Manager.
type Config struct {
	// Address is the speaker host:port.
	Address string

	// ConnectTimeout bounds each dial attempt (default: 2s).
	ConnectTimeout time.Duration

	// ReadTimeout bounds the wait for a reply (default: 2s).
	ReadTimeout time.Duration

	// KeepAlive is the idle window before the watchdog closes the
	// connection (default: 1s).
	KeepAlive time.Duration

	// WatchdogInterval is the watchdog tick (default: 0.5s).
	WatchdogInterval time.Duration

	// ReadBufferSize is the most bytes read per reply (default: 100).
	ReadBufferSize int

	// Reconnect is the dial policy. Zero value uses ReconnectPolicy().
	Reconnect RetryPolicy

	// Dialer opens connections (default: &net.Dialer{}).
	Dialer Dialer

	// Logger is the optional logger for debug output.
	Logger *slog.Logger

	// ProtocolLogger receives frame and state events. Nil disables capture.
	ProtocolLogger log.Logger
}

func (c *Config) applyDefaults() {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.KeepAlive <= 0 {
		c.KeepAlive = DefaultKeepAlive
	}
	if c.WatchdogInterval <= 0 {
		c.WatchdogInterval = DefaultWatchdogInterval
	}
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = DefaultReadBufferSize
	}
	if c.Reconnect.MaxAttempts == 0 {
		c.Reconnect = ReconnectPolicy()
	}
	if c.Dialer == nil {
		c.Dialer = &net.Dialer{}
	}
}

// StateHandler is called after every state change. It must not call
// Connect or Exchange.
type StateHandler func(oldState, newState State, reason string)

// Manager owns the TCP connection to one speaker.
//
// The connection is opened lazily by Connect or Exchange and closed by the
// idle watchdog once it has been unused for longer than KeepAlive. A
// one-slot semaphore serializes dial, write and read against each other and
// against the watchdog.
type Manager struct {
	config   Config
	logger   *slog.Logger
	protoLog log.Logger

	// sem is held across ensureConnected, write and read, and by the
	// watchdog while it inspects or closes conn.
	sem  chan struct{}
	conn net.Conn

	mu           sync.Mutex
	state        State
	connID       string
	lastActivity time.Time
	handlers     []StateHandler

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewManager creates a Manager and starts its idle watchdog.
// No connection is opened until the first Connect or Exchange.
func NewManager(config Config) *Manager {
	config.applyDefaults()

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		config:   config,
		logger:   config.Logger,
		protoLog: log.OrNoop(config.ProtocolLogger),
		sem:      make(chan struct{}, 1),
		state:    StateDisconnected,
		cancel:   cancel,
	}

	m.wg.Add(1)
	go m.runIdleWatchdog(ctx)

	return m
}

// Address returns the speaker address.
func (m *Manager) Address() string {
	return m.config.Address
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsConnected reports whether a connection is currently open.
func (m *Manager) IsConnected() bool {
	return m.State() == StateConnected
}

// LastActivity returns the time of the last successful connect or reply.
func (m *Manager) LastActivity() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastActivity
}

// ConnectionID returns the session ID of the open connection, or "".
func (m *Manager) ConnectionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connID
}

// OnStateChange registers a handler for state changes.
func (m *Manager) OnStateChange(fn StateHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, fn)
}

// Connect opens the connection if it is not already open.
//
// Refused dials are retried per the Reconnect policy. Any other dial
// failure, or refusal on the last attempt, returns an error wrapping
// ErrOffline.
func (m *Manager) Connect(ctx context.Context) error {
	if err := m.acquire(ctx); err != nil {
		return err
	}
	defer m.release()

	if m.State() == StateClosed {
		return ErrManagerClosed
	}
	return m.ensureConnected(ctx)
}

// Exchange writes cmd and returns whatever the speaker sends back in one
// read of up to ReadBufferSize bytes.
//
// A read timeout is not an error: the connection is kept and an empty reply
// returned. Other I/O failures close the connection and return an error
// wrapping ErrTransient. If ctx is done during the exchange the I/O is
// interrupted, the connection discarded and ctx.Err() returned.
func (m *Manager) Exchange(ctx context.Context, cmd []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.acquire(ctx); err != nil {
		return nil, err
	}
	defer m.release()

	if m.State() == StateClosed {
		return nil, ErrManagerClosed
	}
	if err := m.ensureConnected(ctx); err != nil {
		return nil, err
	}

	conn := m.conn
	if err := conn.SetDeadline(time.Now().Add(m.config.ReadTimeout)); err != nil {
		m.dropLocked("set deadline failed")
		return nil, fmt.Errorf("%w: set deadline: %w", ErrTransient, err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	if _, err := conn.Write(cmd); err != nil {
		if ctx.Err() != nil {
			m.dropLocked("cancelled during write")
			return nil, ctx.Err()
		}
		m.dropLocked("write failed")
		return nil, fmt.Errorf("%w: write: %w", ErrTransient, err)
	}
	m.logFrame(log.DirectionOut, cmd)

	buf := make([]byte, m.config.ReadBufferSize)
	n, err := conn.Read(buf)
	if err != nil {
		if ctx.Err() != nil {
			m.dropLocked("cancelled during read")
			return nil, ctx.Err()
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			m.debugLog("Manager: read timeout", "address", m.config.Address, "timeout", m.config.ReadTimeout)
			return []byte{}, nil
		}
		m.dropLocked("read failed: " + err.Error())
		return nil, fmt.Errorf("%w: read: %w", ErrTransient, err)
	}

	reply := buf[:n]
	m.touch()
	m.logFrame(log.DirectionIn, reply)
	return reply, nil
}

// Disconnect closes the open connection, if any. The Manager stays usable.
func (m *Manager) Disconnect(ctx context.Context, reason string) error {
	if err := m.acquire(ctx); err != nil {
		return err
	}
	defer m.release()
	m.dropLocked(reason)
	return nil
}

// Close stops the watchdog and closes the connection. Subsequent calls
// return ErrManagerClosed.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		m.cancel()
		m.wg.Wait()

		m.sem <- struct{}{}
		m.dropLocked("manager closed")
		m.setState(StateClosed, "manager closed")
		<-m.sem
	})
	return nil
}

// ---------------------------------------------------------------------------
// Internals. Methods suffixed Locked require sem.
// ---------------------------------------------------------------------------

func (m *Manager) acquire(ctx context.Context) error {
	select {
	case m.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) tryAcquire() bool {
	select {
	case m.sem <- struct{}{}:
		return true
	default:
		return false
	}
}

func (m *Manager) release() {
	<-m.sem
}

func (m *Manager) ensureConnected(ctx context.Context) error {
	if m.conn != nil {
		return nil
	}

	m.setState(StateConnecting, "connect requested")

	var conn net.Conn
	policy := m.config.Reconnect
	err := policy.Do(ctx, func(attempt int) error {
		c, err := m.dial(ctx, attempt)
		if err != nil {
			return err
		}
		conn = c
		return nil
	}, func(attempt int, delay time.Duration, err error) {
		m.debugLog("Manager: dial failed, retrying",
			"address", m.config.Address,
			"attempt", attempt,
			"delay", delay,
			"error", err)
		m.protoLog.Log(log.Event{
			Timestamp:  time.Now(),
			Direction:  log.DirectionOut,
			Layer:      log.LayerTransport,
			Category:   log.CategoryRetry,
			RemoteAddr: m.config.Address,
			Retry: &log.RetryEvent{
				Policy:      policy.Name,
				Attempt:     attempt,
				MaxAttempts: policy.Attempts(),
				Delay:       delay,
				Reason:      err.Error(),
			},
		})
	})

	if err != nil {
		m.setState(StateDisconnected, "dial failed")
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		m.logError("connect", err)
		return fmt.Errorf("%w: %w", ErrOffline, err)
	}

	m.conn = conn
	id := uuid.NewString()

	m.mu.Lock()
	m.connID = id
	m.lastActivity = time.Now()
	m.mu.Unlock()

	m.debugLog("Manager: connected", "address", m.config.Address, "conn_id", id)
	m.setState(StateConnected, "dial succeeded")
	return nil
}

func (m *Manager) dial(ctx context.Context, attempt int) (net.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, m.config.ConnectTimeout)
	defer cancel()

	conn, err := m.config.Dialer.DialContext(dialCtx, "tcp", m.config.Address)
	if err == nil {
		return conn, nil
	}

	if ctx.Err() == nil && dialCtx.Err() != nil {
		// Attempt timeout, not caller cancellation.
		err = fmt.Errorf("no answer within %s", m.config.ConnectTimeout)
	}
	return nil, &DialError{Address: m.config.Address, Attempt: attempt, Err: err}
}

func (m *Manager) dropLocked(reason string) {
	if m.conn == nil {
		return
	}
	if err := m.conn.Close(); err != nil {
		m.debugLog("Manager: close error", "address", m.config.Address, "error", err)
	}
	m.conn = nil
	m.debugLog("Manager: disconnected", "address", m.config.Address, "reason", reason)
	m.setState(StateDisconnected, reason)

	m.mu.Lock()
	m.connID = ""
	m.mu.Unlock()
}

func (m *Manager) touch() {
	m.mu.Lock()
	m.lastActivity = time.Now()
	m.mu.Unlock()
}

func (m *Manager) setState(newState State, reason string) {
	m.mu.Lock()
	oldState := m.state
	if oldState == newState || oldState == StateClosed {
		m.mu.Unlock()
		return
	}
	m.state = newState
	connID := m.connID
	handlers := append([]StateHandler(nil), m.handlers...)
	m.mu.Unlock()

	m.protoLog.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Layer:        log.LayerTransport,
		Category:     log.CategoryState,
		RemoteAddr:   m.config.Address,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityConnection,
			OldState: oldState.String(),
			NewState: newState.String(),
			Reason:   reason,
		},
	})

	for _, fn := range handlers {
		fn(oldState, newState, reason)
	}
}

// runIdleWatchdog closes the connection once it has been idle for longer
// than KeepAlive. A tick is skipped while an exchange holds the semaphore.
func (m *Manager) runIdleWatchdog(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.WatchdogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.checkIdle()
		}
	}
}

func (m *Manager) checkIdle() {
	if !m.tryAcquire() {
		return
	}
	defer m.release()

	if m.conn == nil {
		return
	}
	if idle := time.Since(m.LastActivity()); idle > m.config.KeepAlive {
		m.dropLocked(fmt.Sprintf("idle for %s", idle.Round(time.Millisecond)))
	}
}

func (m *Manager) logFrame(dir log.Direction, data []byte) {
	m.protoLog.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: m.ConnectionID(),
		Direction:    dir,
		Layer:        log.LayerTransport,
		Category:     log.CategoryMessage,
		RemoteAddr:   m.config.Address,
		Frame:        log.NewFrameEvent(data),
	})
}

func (m *Manager) logError(op string, err error) {
	m.protoLog.Log(log.Event{
		Timestamp:  time.Now(),
		Direction:  log.DirectionOut,
		Layer:      log.LayerTransport,
		Category:   log.CategoryError,
		RemoteAddr: m.config.Address,
		Error: &log.ErrorEventData{
			Layer:   log.LayerTransport,
			Message: err.Error(),
			Context: op,
		},
	})
}

// debugLog logs a debug message if logging is enabled.
func (m *Manager) debugLog(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}

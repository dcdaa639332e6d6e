package simulator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kef-protocol/kef-go/pkg/wire"
)

// DefaultAddress listens on a random loopback port.
const DefaultAddress = "127.0.0.1:0"

// Config configures a Simulator.
type Config struct {
	// Address is the listen address (default: 127.0.0.1:0).
	Address string

	// Initial device state.
	Source      wire.Source
	On          bool
	Standby     wire.StandbyPolicy
	Orientation wire.Orientation
	Volume      uint8
	Muted       bool

	// SourceDelay is how long a set source takes to show up in replies.
	SourceDelay time.Duration

	// PowerDelay is how long a power change takes to show up in replies.
	PowerDelay time.Duration

	// PrefixFrames makes every reply start with an unrelated frame, the way
	// the real speaker sometimes coalesces a stale notification into a read.
	PrefixFrames bool

	// IgnoreCommands drops the first N commands without replying.
	IgnoreCommands int

	// Logger is the optional logger for debug output.
	Logger *slog.Logger
}

// Simulator is an in-process speaker speaking the control protocol on TCP.
type Simulator struct {
	config Config
	logger *slog.Logger

	mu            sync.Mutex
	sourceCode    uint8 // without the power-off offset
	on            bool
	volume        uint8
	pendingSource *pendingSource
	pendingPower  *pendingPower
	commands      [][]byte
	ignore        int

	listener net.Listener
	running  atomic.Bool
	accepted atomic.Int64

	connsMu sync.Mutex
	conns   map[net.Conn]struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type pendingSource struct {
	code uint8
	at   time.Time
}

type pendingPower struct {
	on bool
	at time.Time
}

// New creates a Simulator. Unset source defaults to Aux.
func New(config Config) (*Simulator, error) {
	if config.Address == "" {
		config.Address = DefaultAddress
	}
	if config.Source == 0 {
		config.Source = wire.SourceAux
	}

	code, err := wire.SourceCode(config.Source, config.Standby, config.Orientation)
	if err != nil {
		return nil, fmt.Errorf("initial source: %w", err)
	}
	volume, err := wire.EncodeVolume(config.Volume, config.Muted)
	if err != nil {
		return nil, fmt.Errorf("initial volume: %w", err)
	}

	return &Simulator{
		config:     config,
		logger:     config.Logger,
		sourceCode: code,
		on:         config.On,
		volume:     volume,
		ignore:     config.IgnoreCommands,
		conns:      make(map[net.Conn]struct{}),
	}, nil
}

// Start starts listening and serving connections.
func (s *Simulator) Start(ctx context.Context) error {
	if s.running.Load() {
		return errors.New("simulator already running")
	}

	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = listener
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running.Store(true)

	s.wg.Add(1)
	go s.acceptLoop()

	s.debugLog("Simulator: listening", "address", listener.Addr().String())
	return nil
}

// Stop closes the listener and all connections.
func (s *Simulator) Stop() error {
	if !s.running.Swap(false) {
		return nil
	}
	s.cancel()
	s.listener.Close()
	s.CloseConnections()
	s.wg.Wait()
	return nil
}

// Addr returns the listen address, or nil before Start.
func (s *Simulator) Addr() net.Addr {
	if s.listener != nil {
		return s.listener.Addr()
	}
	return nil
}

// AcceptedCount returns the number of connections accepted so far.
func (s *Simulator) AcceptedCount() int {
	return int(s.accepted.Load())
}

// ConnectionCount returns the number of open connections.
func (s *Simulator) ConnectionCount() int {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	return len(s.conns)
}

// CloseConnections drops every open connection, as the speaker does with
// sessions it considers stale.
func (s *Simulator) CloseConnections() {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	for conn := range s.conns {
		conn.Close()
	}
}

// Commands returns a copy of every command received, in order.
func (s *Simulator) Commands() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.commands))
	for i, c := range s.commands {
		out[i] = append([]byte(nil), c...)
	}
	return out
}

// ResetCommands clears the command record.
func (s *Simulator) ResetCommands() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = nil
}

// SourceByte returns the source byte as it would be reported now.
func (s *Simulator) SourceByte() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sourceByteLocked(time.Now())
}

// State returns the decoded state as it would be reported now.
func (s *Simulator) State() wire.State {
	state, _ := wire.DecodeSource(s.SourceByte())
	return state
}

// VolumeByte returns the raw volume byte.
func (s *Simulator) VolumeByte() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// SetPower changes the power state immediately, as the physical button does.
func (s *Simulator) SetPower(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.on = on
	s.pendingPower = nil
}

// ---------------------------------------------------------------------------
// Serving
// ---------------------------------------------------------------------------

func (s *Simulator) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.running.Load() {
				return
			}
			s.debugLog("Simulator: accept error", "error", err)
			continue
		}

		s.accepted.Add(1)
		s.connsMu.Lock()
		s.conns[conn] = struct{}{}
		s.connsMu.Unlock()

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Simulator) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.connsMu.Lock()
		delete(s.conns, conn)
		s.connsMu.Unlock()
		conn.Close()
	}()

	s.debugLog("Simulator: connection opened", "remote", conn.RemoteAddr().String())

	buf := make([]byte, 64)
	var pending []byte
	for {
		n, err := conn.Read(buf)
		if err != nil {
			s.debugLog("Simulator: connection closed", "remote", conn.RemoteAddr().String(), "error", err)
			return
		}
		pending = append(pending, buf[:n]...)

		var cmds [][]byte
		cmds, pending = splitCommands(pending)
		for _, cmd := range cmds {
			reply := s.Handle(cmd)
			if reply == nil {
				continue
			}
			if _, err := conn.Write(reply); err != nil {
				return
			}
		}
	}
}

// splitCommands extracts complete commands from buf and returns the
// unconsumed tail. Unknown bytes are skipped.
func splitCommands(buf []byte) ([][]byte, []byte) {
	var cmds [][]byte
	for len(buf) > 0 {
		var size int
		switch buf[0] {
		case wire.MarkerGet:
			size = 3
		case wire.MarkerSet:
			size = 4
		default:
			buf = buf[1:]
			continue
		}
		if len(buf) < size {
			break
		}
		cmds = append(cmds, append([]byte(nil), buf[:size]...))
		buf = buf[size:]
	}
	return cmds, buf
}

// Handle applies one command and returns the reply bytes, or nil for no
// reply.
func (s *Simulator) Handle(cmd []byte) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commands = append(s.commands, append([]byte(nil), cmd...))
	if s.ignore > 0 {
		s.ignore--
		return nil
	}

	now := time.Now()
	var reply []byte

	switch {
	case wire.IsQuery(cmd):
		field := wire.Field(cmd[1])
		switch field {
		case wire.FieldSource:
			reply = wire.EncodeReply(field, s.sourceByteLocked(now))
		case wire.FieldVolume:
			reply = wire.EncodeReply(field, s.volume)
		default:
			return nil
		}

	case wire.IsSet(cmd):
		switch wire.Field(cmd[1]) {
		case wire.FieldSource:
			s.applySetSourceLocked(cmd[3], now)
		case wire.FieldVolume:
			s.volume = cmd[3]
		default:
			return nil
		}
		reply = wire.EncodeAck()

	default:
		return nil
	}

	if s.config.PrefixFrames {
		stale := wire.EncodeReply(wire.FieldVolume, s.volume)
		if wire.IsQuery(cmd) && wire.Field(cmd[1]) == wire.FieldVolume {
			stale = wire.EncodeReply(wire.FieldSource, s.sourceByteLocked(now))
		}
		reply = append(stale, reply...)
	}
	return reply
}

func (s *Simulator) applySetSourceLocked(value uint8, now time.Time) {
	code := value % wire.PowerOffOffset
	on := wire.DecodePower(value)

	if code != s.sourceCodeLocked(now) {
		if s.config.SourceDelay > 0 {
			s.pendingSource = &pendingSource{code: code, at: now.Add(s.config.SourceDelay)}
		} else {
			s.sourceCode = code
			s.pendingSource = nil
		}
	}

	if on != s.powerLocked(now) {
		if s.config.PowerDelay > 0 {
			s.pendingPower = &pendingPower{on: on, at: now.Add(s.config.PowerDelay)}
		} else {
			s.on = on
			s.pendingPower = nil
		}
	}
}

func (s *Simulator) sourceCodeLocked(now time.Time) uint8 {
	if p := s.pendingSource; p != nil && !now.Before(p.at) {
		s.sourceCode = p.code
		s.pendingSource = nil
	}
	return s.sourceCode
}

func (s *Simulator) powerLocked(now time.Time) bool {
	if p := s.pendingPower; p != nil && !now.Before(p.at) {
		s.on = p.on
		s.pendingPower = nil
	}
	return s.on
}

func (s *Simulator) sourceByteLocked(now time.Time) uint8 {
	code := s.sourceCodeLocked(now)
	if !s.powerLocked(now) {
		code += wire.PowerOffOffset
	}
	return code
}

// debugLog logs a debug message if logging is enabled.
func (s *Simulator) debugLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

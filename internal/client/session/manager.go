package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultRetryDelay    = 3 * time.Second
	maxReconnectAttempts = 3
)

var ErrNotConnected = errors.New("not connected")

type iConn interface {
	ReadMessage() (messageType int, data []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type iDialer interface {
	DialContext(ctx context.Context, url string) (iConn, error)
}

type wsDialer struct{}

func (wsDialer) DialContext(ctx context.Context, url string) (iConn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	return conn, nil
}

// manager owns the room channel: exactly one live connection, automatic recovery
// with bounded retries, and the intentional-vs-accidental disconnect distinction.
// The conn handle is acquired on connect and released on every transition out of
// Open/Reconnecting; nothing outside this struct touches it.
type manager struct {
	url        string
	dialer     iDialer
	notifier   Notifier
	logger     *slog.Logger
	retryDelay time.Duration
	onMessage  func(data []byte)

	mu          sync.Mutex
	state       ConnState
	conn        iConn
	retryCount  int
	intentional bool
	retryTimer  *time.Timer
	ctx         context.Context
}

func newManager(url string, dialer iDialer, notifier Notifier, logger *slog.Logger, onMessage func([]byte)) *manager {
	return &manager{
		url:        url,
		dialer:     dialer,
		notifier:   notifier,
		logger:     logger,
		retryDelay: defaultRetryDelay,
		onMessage:  onMessage,
		state:      StateIdle,
	}
}

// Connect moves Idle -> Connecting and runs the first attempt. Connection opening
// and all recovery happen off the caller's goroutine; progress surfaces through
// the notifier and State.
func (m *manager) Connect(ctx context.Context) {
	m.mu.Lock()
	if m.state != StateIdle || m.intentional {
		m.mu.Unlock()
		return
	}
	m.ctx = ctx
	m.state = StateConnecting
	m.mu.Unlock()

	go m.attempt()
}

func (m *manager) attempt() {
	m.mu.Lock()
	if m.intentional {
		m.mu.Unlock()
		return
	}
	m.state = StateConnecting
	ctx := m.ctx
	m.mu.Unlock()

	conn, err := m.dialer.DialContext(ctx, m.url)
	if err != nil {
		m.logger.Warn("handshake failed", "url", m.url, "error", err)
		m.handleFailure()
		return
	}

	m.mu.Lock()
	if m.intentional {
		m.mu.Unlock()
		conn.Close()
		return
	}
	m.conn = conn
	m.state = StateOpen
	m.retryCount = 0
	m.mu.Unlock()

	m.notifier.Notify("connected to room")
	go m.readLoop(conn)
}

func (m *manager) readLoop(conn iConn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			m.handleClosure(conn)
			return
		}
		m.onMessage(data)
	}
}

func (m *manager) handleClosure(conn iConn) {
	m.mu.Lock()
	if m.conn == conn {
		m.conn = nil
	}
	intentional := m.intentional
	m.mu.Unlock()

	conn.Close()

	if intentional {
		return
	}
	m.handleFailure()
}

func (m *manager) handleFailure() {
	m.mu.Lock()
	if m.intentional {
		m.mu.Unlock()
		return
	}

	m.retryCount++
	if m.retryCount > maxReconnectAttempts {
		m.state = StateAbandoned
		m.mu.Unlock()
		m.logger.Error("max reconnect attempts reached", "attempts", maxReconnectAttempts)
		m.notifier.NotifyError("failed to connect to room, please try again later")
		return
	}

	m.state = StateReconnecting
	m.retryTimer = time.AfterFunc(m.retryDelay, m.attempt)
	m.mu.Unlock()

	m.notifier.NotifyError("disconnected from the room, reconnecting...")
}

// Close is the intentional teardown. The flag is set before the conn is closed;
// the reverse order would let the read loop observe the closure first and schedule
// an unwanted reconnect. The pending retry timer is cancelled on the same path.
func (m *manager) Close() {
	m.mu.Lock()
	m.intentional = true
	conn := m.conn
	m.conn = nil
	timer := m.retryTimer
	m.retryTimer = nil
	m.state = StateIdle
	m.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	if timer != nil {
		timer.Stop()
	}
}

func (m *manager) Send(data []byte) error {
	m.mu.Lock()
	conn := m.conn
	open := m.state == StateOpen
	m.mu.Unlock()

	if !open || conn == nil {
		return ErrNotConnected
	}

	return conn.WriteMessage(websocket.TextMessage, data)
}

func (m *manager) State() ConnState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

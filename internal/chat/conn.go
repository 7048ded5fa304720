package chat

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/connectly-app/connectly-tui/internal/domain"
	"github.com/connectly-app/connectly-tui/internal/session"
)

// ErrNoToken is returned by Activate when the session has no access
// token to authenticate the socket with.
var ErrNoToken = errors.New("chat: no access token")

// FrameHandler receives each raw inbound frame together with the peer
// the transport is scoped to.
type FrameHandler func(peerID int64, data []byte)

// Manager owns at most one live socket, scoped to the active
// conversation. Switching peers tears the old transport down (with an
// offline presence frame) before the new one is dialed. There is no
// automatic reconnect; a dropped connection stays Closed until the
// conversation is activated again.
type Manager struct {
	wsBase  string
	sess    *session.Session
	handler FrameHandler
	logger  *zap.Logger
	onState func(domain.ConnState)

	mu     sync.Mutex
	conn   *websocket.Conn
	peerID int64
	state  domain.ConnState
	// gen tags the read loop of each transport so trailing frames from
	// a superseded connection are discarded.
	gen uint64
}

func NewManager(wsBase string, sess *session.Session, handler FrameHandler, logger *zap.Logger) *Manager {
	return &Manager{
		wsBase:  wsBase,
		sess:    sess,
		handler: handler,
		logger:  logger,
		state:   domain.StateClosed,
	}
}

// SetOnState registers a callback for connection state transitions. The
// callback must not call back into the Manager.
func (m *Manager) SetOnState(f func(domain.ConnState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onState = f
}

func (m *Manager) State() domain.ConnState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Peer returns the conversation the current transport is scoped to.
func (m *Manager) Peer() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.peerID
}

// Activate makes peerID the active conversation. Calling it for the
// peer that is already connected is a no-op. Any other transport is
// closed first; a dial failure leaves the state Closed.
func (m *Manager) Activate(ctx context.Context, peerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if peerID == m.peerID && m.state != domain.StateClosed {
		return nil
	}

	m.teardownLocked()

	if m.sess == nil || m.sess.AccessToken == "" {
		return ErrNoToken
	}

	u, err := url.Parse(m.wsBase)
	if err != nil {
		return fmt.Errorf("parse ws base url: %w", err)
	}
	u.Path = fmt.Sprintf("/ws/chat/%d/", peerID)
	// Token travels as a query parameter; the handshake has no headers
	// the browser client could set either.
	q := u.Query()
	q.Set("token", m.sess.AccessToken)
	u.RawQuery = q.Encode()

	m.peerID = peerID
	m.setStateLocked(domain.StateConnecting)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		m.setStateLocked(domain.StateClosed)
		return fmt.Errorf("dial %s: %w", u.Path, err)
	}

	m.conn = conn
	m.gen++
	m.setStateLocked(domain.StateOpen)
	m.logger.Info("transport open", zap.Int64("peer", peerID))

	// Announce ourselves as soon as the transport is up.
	if err := conn.WriteJSON(presenceFrame{Type: "presence", Status: "online"}); err != nil {
		m.logger.Warn("presence announce failed", zap.Error(err))
	}

	go m.readLoop(conn, peerID, m.gen)
	return nil
}

// Close tears down any live transport.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked()
}

// SendJSON writes one frame to the live transport.
func (m *Manager) SendJSON(v interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != domain.StateOpen || m.conn == nil {
		return ErrNotConnected
	}
	return m.conn.WriteJSON(v)
}

func (m *Manager) readLoop(conn *websocket.Conn, peerID int64, gen uint64) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			m.readClosed(gen, err)
			return
		}
		if !m.currentGen(gen) {
			// Conversation switched while this frame was in flight.
			return
		}
		m.handler(peerID, data)
	}
}

func (m *Manager) currentGen(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen == gen
}

func (m *Manager) readClosed(gen uint64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen != gen {
		// A newer transport owns the state now.
		return
	}
	m.logger.Info("transport closed", zap.Int64("peer", m.peerID), zap.Error(err))
	m.conn = nil
	m.setStateLocked(domain.StateClosed)
}

func (m *Manager) teardownLocked() {
	if m.conn != nil {
		m.conn.WriteJSON(presenceFrame{Type: "presence", Status: "offline"})
		m.conn.Close()
		m.conn = nil
	}
	m.gen++
	m.setStateLocked(domain.StateClosed)
}

func (m *Manager) setStateLocked(s domain.ConnState) {
	if m.state == s {
		return
	}
	m.state = s
	if m.onState != nil {
		m.onState(s)
	}
}

package chat

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/connectly-app/connectly-tui/internal/domain"
	"github.com/connectly-app/connectly-tui/internal/session"
	"github.com/connectly-app/connectly-tui/internal/state"
)

var (
	ErrEmptyMessage = errors.New("chat: empty message")
	ErrNotConnected = errors.New("chat: transport not open")
)

// DefaultTypingWindow is the local quiet period between typing frames.
const DefaultTypingWindow = 2 * time.Second

// Transport is what the send pipeline needs from the connection
// manager.
type Transport interface {
	State() domain.ConnState
	Peer() int64
	SendJSON(v interface{}) error
}

// SendPipeline turns compose actions into outbound frames. Sends append
// an optimistic Pending echo that is never reconciled against a server
// id, because the protocol has none; the server's broadcast of the same
// message may appear alongside it.
type SendPipeline struct {
	conn   Transport
	store  *state.Store
	sess   *session.Session
	logger *zap.Logger
	window time.Duration

	mu       sync.Mutex
	throttle *time.Timer
}

func NewSendPipeline(conn Transport, store *state.Store, sess *session.Session, logger *zap.Logger, window time.Duration) *SendPipeline {
	if window <= 0 {
		window = DefaultTypingWindow
	}
	return &SendPipeline{
		conn:   conn,
		store:  store,
		sess:   sess,
		logger: logger,
		window: window,
	}
}

// Send validates and transmits one message, then appends the local
// Pending echo.
func (p *SendPipeline) Send(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyMessage
	}
	if p.conn.State() != domain.StateOpen {
		return ErrNotConnected
	}

	if err := p.conn.SendJSON(messageFrame{Type: "message", Message: content}); err != nil {
		p.logger.Error("send failed", zap.Error(err))
		return err
	}

	p.store.Append(domain.Message{
		LocalID:   uuid.NewString(),
		PeerID:    p.conn.Peer(),
		SenderID:  p.sess.UserID,
		Content:   content,
		Timestamp: time.Now(),
		Status:    domain.StatusPending,
		Out:       true,
	})

	p.ResetTyping()
	return nil
}

// NotifyTyping is called on every compose-box change. The first call
// after a quiet period sends a typing frame; calls inside the window
// only restart it. Expiry sends nothing, it just re-arms.
func (p *SendPipeline) NotifyTyping() {
	if p.conn.State() != domain.StateOpen {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.throttle == nil {
		if err := p.conn.SendJSON(typingFrame{Type: "typing", UserID: p.sess.UserID}); err != nil {
			p.logger.Debug("typing frame failed", zap.Error(err))
			return
		}
	} else {
		p.throttle.Stop()
	}

	p.throttle = time.AfterFunc(p.window, func() {
		p.mu.Lock()
		p.throttle = nil
		p.mu.Unlock()
	})
}

// ResetTyping cancels the throttle window, e.g. after a send or a
// conversation switch.
func (p *SendPipeline) ResetTyping() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.throttle != nil {
		p.throttle.Stop()
		p.throttle = nil
	}
}

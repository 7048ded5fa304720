package chat

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/connectly-app/connectly-tui/internal/domain"
	"github.com/connectly-app/connectly-tui/internal/session"
	"github.com/connectly-app/connectly-tui/internal/state"
)

// Router turns inbound frames into state mutations. It is the only
// writer of the presence set and the unread counters.
type Router struct {
	store    *state.Store
	presence *state.PresenceTracker
	typing   *state.TypingTracker
	sess     *session.Session
	logger   *zap.Logger
}

func NewRouter(store *state.Store, presence *state.PresenceTracker, typing *state.TypingTracker, sess *session.Session, logger *zap.Logger) *Router {
	return &Router{
		store:    store,
		presence: presence,
		typing:   typing,
		sess:     sess,
		logger:   logger,
	}
}

// HandleFrame decodes and dispatches one inbound frame. Malformed or
// unrecognized frames are dropped; nothing here is fatal.
func (r *Router) HandleFrame(peerID int64, data []byte) {
	ev, err := DecodeEvent(data)
	if err != nil {
		r.logger.Debug("dropping frame", zap.Error(err))
		return
	}

	switch ev := ev.(type) {
	case MessageEvent:
		r.store.Append(domain.Message{
			LocalID:   uuid.NewString(),
			PeerID:    peerID,
			SenderID:  ev.SenderID,
			Content:   ev.Content,
			Timestamp: time.Now(),
			Status:    domain.StatusDelivered,
			Out:       ev.SenderID == r.sess.UserID,
		})
		if ev.SenderID != r.store.ActivePeer() && ev.SenderID != r.sess.UserID {
			r.store.IncrementUnread(ev.SenderID)
		}

	case TypingEvent:
		if ev.UserID != r.sess.UserID {
			r.typing.Touch(ev.UserID)
		}

	case PresenceEvent:
		r.presence.Set(ev.UserID, ev.Online)

	case ReadEvent:
		r.store.MarkSentRead(r.store.ActivePeer())
	}
}

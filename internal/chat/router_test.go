package chat

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/connectly-app/connectly-tui/internal/domain"
	"github.com/connectly-app/connectly-tui/internal/session"
	"github.com/connectly-app/connectly-tui/internal/state"
)

func newTestRouter() (*Router, *state.Store, *state.PresenceTracker, *state.TypingTracker) {
	store := state.New(nil)
	presence := state.NewPresenceTracker(nil)
	typing := state.NewTypingTracker(time.Minute, nil)
	sess := &session.Session{UserID: 1, FullName: "Me"}
	r := NewRouter(store, presence, typing, sess, zap.NewNop())
	return r, store, presence, typing
}

func TestRouter_MessageFromActivePeer(t *testing.T) {
	r, store, _, _ := newTestRouter()
	store.SetActivePeer(7)

	r.HandleFrame(7, []byte(`{"type":"message","sender_id":7,"message":"hey"}`))

	msgs := store.Messages(7)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].Status != domain.StatusDelivered {
		t.Errorf("status = %v, want delivered", msgs[0].Status)
	}
	if msgs[0].Out {
		t.Error("message from peer marked as outgoing")
	}
	if store.Unread(7) != 0 {
		t.Errorf("unread[7] = %d for active conversation, want 0", store.Unread(7))
	}
}

func TestRouter_MessageFromOtherPeerIncrementsUnread(t *testing.T) {
	r, store, _, _ := newTestRouter()
	store.SetActivePeer(2) // talking to 2, message arrives from 9

	r.HandleFrame(9, []byte(`{"type":"message","sender_id":9,"message":"psst"}`))

	if store.Unread(9) != 1 {
		t.Errorf("unread[9] = %d, want 1", store.Unread(9))
	}
}

func TestRouter_OwnEchoDoesNotIncrementUnread(t *testing.T) {
	r, store, _, _ := newTestRouter()
	store.SetActivePeer(2)

	// The server echoes our own message back on the room socket.
	r.HandleFrame(2, []byte(`{"type":"message","sender_id":1,"message":"mine"}`))

	if store.Unread(1) != 0 {
		t.Errorf("unread[self] = %d, want 0", store.Unread(1))
	}
	msgs := store.Messages(2)
	if len(msgs) != 1 || !msgs[0].Out {
		t.Errorf("echoed message = %+v, want outgoing", msgs)
	}
}

func TestRouter_TypingIgnoresSelf(t *testing.T) {
	r, _, _, typing := newTestRouter()

	r.HandleFrame(2, []byte(`{"type":"typing","user_id":1}`))
	if typing.IsTyping(1) {
		t.Error("own typing event tracked")
	}

	r.HandleFrame(2, []byte(`{"type":"typing","user_id":2}`))
	if !typing.IsTyping(2) {
		t.Error("peer typing event not tracked")
	}
}

func TestRouter_Presence(t *testing.T) {
	r, _, presence, _ := newTestRouter()

	r.HandleFrame(2, []byte(`{"type":"presence","user_id":2,"status":"online"}`))
	if !presence.IsOnline(2) {
		t.Error("2 not online after online event")
	}

	r.HandleFrame(2, []byte(`{"type":"presence","user_id":2,"status":"offline"}`))
	if presence.IsOnline(2) {
		t.Error("2 still online after offline event")
	}
}

func TestRouter_ReadMarksSentMessages(t *testing.T) {
	r, store, _, _ := newTestRouter()
	store.SetActivePeer(4)
	store.Append(domain.Message{PeerID: 4, SenderID: 1, Content: "a", Status: domain.StatusPending, Out: true})
	store.Append(domain.Message{PeerID: 4, SenderID: 4, Content: "b", Status: domain.StatusDelivered})

	r.HandleFrame(4, []byte(`{"type":"read"}`))

	msgs := store.Messages(4)
	if msgs[0].Status != domain.StatusRead {
		t.Errorf("sent message status = %v, want read", msgs[0].Status)
	}
	if msgs[1].Status != domain.StatusDelivered {
		t.Errorf("received message status = %v, want delivered", msgs[1].Status)
	}
}

func TestRouter_DropsGarbage(t *testing.T) {
	r, store, _, _ := newTestRouter()
	store.SetActivePeer(3)

	r.HandleFrame(3, []byte(`not json at all`))
	r.HandleFrame(3, []byte(`{"type":"wibble"}`))

	if len(store.Messages(3)) != 0 {
		t.Error("garbage frames mutated the store")
	}
}

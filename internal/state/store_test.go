package state_test

import (
	"testing"
	"time"

	"github.com/connectly-app/connectly-tui/internal/domain"
	"github.com/connectly-app/connectly-tui/internal/state"
)

func TestStore_Append(t *testing.T) {
	s := state.New(nil)

	msg := domain.Message{
		LocalID:   "1",
		PeerID:    100,
		SenderID:  100,
		Content:   "Hello",
		Timestamp: time.Now(),
		Status:    domain.StatusDelivered,
	}

	s.Append(msg)

	msgs := s.Messages(100)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].Content != "Hello" {
		t.Errorf("Content = %q, want %q", msgs[0].Content, "Hello")
	}
}

func TestStore_MergeHistoryKeepsLiveMessages(t *testing.T) {
	s := state.New(nil)
	s.SetActivePeer(7)

	// A live message arrives while the history fetch is still in flight.
	live := domain.Message{LocalID: "live", PeerID: 7, SenderID: 7, Content: "m2", Status: domain.StatusDelivered}
	s.Append(live)

	history := []domain.Message{
		{LocalID: "10", PeerID: 7, SenderID: 7, Content: "m1", Status: domain.StatusDelivered},
	}
	s.MergeHistory(7, history)

	msgs := s.Messages(7)
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2 (history + live)", len(msgs))
	}
	if msgs[0].Content != "m1" || msgs[1].Content != "m2" {
		t.Errorf("log = [%s, %s], want [m1, m2]", msgs[0].Content, msgs[1].Content)
	}
}

func TestStore_ActivationDiscardsLog(t *testing.T) {
	s := state.New(nil)
	s.SetActivePeer(5)
	s.Append(domain.Message{PeerID: 5, Content: "old"})

	// Re-selecting the conversation refetches from scratch.
	s.SetActivePeer(5)
	if got := len(s.Messages(5)); got != 0 {
		t.Fatalf("log has %d messages after re-activation, want 0", got)
	}
}

func TestStore_UnreadAccounting(t *testing.T) {
	s := state.New(nil)
	s.SetActivePeer(2)

	s.IncrementUnread(3)
	s.IncrementUnread(3)
	if got := s.Unread(3); got != 2 {
		t.Errorf("Unread(3) = %d, want 2", got)
	}

	s.SetActivePeer(3)
	if got := s.Unread(3); got != 0 {
		t.Errorf("Unread(3) = %d after activation, want 0", got)
	}
}

func TestStore_MarkSentRead(t *testing.T) {
	s := state.New(nil)
	s.SetActivePeer(4)
	s.Append(domain.Message{PeerID: 4, SenderID: 1, Content: "mine", Status: domain.StatusPending, Out: true})
	s.Append(domain.Message{PeerID: 4, SenderID: 4, Content: "theirs", Status: domain.StatusDelivered})

	s.MarkSentRead(4)

	msgs := s.Messages(4)
	if msgs[0].Status != domain.StatusRead {
		t.Errorf("outgoing message status = %v, want read", msgs[0].Status)
	}
	if msgs[1].Status != domain.StatusDelivered {
		t.Errorf("incoming message status = %v, want delivered (untouched)", msgs[1].Status)
	}
}

func TestStore_MessagesReturnsCopy(t *testing.T) {
	s := state.New(nil)
	s.Append(domain.Message{PeerID: 1, Content: "a", Status: domain.StatusDelivered})

	got := s.Messages(1)
	got[0].Content = "mutated"

	if s.Messages(1)[0].Content != "a" {
		t.Error("caller mutation leaked into the store")
	}
}

func TestStore_MessageLimit(t *testing.T) {
	s := state.New(nil)

	for i := 0; i < 600; i++ {
		s.Append(domain.Message{PeerID: 1, Content: "msg"})
	}

	if got := len(s.Messages(1)); got > 500 {
		t.Errorf("messages = %d, want <= 500", got)
	}
}

func TestStore_NotifyCalledOnMutation(t *testing.T) {
	calls := 0
	s := state.New(func() { calls++ })

	s.Append(domain.Message{PeerID: 1, Content: "x"})
	s.IncrementUnread(2)

	if calls != 2 {
		t.Errorf("notify called %d times, want 2", calls)
	}
}

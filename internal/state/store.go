package state

import (
	"sync"

	"github.com/connectly-app/connectly-tui/internal/domain"
)

const maxMessages = 500

// Store holds the per-peer message logs and unread counters. All
// mutation comes from the event router, the send pipeline and the
// history fetch; notify pings the UI after each change.
type Store struct {
	mu         sync.RWMutex
	messages   map[int64][]domain.Message
	unread     map[int64]int
	activePeer int64
	notify     func()
}

func New(notify func()) *Store {
	return &Store{
		messages: make(map[int64][]domain.Message),
		unread:   make(map[int64]int),
		notify:   notify,
	}
}

func (s *Store) SetNotify(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = f
}

func (s *Store) ping() {
	if s.notify != nil {
		s.notify()
	}
}

// SetActivePeer switches the active conversation. The peer's log is
// discarded (history is refetched on every activation) and its unread
// counter resets.
func (s *Store) SetActivePeer(peerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activePeer = peerID
	delete(s.messages, peerID)
	s.unread[peerID] = 0
	s.ping()
}

func (s *Store) ActivePeer() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activePeer
}

// Append adds a message to the tail of its peer's log. Duplicates are
// not suppressed; delivery is at-least-once.
func (s *Store) Append(msg domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := append(s.messages[msg.PeerID], msg)
	if len(msgs) > maxMessages {
		msgs = msgs[len(msgs)-maxMessages:]
	}
	s.messages[msg.PeerID] = msgs
	s.ping()
}

// MergeHistory installs the REST-fetched history for a peer. Any
// messages that arrived live while the fetch was in flight are already
// in the log (it was cleared on activation), so they are kept after the
// snapshot rather than overwritten.
func (s *Store) MergeHistory(peerID int64, history []domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	liveTail := s.messages[peerID]
	merged := make([]domain.Message, 0, len(history)+len(liveTail))
	merged = append(merged, history...)
	merged = append(merged, liveTail...)
	if len(merged) > maxMessages {
		merged = merged[len(merged)-maxMessages:]
	}
	s.messages[peerID] = merged
	s.ping()
}

// MarkSentRead flips every outgoing message in the peer's log to Read.
// The read event carries no message id, so the receipt is coarse: the
// peer has read everything sent up to now.
func (s *Store) MarkSentRead(peerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.messages[peerID]
	for i := range msgs {
		if msgs[i].Out {
			msgs[i].Status = domain.StatusRead
		}
	}
	s.ping()
}

// Messages returns a copy of the peer's log in receive order.
func (s *Store) Messages(peerID int64) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.messages[peerID]
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out
}

func (s *Store) IncrementUnread(peerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unread[peerID]++
	s.ping()
}

func (s *Store) Unread(peerID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread[peerID]
}

func (s *Store) UnreadCounts() map[int64]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]int, len(s.unread))
	for k, v := range s.unread {
		out[k] = v
	}
	return out
}

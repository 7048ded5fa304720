package state

import (
	"sync"
	"time"
)

// DefaultTypingTTL is how long a typing indicator stays up without a
// refreshing event.
const DefaultTypingTTL = 3 * time.Second

// TypingTracker is the set of peers currently typing. Each entry owns
// an expiry timer; a repeated typing event replaces the timer rather
// than extending it.
type TypingTracker struct {
	mu     sync.Mutex
	ttl    time.Duration
	timers map[int64]*time.Timer
	notify func()
}

func NewTypingTracker(ttl time.Duration, notify func()) *TypingTracker {
	if ttl <= 0 {
		ttl = DefaultTypingTTL
	}
	return &TypingTracker{
		ttl:    ttl,
		timers: make(map[int64]*time.Timer),
		notify: notify,
	}
}

func (t *TypingTracker) SetNotify(f func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notify = f
}

// Touch marks userID as typing and (re)arms its eviction timer.
func (t *TypingTracker) Touch(userID int64) {
	t.mu.Lock()
	if old, ok := t.timers[userID]; ok {
		old.Stop()
	}
	t.timers[userID] = time.AfterFunc(t.ttl, func() {
		t.evict(userID)
	})
	t.mu.Unlock()

	t.ping()
}

func (t *TypingTracker) evict(userID int64) {
	t.mu.Lock()
	delete(t.timers, userID)
	t.mu.Unlock()

	t.ping()
}

func (t *TypingTracker) IsTyping(userID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.timers[userID]
	return ok
}

// Clear cancels every pending eviction timer, for conversation switch.
func (t *TypingTracker) Clear() {
	t.mu.Lock()
	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
	t.mu.Unlock()

	t.ping()
}

func (t *TypingTracker) ping() {
	t.mu.Lock()
	f := t.notify
	t.mu.Unlock()
	if f != nil {
		f()
	}
}

package state

import "sync"

// PresenceTracker is the set of users currently believed online.
// Membership reflects only the most recent presence event per user;
// there is no staleness tracking.
type PresenceTracker struct {
	mu     sync.RWMutex
	online map[int64]struct{}
	notify func()
}

func NewPresenceTracker(notify func()) *PresenceTracker {
	return &PresenceTracker{
		online: make(map[int64]struct{}),
		notify: notify,
	}
}

func (p *PresenceTracker) SetNotify(f func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notify = f
}

func (p *PresenceTracker) Set(userID int64, online bool) {
	p.mu.Lock()
	if online {
		p.online[userID] = struct{}{}
	} else {
		delete(p.online, userID)
	}
	f := p.notify
	p.mu.Unlock()

	if f != nil {
		f()
	}
}

func (p *PresenceTracker) IsOnline(userID int64) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.online[userID]
	return ok
}

func (p *PresenceTracker) Online() []int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]int64, 0, len(p.online))
	for id := range p.online {
		out = append(out, id)
	}
	return out
}

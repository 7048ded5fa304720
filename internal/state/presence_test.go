package state_test

import (
	"testing"

	"github.com/connectly-app/connectly-tui/internal/state"
)

func TestPresence_LastWriterWins(t *testing.T) {
	p := state.NewPresenceTracker(nil)

	p.Set(7, true)
	if !p.IsOnline(7) {
		t.Error("7 should be online after online event")
	}

	p.Set(7, false)
	if p.IsOnline(7) {
		t.Error("7 should be offline after offline event")
	}

	p.Set(7, true)
	if !p.IsOnline(7) {
		t.Error("7 should be online again after re-add")
	}
}

func TestPresence_OffForUnknownUserIsNoop(t *testing.T) {
	p := state.NewPresenceTracker(nil)
	p.Set(99, false)
	if len(p.Online()) != 0 {
		t.Errorf("online set = %v, want empty", p.Online())
	}
}

func TestPresence_Online(t *testing.T) {
	p := state.NewPresenceTracker(nil)
	p.Set(1, true)
	p.Set(2, true)

	online := p.Online()
	if len(online) != 2 {
		t.Fatalf("got %d online users, want 2", len(online))
	}
}

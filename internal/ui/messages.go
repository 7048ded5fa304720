package ui

import (
	"github.com/connectly-app/connectly-tui/internal/domain"
)

// StoreUpdatedMsg signals that store/tracker state has changed.
type StoreUpdatedMsg struct{}

// PeersLoadedMsg delivers the people directory for the sidebar.
type PeersLoadedMsg struct {
	Peers []domain.Peer
}

// PeersErrorMsg reports a failed directory fetch.
type PeersErrorMsg struct {
	Err error
}

// PeerSelectedMsg is emitted when the user picks a conversation.
type PeerSelectedMsg struct {
	PeerID int64
}

// ConnStateMsg reports a transport state transition.
type ConnStateMsg struct {
	State domain.ConnState
}

// ActivateErrorMsg reports a failed conversation activation.
type ActivateErrorMsg struct {
	PeerID int64
	Err    error
}

// HistoryLoadedMsg delivers fetched history for a conversation.
type HistoryLoadedMsg struct {
	PeerID   int64
	Messages []domain.Message
}

// HistoryErrorMsg reports a failed history fetch; the conversation
// stays usable with an empty log.
type HistoryErrorMsg struct {
	PeerID int64
	Err    error
}

// sendMessageMsg is emitted when the user presses Enter in the input.
type sendMessageMsg struct {
	text string
}

// composePingMsg is emitted on every compose-box change and drives the
// typing-notification throttle.
type composePingMsg struct{}

// SendErrorMsg reports a failed send attempt.
type SendErrorMsg struct {
	Err error
}

// clockTickMsg triggers a status bar time refresh.
type clockTickMsg struct{}

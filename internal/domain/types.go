package domain

import "time"

// MessageStatus is the delivery state of a message. It only ever
// advances Pending -> Delivered -> Read.
type MessageStatus int

const (
	StatusPending MessageStatus = iota
	StatusDelivered
	StatusRead
)

func (s MessageStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusDelivered:
		return "delivered"
	case StatusRead:
		return "read"
	default:
		return "unknown"
	}
}

type Message struct {
	// LocalID identifies the message within this process only; the
	// protocol assigns no id we could reconcile against.
	LocalID   string
	PeerID    int64 // conversation key: the other participant
	SenderID  int64
	Content   string
	Timestamp time.Time
	Status    MessageStatus
	Out       bool // true if sent by us
}

// Peer is another user we can hold a one-to-one conversation with.
type Peer struct {
	ID         int64  `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	ProfilePic string `json:"profile_pic"`
	Bio        string `json:"bio"`
}

// ConnState is the transport lifecycle for the active conversation.
type ConnState int

const (
	StateClosed ConnState = iota
	StateConnecting
	StateOpen
)

func (s ConnState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

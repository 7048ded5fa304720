package chat

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Outbound frames. Every frame is a JSON object with a "type"
// discriminant.

type presenceFrame struct {
	Type   string `json:"type"`
	Status string `json:"status"` // "online" or "offline"
}

type messageFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type typingFrame struct {
	Type   string `json:"type"`
	UserID int64  `json:"user_id"`
}

// Event is a decoded inbound frame. The set is closed; anything the
// server sends outside it decodes to ErrUnknownEvent and is dropped by
// the router.
type Event interface {
	event()
}

type MessageEvent struct {
	SenderID int64
	Content  string
}

type TypingEvent struct {
	UserID int64
}

type PresenceEvent struct {
	UserID int64
	Online bool
}

// ReadEvent carries no message id; it means the peer has read
// everything sent up to now.
type ReadEvent struct{}

func (MessageEvent) event()  {}
func (TypingEvent) event()   {}
func (PresenceEvent) event() {}
func (ReadEvent) event()     {}

// ErrUnknownEvent marks a well-formed frame whose type this client does
// not understand. A newer server may add event kinds; they are dropped,
// not fatal.
var ErrUnknownEvent = errors.New("chat: unknown event type")

type wireEvent struct {
	Type     string `json:"type"`
	SenderID int64  `json:"sender_id"`
	Message  string `json:"message"`
	UserID   int64  `json:"user_id"`
	Status   string `json:"status"`
}

// DecodeEvent classifies a raw inbound frame into one of the typed
// event variants.
func DecodeEvent(data []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}

	switch w.Type {
	case "message":
		return MessageEvent{SenderID: w.SenderID, Content: w.Message}, nil
	case "typing":
		return TypingEvent{UserID: w.UserID}, nil
	case "presence":
		return PresenceEvent{UserID: w.UserID, Online: w.Status == "online"}, nil
	case "read":
		return ReadEvent{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, w.Type)
	}
}

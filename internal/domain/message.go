package domain

import "time"

// MessageKind selects the banner styling
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// DefaultMessageTTL is how long a banner stays visible
const DefaultMessageTTL = 5 * time.Second

// Message is the success/error banner shown after a signup or unregister
type Message struct {
	Kind      MessageKind `json:"kind"`
	Text      string      `json:"text"`
	ShownAt   time.Time   `json:"shown_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// NewMessage creates a message shown at now and hidden after ttl
func NewMessage(kind MessageKind, text string, now time.Time, ttl time.Duration) Message {
	return Message{
		Kind:      kind,
		Text:      text,
		ShownAt:   now,
		ExpiresAt: now.Add(ttl),
	}
}

// VisibleAt reports whether the message is still shown at t
func (m Message) VisibleAt(t time.Time) bool {
	return t.Before(m.ExpiresAt)
}

// Remaining returns how long the message stays visible after t, never negative
func (m Message) Remaining(t time.Time) time.Duration {
	if d := m.ExpiresAt.Sub(t); d > 0 {
		return d
	}
	return 0
}

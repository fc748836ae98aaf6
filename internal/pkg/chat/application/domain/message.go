package chat

import (
	"strings"
	"time"
)

// DeliveryStatus is the tri-state classification attached to every
// outgoing message for UI purposes.
type DeliveryStatus string

const (
	// StatusSent means the recipient is not known to be online; the
	// message was queued or is informational only.
	StatusSent DeliveryStatus = "sent"
	// StatusDelivered means the recipient holds an open connection,
	// though not necessarily in the same room view.
	StatusDelivered DeliveryStatus = "delivered"
	// StatusRead is only ever produced in response to an explicit
	// read-receipt event, never by presence-based resolution.
	StatusRead DeliveryStatus = "read"
)

// ReplyRef points a message at the one it replies to.
type ReplyRef struct {
	ReplyToID       string `json:"replyToId"`
	ReplyToMessage  string `json:"replyToMessage"`
	ReplyToSenderID string `json:"replyToSenderId"`
}

// QueuedMessage is an immutable chat message as parked for (or relayed to)
// a recipient. Once enqueued it is never mutated; it is dequeued exactly
// once, in FIFO order, when the recipient reconnects.
type QueuedMessage struct {
	ChatID    string    `json:"chatId"`
	RoomID    string    `json:"roomId"`
	SenderID  string    `json:"senderId"`
	Content   string    `json:"content"`
	File      *string   `json:"file,omitempty"`
	ReplyTo   *ReplyRef `json:"replyTo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewQueuedMessage validates and normalizes a message before it enters the
// coordination core. RoomID and SenderID are required; the message must
// carry either text content or a file attachment. A zero CreatedAt is
// stamped with the current time.
func NewQueuedMessage(m QueuedMessage) (*QueuedMessage, error) {
	if m.RoomID == "" || m.SenderID == "" {
		return nil, ErrMissingIdentity
	}

	m.Content = strings.TrimSpace(m.Content)
	if m.Content == "" && m.File == nil {
		return nil, ErrEmptyMessage
	}

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	return &m, nil
}

package controller

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/certifiedTboy/itakuroso-sub000/internal/infrastructure/realtime"
	chat "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/application/domain"
)

// partyRef identifies one side of a conversation as carried on the wire.
type partyRef struct {
	PhoneNumber string `json:"phoneNumber"`
	ContactName string `json:"contactName,omitempty"`
	Email       string `json:"email,omitempty"`
}

// inboundFrame is the union of every inbound event payload, discriminated
// by Type. Field names match the socket contract exactly.
type inboundFrame struct {
	Type string `json:"type"`

	// joinRoom / leaveRoom
	RoomID        string    `json:"roomId,omitempty"`
	UserID        *partyRef `json:"userId,omitempty"`
	CurrentUserID *partyRef `json:"currentUserId,omitempty"`

	// message
	ChatID     string         `json:"chatId,omitempty"`
	SenderID   string         `json:"senderId,omitempty"`
	ReceiverID string         `json:"receiverId,omitempty"`
	Content    string         `json:"content,omitempty"`
	File       *string        `json:"file,omitempty"`
	ReplyTo    *chat.ReplyRef `json:"replyTo,omitempty"`

	// userOnline / userOffline
	DocID       string `json:"_id,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Email       string `json:"email,omitempty"`

	// typing
	IsTyping bool `json:"isTyping,omitempty"`
}

func decodeFrame(data []byte) (inboundFrame, error) {
	var frame inboundFrame
	err := json.Unmarshal(data, &frame)
	return frame, err
}

type ackFrame struct {
	Type string `json:"type"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type readFrame struct {
	Type string `json:"type"`
}

type typingFrame struct {
	Type     string `json:"type"`
	RoomID   string `json:"roomId"`
	SenderID string `json:"senderId,omitempty"`
	IsTyping bool   `json:"isTyping"`
}

// messageFrame is the outbound message event: the payload contract plus the
// delivery status tag and its per-room version.
type messageFrame struct {
	Type          string         `json:"type"`
	Message       string         `json:"message"`
	SenderID      string         `json:"senderId"`
	ChatID        string         `json:"chatId"`
	File          *string        `json:"file,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	ReplyTo       *chat.ReplyRef `json:"replyTo,omitempty"`
	RoomID        string         `json:"roomId"`
	Status        string         `json:"status"`
	StatusVersion uint64         `json:"statusVersion"`
}

func encodeMessage(msg chat.QueuedMessage, status chat.DeliveryStatus, version uint64) ([]byte, error) {
	return json.Marshal(messageFrame{
		Type:          "message",
		Message:       msg.Content,
		SenderID:      msg.SenderID,
		ChatID:        msg.ChatID,
		File:          msg.File,
		CreatedAt:     msg.CreatedAt,
		ReplyTo:       msg.ReplyTo,
		RoomID:        msg.RoomID,
		Status:        string(status),
		StatusVersion: version,
	})
}

// newInfoMessage builds the sender-only directive emitted when the
// counterpart phone number has no registered account.
func newInfoMessage(roomID, contactName string) messageFrame {
	who := contactName
	if who == "" {
		who = "This contact"
	}
	return messageFrame{
		Type:      "message",
		Message:   who + " has not joined yet. Send an invite to start chatting.",
		SenderID:  "system",
		ChatID:    uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		RoomID:    roomID,
		Status:    string(chat.StatusSent),
	}
}

// broadcastMessage stamps the next status version for the room and fans the
// message event out to every subscriber.
func (ctl *ChatSocketController) broadcastMessage(roomID string, msg chat.QueuedMessage, status chat.DeliveryStatus) {
	payload, err := encodeMessage(msg, status, ctl.clock.next(roomID))
	if err != nil {
		return
	}
	ctl.router.Broadcast(roomID, payload)
}

func (ctl *ChatSocketController) broadcast(roomID string, frame any) {
	if payload, err := json.Marshal(frame); err == nil {
		ctl.router.Broadcast(roomID, payload)
	}
}

func (ctl *ChatSocketController) send(conn *realtime.Connection, frame any) {
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *ChatSocketController) replyError(conn *realtime.Connection, code, message string) {
	ctl.send(conn, errorFrame{Type: "error", Code: code, Error: message})
}

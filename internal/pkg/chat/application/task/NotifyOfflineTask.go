package task

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	qport "github.com/certifiedTboy/itakuroso-sub000/internal/infrastructure/queue/port"
)

// TypeNotifyOffline is the queue task name for nudging an offline recipient
// about a parked message.
const TypeNotifyOffline = "chat:notify_offline"

// NotifyOfflinePayload is the JSON payload transported via the queue. Kept
// separate from domain types to avoid coupling queue encoding to them.
type NotifyOfflinePayload struct {
	RecipientID string `json:"recipientId"`
	RoomID      string `json:"roomId"`
	ChatID      string `json:"chatId"`
	SenderID    string `json:"senderId"`
	QueueDepth  int    `json:"queueDepth"`
}

// RegisterNotifyOfflineTask binds the offline-notification handler to the
// worker server. Push delivery to offline devices is intentionally a stub:
// the handler records the intent and returns, leaving the real channel
// (APNs/FCM or similar) to a later integration.
func RegisterNotifyOfflineTask(srv qport.Server) {
	srv.Register(TypeNotifyOffline, func(ctx context.Context, t qport.Task) error {
		var p NotifyOfflinePayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// Malformed payloads are not retryable.
			return err
		}
		log.Info().
			Str("recipient", p.RecipientID).
			Str("room", p.RoomID).
			Str("chat", p.ChatID).
			Int("queueDepth", p.QueueDepth).
			Msg("offline notification (stub)")
		return nil
	})
}

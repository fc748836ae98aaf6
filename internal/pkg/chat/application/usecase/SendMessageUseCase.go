package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	qport "github.com/certifiedTboy/itakuroso-sub000/internal/infrastructure/queue/port"
	chat "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/application/domain"
	"github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/application/task"
	repository "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/persistence/repository/port"
)

// SendMessageInput carries the message event payload.
type SendMessageInput struct {
	ChatID     string
	RoomID     string
	SenderID   string
	ReceiverID string
	Content    string
	File       *string
	ReplyTo    *chat.ReplyRef
}

// SendMessageOutput reports the normalized message and its resolved
// delivery classification.
type SendMessageOutput struct {
	Message *chat.QueuedMessage
	Status  chat.DeliveryStatus
	Queued  bool
}

// SendMessageUseCase classifies an outgoing message against current
// presence and either hands it to the room broadcast (caller's job) or
// parks it in the offline queue. The durable last-message preview is
// written only after in-memory state is already consistent, so client
// retries are at-least-once safe.
type SendMessageUseCase struct {
	Registry *chat.PresenceRegistry
	Queue    *chat.OfflineQueue
	Rooms    repository.RoomRepository

	// Notifier, when present, schedules the offline push-notification
	// stub task for queued messages.
	Notifier qport.Client
}

func NewSendMessageUseCase(registry *chat.PresenceRegistry, queue *chat.OfflineQueue, rooms repository.RoomRepository) *SendMessageUseCase {
	return &SendMessageUseCase{Registry: registry, Queue: queue, Rooms: rooms}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	if in.ReceiverID == "" {
		return nil, fmt.Errorf("receiverId is required")
	}
	if in.ChatID == "" {
		in.ChatID = uuid.NewString()
	}

	msg, err := chat.NewQueuedMessage(chat.QueuedMessage{
		ChatID:   in.ChatID,
		RoomID:   in.RoomID,
		SenderID: in.SenderID,
		Content:  in.Content,
		File:     in.File,
		ReplyTo:  in.ReplyTo,
	})
	if err != nil {
		return nil, err
	}

	res := chat.ResolveDelivery(in.ReceiverID, in.RoomID, uc.Registry)
	if res.ShouldQueue {
		if err := uc.Queue.Enqueue(in.ReceiverID, *msg); err != nil {
			return nil, err
		}
		uc.scheduleOfflineNotify(ctx, in.ReceiverID, *msg)
	}

	preview := msg.Content
	if preview == "" && msg.File != nil {
		preview = "[file]"
	}
	if err := uc.Rooms.UpdateLastMessage(ctx, in.RoomID, preview); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return &SendMessageOutput{Message: msg, Status: res.Status, Queued: res.ShouldQueue}, nil
}

// scheduleOfflineNotify enqueues the push-notification stub. Best-effort:
// the recipient's backlog is already parked, so a lost task only delays the
// nudge, never the message.
func (uc *SendMessageUseCase) scheduleOfflineNotify(ctx context.Context, recipientID string, msg chat.QueuedMessage) {
	if uc.Notifier == nil {
		return
	}
	payload, err := json.Marshal(task.NotifyOfflinePayload{
		RecipientID: recipientID,
		RoomID:      msg.RoomID,
		ChatID:      msg.ChatID,
		SenderID:    msg.SenderID,
		QueueDepth:  uc.Queue.Size(recipientID),
	})
	if err != nil {
		return
	}
	_, _ = uc.Notifier.Enqueue(ctx, qport.Task{Type: task.TypeNotifyOffline, Payload: payload},
		qport.EnqueueOption{Queue: "chat", MaxRetry: 3})
}

package usecase

import (
	"context"
	"errors"
	"testing"

	chat "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/application/domain"
)

func TestSendMessageUseCase_QueuesForOfflineRecipient(t *testing.T) {
	reg := chat.NewPresenceRegistry()
	queue := chat.NewOfflineQueue(0, chat.DropOldest)
	rooms := newFakeRoomRepo()
	uc := NewSendMessageUseCase(reg, queue, rooms)
	notifier := &fakeQueueClient{}
	uc.Notifier = notifier

	// Only bob is present; alice is fully disconnected.
	reg.Join("bob", "room1", "")

	out, err := uc.Execute(context.Background(), SendMessageInput{
		RoomID:     "room1",
		SenderID:   "bob",
		ReceiverID: "alice",
		Content:    "hello",
	})
	if err != nil {
		t.Fatalf("Execute = %v", err)
	}
	if out.Status != chat.StatusSent || !out.Queued {
		t.Errorf("Status = %s, Queued = %v; want sent/queued", out.Status, out.Queued)
	}
	if got := queue.Size("alice"); got != 1 {
		t.Errorf("queue size for alice = %d, want 1", got)
	}
	if out.Message.ChatID == "" {
		t.Error("ChatID not defaulted")
	}
	if len(notifier.tasks) != 1 {
		t.Errorf("notify tasks = %d, want 1", len(notifier.tasks))
	}
	if rooms.lastMessage["room1"] != "hello" {
		t.Errorf("last message preview = %q", rooms.lastMessage["room1"])
	}
}

func TestSendMessageUseCase_DeliversToPresentRecipient(t *testing.T) {
	reg := chat.NewPresenceRegistry()
	queue := chat.NewOfflineQueue(0, chat.DropOldest)
	uc := NewSendMessageUseCase(reg, queue, newFakeRoomRepo())

	reg.Join("alice", "room1", "")
	reg.Join("bob", "room1", "")

	out, err := uc.Execute(context.Background(), SendMessageInput{
		ChatID:     "c1",
		RoomID:     "room1",
		SenderID:   "bob",
		ReceiverID: "alice",
		Content:    "hello",
	})
	if err != nil {
		t.Fatalf("Execute = %v", err)
	}
	if out.Status != chat.StatusDelivered || out.Queued {
		t.Errorf("Status = %s, Queued = %v; want delivered/not queued", out.Status, out.Queued)
	}
	if got := queue.Size("alice"); got != 0 {
		t.Errorf("queue size = %d, want 0", got)
	}
}

func TestSendMessageUseCase_DeliversToRecipientElsewhere(t *testing.T) {
	reg := chat.NewPresenceRegistry()
	uc := NewSendMessageUseCase(reg, chat.NewOfflineQueue(0, chat.DropOldest), newFakeRoomRepo())

	reg.Join("bob", "room1", "")
	reg.Join("alice", "room9", "") // online, different room view

	out, err := uc.Execute(context.Background(), SendMessageInput{
		RoomID:     "room1",
		SenderID:   "bob",
		ReceiverID: "alice",
		Content:    "hello",
	})
	if err != nil {
		t.Fatalf("Execute = %v", err)
	}
	if out.Status != chat.StatusDelivered || out.Queued {
		t.Errorf("Status = %s, Queued = %v; want delivered", out.Status, out.Queued)
	}
}

func TestSendMessageUseCase_RejectsFullBacklog(t *testing.T) {
	reg := chat.NewPresenceRegistry()
	queue := chat.NewOfflineQueue(1, chat.RejectNew)
	uc := NewSendMessageUseCase(reg, queue, newFakeRoomRepo())

	reg.Join("bob", "room1", "")

	first := SendMessageInput{RoomID: "room1", SenderID: "bob", ReceiverID: "alice", Content: "one"}
	if _, err := uc.Execute(context.Background(), first); err != nil {
		t.Fatalf("first Execute = %v", err)
	}
	_, err := uc.Execute(context.Background(), SendMessageInput{RoomID: "room1", SenderID: "bob", ReceiverID: "alice", Content: "two"})
	if !errors.Is(err, chat.ErrQueueFull) {
		t.Fatalf("Execute over cap = %v, want ErrQueueFull", err)
	}
}

func TestSendMessageUseCase_Validation(t *testing.T) {
	uc := NewSendMessageUseCase(chat.NewPresenceRegistry(), chat.NewOfflineQueue(0, chat.DropOldest), newFakeRoomRepo())

	if _, err := uc.Execute(context.Background(), SendMessageInput{RoomID: "room1", SenderID: "bob", Content: "x"}); err == nil {
		t.Error("missing receiverId must be rejected")
	}
	_, err := uc.Execute(context.Background(), SendMessageInput{RoomID: "room1", SenderID: "bob", ReceiverID: "alice"})
	if !errors.Is(err, chat.ErrEmptyMessage) {
		t.Errorf("empty payload = %v, want ErrEmptyMessage", err)
	}
}

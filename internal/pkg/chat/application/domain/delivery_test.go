package chat

import "testing"

func TestResolveDelivery(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(reg *PresenceRegistry)
		wantState DeliveryStatus
		wantQueue bool
	}{
		{
			name:      "recipient in the room",
			setup:     func(reg *PresenceRegistry) { reg.Join("alice", "room1", "") },
			wantState: StatusDelivered,
		},
		{
			name:      "recipient online in another room",
			setup:     func(reg *PresenceRegistry) { reg.Join("alice", "room2", "") },
			wantState: StatusDelivered,
		},
		{
			name:      "recipient in the online pool only",
			setup:     func(reg *PresenceRegistry) { reg.SetOnline("alice") },
			wantState: StatusDelivered,
		},
		{
			name:      "recipient fully disconnected",
			setup:     func(reg *PresenceRegistry) {},
			wantState: StatusSent,
			wantQueue: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewPresenceRegistry()
			tt.setup(reg)

			res := ResolveDelivery("alice", "room1", reg)
			if res.Status != tt.wantState {
				t.Errorf("Status = %s, want %s", res.Status, tt.wantState)
			}
			if res.ShouldQueue != tt.wantQueue {
				t.Errorf("ShouldQueue = %v, want %v", res.ShouldQueue, tt.wantQueue)
			}
		})
	}
}

func TestNewQueuedMessage(t *testing.T) {
	msg, err := NewQueuedMessage(QueuedMessage{RoomID: "room1", SenderID: "bob", Content: "  hi  "})
	if err != nil {
		t.Fatalf("NewQueuedMessage = %v", err)
	}
	if msg.Content != "hi" {
		t.Errorf("Content = %q, want trimmed", msg.Content)
	}
	if msg.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}

	if _, err := NewQueuedMessage(QueuedMessage{SenderID: "bob", Content: "hi"}); err != ErrMissingIdentity {
		t.Errorf("missing room = %v, want ErrMissingIdentity", err)
	}
	if _, err := NewQueuedMessage(QueuedMessage{RoomID: "room1", SenderID: "bob", Content: "   "}); err != ErrEmptyMessage {
		t.Errorf("blank content = %v, want ErrEmptyMessage", err)
	}

	file := "https://cdn.example.com/pic.png"
	if _, err := NewQueuedMessage(QueuedMessage{RoomID: "room1", SenderID: "bob", File: &file}); err != nil {
		t.Errorf("file-only message = %v, want ok", err)
	}
}

package chat

import "testing"

func qm(chatID string) QueuedMessage {
	return QueuedMessage{ChatID: chatID, RoomID: "room1", SenderID: "bob", Content: "hi"}
}

func TestOfflineQueue_FIFO(t *testing.T) {
	q := NewOfflineQueue(0, DropOldest)

	for _, id := range []string{"m1", "m2", "m3"} {
		if err := q.Enqueue("alice", qm(id)); err != nil {
			t.Fatalf("Enqueue(%s) = %v", id, err)
		}
	}
	if got := q.Size("alice"); got != 3 {
		t.Fatalf("Size = %d, want 3", got)
	}

	drained := q.Drain("alice")
	if len(drained) != 3 {
		t.Fatalf("Drain = %d messages, want 3", len(drained))
	}
	for i, want := range []string{"m1", "m2", "m3"} {
		if drained[i].ChatID != want {
			t.Errorf("drained[%d] = %s, want %s", i, drained[i].ChatID, want)
		}
	}

	if again := q.Drain("alice"); len(again) != 0 {
		t.Errorf("second Drain = %d messages, want 0", len(again))
	}
	if got := q.Size("alice"); got != 0 {
		t.Errorf("Size after drain = %d, want 0", got)
	}
}

func TestOfflineQueue_DrainAbsentRecipient(t *testing.T) {
	q := NewOfflineQueue(0, DropOldest)
	if got := q.Drain("nobody"); len(got) != 0 {
		t.Errorf("Drain(absent) = %d messages, want 0", len(got))
	}
	if got := q.Size("nobody"); got != 0 {
		t.Errorf("Size(absent) = %d, want 0", got)
	}
}

func TestOfflineQueue_DropOldest(t *testing.T) {
	q := NewOfflineQueue(2, DropOldest)

	for _, id := range []string{"m1", "m2", "m3"} {
		if err := q.Enqueue("alice", qm(id)); err != nil {
			t.Fatalf("Enqueue(%s) = %v", id, err)
		}
	}

	drained := q.Drain("alice")
	if len(drained) != 2 {
		t.Fatalf("Drain = %d messages, want 2", len(drained))
	}
	if drained[0].ChatID != "m2" || drained[1].ChatID != "m3" {
		t.Errorf("drained = [%s %s], want [m2 m3]", drained[0].ChatID, drained[1].ChatID)
	}
}

func TestOfflineQueue_RejectNew(t *testing.T) {
	q := NewOfflineQueue(2, RejectNew)

	_ = q.Enqueue("alice", qm("m1"))
	_ = q.Enqueue("alice", qm("m2"))
	if err := q.Enqueue("alice", qm("m3")); err != ErrQueueFull {
		t.Fatalf("Enqueue over cap = %v, want ErrQueueFull", err)
	}

	drained := q.Drain("alice")
	if len(drained) != 2 || drained[0].ChatID != "m1" {
		t.Errorf("backlog changed by rejected enqueue: %v", drained)
	}
}

func TestOfflineQueue_TotalPending(t *testing.T) {
	q := NewOfflineQueue(0, DropOldest)
	_ = q.Enqueue("alice", qm("m1"))
	_ = q.Enqueue("alice", qm("m2"))
	_ = q.Enqueue("carol", qm("m3"))

	if got := q.TotalPending(); got != 3 {
		t.Errorf("TotalPending = %d, want 3", got)
	}
	q.Drain("alice")
	if got := q.TotalPending(); got != 1 {
		t.Errorf("TotalPending after drain = %d, want 1", got)
	}
}

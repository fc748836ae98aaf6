package chat

import "testing"

func TestPresenceRegistry_JoinReplacesEntry(t *testing.T) {
	reg := NewPresenceRegistry()

	reg.Join("alice", "room1", "alice@example.com")
	reg.Join("alice", "room2", "alice@example.com")
	reg.Join("alice", "room3", "alice@example.com")

	if got := reg.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1 entry per user", got)
	}
	entry, ok := reg.Find("alice")
	if !ok {
		t.Fatal("Find(alice) not found after join")
	}
	if entry.RoomID != "room3" {
		t.Errorf("RoomID = %q, want most recent room3", entry.RoomID)
	}
}

func TestPresenceRegistry_UsersInRoom(t *testing.T) {
	reg := NewPresenceRegistry()
	reg.Join("alice", "room1", "")
	reg.Join("bob", "room1", "")
	reg.Join("carol", "room2", "")

	occupants := reg.UsersInRoom("room1")
	if len(occupants) != 2 {
		t.Fatalf("UsersInRoom(room1) = %d occupants, want 2", len(occupants))
	}
	for _, e := range occupants {
		if e.RoomID != "room1" {
			t.Errorf("occupant %s has RoomID %q", e.UserID, e.RoomID)
		}
	}

	if got := reg.UsersInRoom("empty"); len(got) != 0 {
		t.Errorf("UsersInRoom(empty) = %d, want 0", len(got))
	}
}

func TestPresenceRegistry_Leave(t *testing.T) {
	reg := NewPresenceRegistry()
	reg.Join("alice", "room1", "")

	entry, ok := reg.Leave("alice")
	if !ok || entry.UserID != "alice" {
		t.Fatalf("Leave(alice) = %+v, %v", entry, ok)
	}
	if _, ok := reg.Find("alice"); ok {
		t.Error("entry still present after Leave")
	}
	if _, ok := reg.Leave("alice"); ok {
		t.Error("second Leave should be a no-op")
	}
}

func TestPresenceRegistry_OnlinePool(t *testing.T) {
	reg := NewPresenceRegistry()

	if reg.IsOnline("alice") {
		t.Fatal("IsOnline true for unknown user")
	}

	reg.SetOnline("alice")
	if !reg.IsOnline("alice") {
		t.Error("IsOnline false after SetOnline")
	}
	if _, ok := reg.Find("alice"); ok {
		t.Error("online pool must not create a room entry")
	}

	reg.SetOffline("alice")
	if reg.IsOnline("alice") {
		t.Error("IsOnline true after SetOffline")
	}

	// A room entry alone also counts as online.
	reg.Join("bob", "room1", "")
	if !reg.IsOnline("bob") {
		t.Error("IsOnline false for a user with a room entry")
	}

	// SetOffline leaves room entries alone.
	reg.SetOffline("bob")
	if _, ok := reg.Find("bob"); !ok {
		t.Error("SetOffline must not remove the room entry")
	}
}

func TestPresenceRegistry_Reset(t *testing.T) {
	reg := NewPresenceRegistry()
	reg.Join("alice", "room1", "")
	reg.SetOnline("bob")

	reg.Reset()

	if reg.Len() != 0 || reg.IsOnline("bob") {
		t.Error("Reset left state behind")
	}
}

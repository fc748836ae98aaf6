package repository

import (
	"context"
	"errors"

	chat "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/application/domain"
)

// ErrRoomNotFound signals a missing durable room record in a typed way so
// callers can branch into lazy creation.
var ErrRoomNotFound = errors.New("repository: room not found")

// RoomRepository defines the durable-store operations the gateway consults
// for room membership. The store is an external collaborator with
// eventual-consistency semantics: callers must tolerate transient failures
// and Create must be safe to retry (the store enforces roomId uniqueness).
type RoomRepository interface {
	// FindByRoomID returns the room or ErrRoomNotFound.
	FindByRoomID(ctx context.Context, roomID string) (*chat.Room, error)

	// Create inserts the room record. Creating an already-existing roomID
	// is a no-op, not an error, so at-least-once retries never produce
	// duplicates.
	Create(ctx context.Context, room chat.Room) error

	// UpdateLastMessage records the latest message preview on the room.
	UpdateLastMessage(ctx context.Context, roomID string, lastMessage string) error

	// MarkRead flips the durable read flag for the room's last message.
	MarkRead(ctx context.Context, roomID string) error
}

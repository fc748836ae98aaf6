package usecase

import (
	"context"
	"fmt"

	repository "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/persistence/repository/port"
)

// MarkRoomReadUseCase persists the read receipt for a room's last message.
// The gateway broadcasts the read event regardless of presence; this use
// case only owns the durable side.
type MarkRoomReadUseCase struct {
	Rooms repository.RoomRepository
}

func NewMarkRoomReadUseCase(rooms repository.RoomRepository) *MarkRoomReadUseCase {
	return &MarkRoomReadUseCase{Rooms: rooms}
}

func (uc *MarkRoomReadUseCase) Execute(ctx context.Context, roomID string) error {
	if roomID == "" {
		return fmt.Errorf("roomId is required")
	}
	if err := uc.Rooms.MarkRead(ctx, roomID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

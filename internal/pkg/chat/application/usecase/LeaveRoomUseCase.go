package usecase

import (
	"context"
	"fmt"

	chat "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/application/domain"
)

// LeaveRoomUseCase drops the caller's room presence entry. Leaving without
// an entry is a no-op, not an error.
type LeaveRoomUseCase struct {
	Registry *chat.PresenceRegistry
}

func NewLeaveRoomUseCase(registry *chat.PresenceRegistry) *LeaveRoomUseCase {
	return &LeaveRoomUseCase{Registry: registry}
}

func (uc *LeaveRoomUseCase) Execute(_ context.Context, userPhone string) (chat.PresenceEntry, bool, error) {
	if userPhone == "" {
		return chat.PresenceEntry{}, false, fmt.Errorf("currentUserId.phoneNumber is required")
	}
	entry, ok := uc.Registry.Leave(userPhone)
	return entry, ok, nil
}

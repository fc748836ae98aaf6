package usecase

import (
	"context"
	"fmt"

	chat "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/application/domain"
	repository "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/persistence/repository/port"
)

// SetUserOfflineInput carries the userOffline event payload.
type SetUserOfflineInput struct {
	UserID      string
	PhoneNumber string
}

// SetUserOfflineUseCase removes a user from the online pool and mirrors the
// change to the durable flag. Room presence entries are untouched; only an
// explicit leaveRoom clears those.
type SetUserOfflineUseCase struct {
	Registry *chat.PresenceRegistry
	Users    repository.UserRepository
}

func NewSetUserOfflineUseCase(registry *chat.PresenceRegistry, users repository.UserRepository) *SetUserOfflineUseCase {
	return &SetUserOfflineUseCase{Registry: registry, Users: users}
}

func (uc *SetUserOfflineUseCase) Execute(ctx context.Context, in SetUserOfflineInput) error {
	if in.PhoneNumber == "" {
		return fmt.Errorf("phoneNumber is required")
	}

	uc.Registry.SetOffline(in.PhoneNumber)

	if in.UserID != "" {
		if err := uc.Users.SetOffline(ctx, in.UserID); err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	return nil
}

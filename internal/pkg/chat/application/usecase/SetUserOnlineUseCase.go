package usecase

import (
	"context"
	"fmt"

	chat "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/application/domain"
	repository "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/persistence/repository/port"
)

// SetUserOnlineInput carries the userOnline event payload.
type SetUserOnlineInput struct {
	UserID      string // durable store id ("_id" on the wire)
	PhoneNumber string
	Email       string
}

// SetUserOnlineOutput hands back the drained backlog for replay, in the
// exact order the messages were enqueued.
type SetUserOnlineOutput struct {
	Drained []chat.QueuedMessage
}

// SetUserOnlineUseCase marks a user reachable: online pool first, then the
// durable flag, then a single atomic drain of the offline backlog. Presence
// is re-validated after the durable call because the user may have dropped
// again while it was in flight; in that case the backlog stays parked for
// the next reconnect.
type SetUserOnlineUseCase struct {
	Registry *chat.PresenceRegistry
	Queue    *chat.OfflineQueue
	Users    repository.UserRepository
}

func NewSetUserOnlineUseCase(registry *chat.PresenceRegistry, queue *chat.OfflineQueue, users repository.UserRepository) *SetUserOnlineUseCase {
	return &SetUserOnlineUseCase{Registry: registry, Queue: queue, Users: users}
}

func (uc *SetUserOnlineUseCase) Execute(ctx context.Context, in SetUserOnlineInput) (*SetUserOnlineOutput, error) {
	if in.PhoneNumber == "" {
		return nil, fmt.Errorf("phoneNumber is required")
	}

	uc.Registry.SetOnline(in.PhoneNumber)

	if in.UserID != "" {
		if err := uc.Users.SetOnline(ctx, in.UserID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	if !uc.Registry.IsOnline(in.PhoneNumber) {
		return &SetUserOnlineOutput{}, nil
	}
	return &SetUserOnlineOutput{Drained: uc.Queue.Drain(in.PhoneNumber)}, nil
}

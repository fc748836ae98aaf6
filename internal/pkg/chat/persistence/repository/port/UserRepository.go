package repository

import (
	"context"
	"errors"

	chat "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/application/domain"
)

// ErrUserNotFound signals that no account matches the lookup key. The
// gateway treats this as an expected branch (unregistered counterpart),
// never as a failure.
var ErrUserNotFound = errors.New("repository: user not found")

// UserRepository is the account-lookup collaborator: existence checks by
// phone or email plus the durable online flag the presence events mirror.
type UserRepository interface {
	FindByPhone(ctx context.Context, phoneNumber string) (*chat.User, error)
	FindByEmail(ctx context.Context, email string) (*chat.User, error)

	// SetOnline / SetOffline persist the coarse online flag keyed by the
	// store id carried in the userOnline/userOffline events.
	SetOnline(ctx context.Context, userID string) error
	SetOffline(ctx context.Context, userID string) error
}

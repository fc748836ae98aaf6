package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	cacheport "github.com/certifiedTboy/itakuroso-sub000/internal/infrastructure/cache/port"
	chat "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/application/domain"
	repository "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/persistence/repository/port"
)

// JoinRoomInput carries the joinRoom event payload: the counterpart the
// caller wants to talk to and the caller's own identity.
type JoinRoomInput struct {
	RoomID           string
	CounterpartPhone string
	CounterpartName  string
	UserPhone        string
	UserEmail        string
}

// JoinRoomOutput reports the registered presence entry, the resolved (or
// lazily created) durable room and the counterpart account.
type JoinRoomOutput struct {
	Entry       chat.PresenceEntry
	Room        *chat.Room
	Counterpart *chat.User
}

// JoinRoomUseCase registers room presence, confirms the two parties are
// mutually known and resolves the durable room, creating it on first
// contact. An unregistered counterpart is an expected branch, surfaced as
// chat.ErrCounterpartNotFound so the gateway can reply with an
// informational message instead of an error.
type JoinRoomUseCase struct {
	Registry *chat.PresenceRegistry
	Users    repository.UserRepository
	Rooms    repository.RoomRepository

	// Cache, when present, short-circuits repeated counterpart lookups.
	Cache    cacheport.Cache
	CacheTTL time.Duration
}

func NewJoinRoomUseCase(registry *chat.PresenceRegistry, users repository.UserRepository, rooms repository.RoomRepository) *JoinRoomUseCase {
	return &JoinRoomUseCase{Registry: registry, Users: users, Rooms: rooms}
}

func (uc *JoinRoomUseCase) Execute(ctx context.Context, in JoinRoomInput) (*JoinRoomOutput, error) {
	if in.RoomID == "" || in.UserPhone == "" || in.CounterpartPhone == "" {
		return nil, fmt.Errorf("roomId, currentUserId.phoneNumber and userId.phoneNumber are required")
	}

	// Presence first: the caller occupies the room view regardless of what
	// the durable store says about the counterpart.
	entry := uc.Registry.Join(in.UserPhone, in.RoomID, in.UserEmail)

	counterpart, err := uc.lookupCounterpart(ctx, in.CounterpartPhone)
	if err != nil {
		return nil, err
	}

	room, err := uc.Rooms.FindByRoomID(ctx, in.RoomID)
	switch {
	case errors.Is(err, repository.ErrRoomNotFound):
		created := chat.Room{
			RoomID:    in.RoomID,
			MemberA:   in.UserPhone,
			MemberB:   counterpart.PhoneNumber,
			RoomName:  in.CounterpartName,
			CreatedAt: time.Now().UTC(),
		}
		// The store enforces room_id uniqueness; a concurrent create is a
		// no-op, never a duplicate.
		if err := uc.Rooms.Create(ctx, created); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		room = &created
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return &JoinRoomOutput{Entry: entry, Room: room, Counterpart: counterpart}, nil
}

func (uc *JoinRoomUseCase) lookupCounterpart(ctx context.Context, phone string) (*chat.User, error) {
	cacheKey := "chat:user:phone:" + phone

	if uc.Cache != nil {
		if raw, err := uc.Cache.Get(ctx, cacheKey); err == nil {
			var user chat.User
			if json.Unmarshal([]byte(raw), &user) == nil {
				return &user, nil
			}
		}
	}

	user, err := uc.Users.FindByPhone(ctx, phone)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, chat.ErrCounterpartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Cache != nil {
		if raw, err := json.Marshal(user); err == nil {
			// Best-effort; a failed cache write never fails the join.
			_ = uc.Cache.Set(ctx, cacheKey, string(raw), uc.CacheTTL)
		}
	}
	return user, nil
}

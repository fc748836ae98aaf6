package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/application/domain"
	repository "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/persistence/repository/port"
)

// PgUserRepository serves account lookups and the durable online flag from
// the chat.app_user table.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

var _ repository.UserRepository = (*PgUserRepository)(nil)

func (r *PgUserRepository) FindByPhone(ctx context.Context, phoneNumber string) (*chat.User, error) {
	return r.findBy(ctx, "phone_number", phoneNumber)
}

func (r *PgUserRepository) FindByEmail(ctx context.Context, email string) (*chat.User, error) {
	return r.findBy(ctx, "email", email)
}

func (r *PgUserRepository) findBy(ctx context.Context, column, value string) (*chat.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	var user chat.User
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, phone_number, COALESCE(email, ''), is_online
		FROM chat.app_user
		WHERE `+column+` = $1
	`, value).Scan(&user.ID, &user.PhoneNumber, &user.Email, &user.IsOnline)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PgUserRepository) SetOnline(ctx context.Context, userID string) error {
	return r.setOnlineFlag(ctx, userID, true)
}

func (r *PgUserRepository) SetOffline(ctx context.Context, userID string) error {
	return r.setOnlineFlag(ctx, userID, false)
}

func (r *PgUserRepository) setOnlineFlag(ctx context.Context, userID string, online bool) error {
	if r == nil || r.pool == nil {
		return errors.New("PgUserRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.app_user
		SET is_online = $2, last_seen_at = NOW()
		WHERE id = $1::uuid
	`, userID, online)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/application/domain"
	repository "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/persistence/repository/port"
)

// PgRoomRepository persists room records in Postgres. The chat.room table
// carries a unique constraint on room_id; Create leans on it for
// at-least-once safety.
type PgRoomRepository struct {
	pool *pgxpool.Pool
}

func NewPgRoomRepository(pool *pgxpool.Pool) *PgRoomRepository {
	return &PgRoomRepository{pool: pool}
}

var _ repository.RoomRepository = (*PgRoomRepository)(nil)

func (r *PgRoomRepository) FindByRoomID(ctx context.Context, roomID string) (*chat.Room, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgRoomRepository: nil pool")
	}
	var room chat.Room
	err := r.pool.QueryRow(ctx, `
		SELECT room_id, member_a, member_b, COALESCE(last_message, ''), COALESCE(room_name, ''), COALESCE(room_image, ''), created_at
		FROM chat.room
		WHERE room_id = $1
	`, roomID).Scan(&room.RoomID, &room.MemberA, &room.MemberB, &room.LastMessage, &room.RoomName, &room.RoomImage, &room.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *PgRoomRepository) Create(ctx context.Context, room chat.Room) error {
	if r == nil || r.pool == nil {
		return errors.New("PgRoomRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat.room (room_id, member_a, member_b, room_name, room_image, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6)
		ON CONFLICT (room_id) DO NOTHING
	`, room.RoomID, room.MemberA, room.MemberB, room.RoomName, room.RoomImage, room.CreatedAt)
	return err
}

func (r *PgRoomRepository) UpdateLastMessage(ctx context.Context, roomID string, lastMessage string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgRoomRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.room
		SET last_message = $2, last_message_read = FALSE
		WHERE room_id = $1
	`, roomID, lastMessage)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrRoomNotFound
	}
	return nil
}

func (r *PgRoomRepository) MarkRead(ctx context.Context, roomID string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgRoomRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.room
		SET last_message_read = TRUE
		WHERE room_id = $1
	`, roomID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrRoomNotFound
	}
	return nil
}

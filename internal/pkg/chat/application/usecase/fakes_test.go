package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	cacheport "github.com/certifiedTboy/itakuroso-sub000/internal/infrastructure/cache/port"
	qport "github.com/certifiedTboy/itakuroso-sub000/internal/infrastructure/queue/port"
	chat "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/application/domain"
	repository "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/persistence/repository/port"
)

type fakeUserRepo struct {
	byPhone    map[string]chat.User
	phoneCalls int
	online     map[string]bool
	failWrites bool
}

func newFakeUserRepo(users ...chat.User) *fakeUserRepo {
	r := &fakeUserRepo{byPhone: make(map[string]chat.User), online: make(map[string]bool)}
	for _, u := range users {
		r.byPhone[u.PhoneNumber] = u
	}
	return r
}

func (r *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*chat.User, error) {
	r.phoneCalls++
	u, ok := r.byPhone[phone]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*chat.User, error) {
	for _, u := range r.byPhone {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) SetOnline(_ context.Context, id string) error {
	if r.failWrites {
		return errors.New("store down")
	}
	r.online[id] = true
	return nil
}

func (r *fakeUserRepo) SetOffline(_ context.Context, id string) error {
	if r.failWrites {
		return errors.New("store down")
	}
	r.online[id] = false
	return nil
}

type fakeRoomRepo struct {
	mu          sync.Mutex
	rooms       map[string]chat.Room
	createCalls int
	lastMessage map[string]string
	readRooms   map[string]bool
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{
		rooms:       make(map[string]chat.Room),
		lastMessage: make(map[string]string),
		readRooms:   make(map[string]bool),
	}
}

func (r *fakeRoomRepo) FindByRoomID(_ context.Context, roomID string) (*chat.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	return &room, nil
}

func (r *fakeRoomRepo) Create(_ context.Context, room chat.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	// room_id is unique in the store; repeated creates are no-ops.
	if _, exists := r.rooms[room.RoomID]; !exists {
		r.rooms[room.RoomID] = room
	}
	return nil
}

func (r *fakeRoomRepo) UpdateLastMessage(_ context.Context, roomID, lastMessage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastMessage[roomID] = lastMessage
	return nil
}

func (r *fakeRoomRepo) MarkRead(_ context.Context, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readRooms[roomID] = true
	return nil
}

func (r *fakeRoomRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache { return &fakeCache{data: make(map[string]string)} }

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", cacheport.ErrMiss
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) Close() error { return nil }

type fakeQueueClient struct {
	mu    sync.Mutex
	tasks []qport.Task
}

func (c *fakeQueueClient) Enqueue(_ context.Context, t qport.Task, _ ...qport.EnqueueOption) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = append(c.tasks, t)
	return "task-1", nil
}

func (c *fakeQueueClient) Close() error { return nil }

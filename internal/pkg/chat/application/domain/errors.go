package chat

import "errors"

// Domain-level errors for chat coordination behaviors
var (
	ErrMissingIdentity     = errors.New("chat: roomId and senderId are required")
	ErrEmptyMessage        = errors.New("chat: empty message (no content or file)")
	ErrNotInRoom           = errors.New("chat: sender has not joined a room")
	ErrCounterpartNotFound = errors.New("chat: counterpart phone number has no account")
	ErrQueueFull           = errors.New("chat: offline queue is full for this recipient")
)

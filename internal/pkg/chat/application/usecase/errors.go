package usecase

import "fmt"

// ErrPersistence indicates an infrastructure/collaborator failure inside a
// use case. In-memory presence and queue state is always left consistent
// before durable calls are attempted, so callers may safely retry.
var ErrPersistence = fmt.Errorf("chat use case persistence error")

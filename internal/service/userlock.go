package service

import (
	"sync"

	"github.com/google/uuid"
)

// UserLocks serializes the engine's per-user unit of work within this
// process. Two concurrent awards for the same user run one after the other,
// so "read total, add, write total" never interleaves; across processes the
// ledger's unique idempotency index is the backstop.
type UserLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *UserLocks) Lock(userID uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

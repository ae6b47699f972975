package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Ry3n-Huang/SimpleMicroservices/internal/model"
)

// Store holds users and todos in memory.
// The zero value is not usable; construct with New.
type Store struct {
	mu sync.RWMutex

	users     map[uuid.UUID]model.User
	userOrder []uuid.UUID

	todos     map[uuid.UUID]model.Todo
	todoOrder []uuid.UUID
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		users: make(map[uuid.UUID]model.User),
		todos: make(map[uuid.UUID]model.Todo),
	}
}

// Ping satisfies the readiness checker. An in-memory store is always reachable.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// window returns the [offset, offset+limit) bounds clamped to n.
func window(n, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}
	if offset >= n {
		return n, n
	}
	end := offset + limit
	if end > n || end < offset {
		end = n
	}
	return offset, end
}

// removeID deletes the first occurrence of id from order, preserving order.
func removeID(order []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}

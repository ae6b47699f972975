package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/Ry3n-Huang/SimpleMicroservices/internal/model"
)

// InsertUser stores u and returns the stored copy.
// A nil ID is replaced with a fresh UUID and a zero CreatedAt with the current UTC time.
func (s *Store) InsertUser(u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return model.User{}, ErrEmailExists
		}
	}

	if u.ID == uuid.Nil {
		u.ID = s.newUserID()
	} else if _, ok := s.users[u.ID]; ok {
		return model.User{}, ErrUserExists
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	s.users[u.ID] = u
	s.userOrder = append(s.userOrder, u.ID)

	return u, nil
}

// GetUser retrieves a user by id.
func (s *Store) GetUser(id uuid.UUID) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return u, nil
}

// ListUsers returns users in insertion order, sliced to [offset, offset+limit).
// An offset past the end yields an empty slice.
func (s *Store) ListUsers(limit, offset int) []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start, end := window(len(s.userOrder), limit, offset)
	result := make([]model.User, 0, end-start)
	for _, id := range s.userOrder[start:end] {
		result = append(result, s.users[id])
	}
	return result
}

// CountUsers returns the number of stored users.
func (s *Store) CountUsers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// DeleteUser removes a user and every todo it owns.
// It returns the number of todos removed by the cascade.
func (s *Store) DeleteUser(id uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return 0, ErrUserNotFound
	}

	kept := s.todoOrder[:0]
	cascaded := 0
	for _, todoID := range s.todoOrder {
		if s.todos[todoID].OwnerID == id {
			delete(s.todos, todoID)
			cascaded++
			continue
		}
		kept = append(kept, todoID)
	}
	s.todoOrder = kept

	delete(s.users, id)
	s.userOrder = removeID(s.userOrder, id)

	return cascaded, nil
}

// newUserID returns a random UUID not yet used by any user. Caller holds the lock.
func (s *Store) newUserID() uuid.UUID {
	for {
		id := uuid.New()
		if _, taken := s.users[id]; !taken {
			return id
		}
	}
}

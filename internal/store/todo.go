package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/Ry3n-Huang/SimpleMicroservices/internal/model"
)

// TodoFilter narrows ListTodos. A nil OwnerID matches every todo.
type TodoFilter struct {
	OwnerID *uuid.UUID
}

func (f TodoFilter) matches(t model.Todo) bool {
	return f.OwnerID == nil || t.OwnerID == *f.OwnerID
}

// InsertTodo stores t and returns the stored copy.
// The owner must be a live user at the moment of insertion.
// A nil ID is replaced with a fresh UUID, an empty Priority with normal,
// and a zero CreatedAt with the current UTC time.
func (s *Store) InsertTodo(t model.Todo) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[t.OwnerID]; !ok {
		return model.Todo{}, ErrOwnerNotFound
	}

	if t.ID == uuid.Nil {
		t.ID = s.newTodoID()
	} else if _, ok := s.todos[t.ID]; ok {
		return model.Todo{}, ErrTodoExists
	}
	if t.Priority == "" {
		t.Priority = model.PriorityNormal
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	t = t.Clone()
	s.todos[t.ID] = t
	s.todoOrder = append(s.todoOrder, t.ID)

	return t.Clone(), nil
}

// GetTodo retrieves a todo by id.
func (s *Store) GetTodo(id uuid.UUID) (model.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.todos[id]
	if !ok {
		return model.Todo{}, ErrTodoNotFound
	}
	return t.Clone(), nil
}

// ListTodos returns todos in insertion order. The filter is applied
// before slicing to [offset, offset+limit).
func (s *Store) ListTodos(limit, offset int, filter TodoFilter) []model.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listTodos(limit, offset, filter)
}

// listTodos does the filtering and slicing. Caller holds the lock.
func (s *Store) listTodos(limit, offset int, filter TodoFilter) []model.Todo {
	matched := make([]model.Todo, 0)
	for _, id := range s.todoOrder {
		if t := s.todos[id]; filter.matches(t) {
			matched = append(matched, t)
		}
	}

	start, end := window(len(matched), limit, offset)
	result := make([]model.Todo, 0, end-start)
	for _, t := range matched[start:end] {
		result = append(result, t.Clone())
	}
	return result
}

// ListOwnedTodos lists the todos of one user, failing with ErrUserNotFound
// when the user does not exist even if it would own nothing.
func (s *Store) ListOwnedTodos(owner uuid.UUID, limit, offset int) ([]model.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.users[owner]; !ok {
		return nil, ErrUserNotFound
	}
	return s.listTodos(limit, offset, TodoFilter{OwnerID: &owner}), nil
}

// CountTodos returns the number of stored todos.
func (s *Store) CountTodos() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.todos)
}

// UpdateTodo applies the non-nil fields of patch and returns the updated todo.
func (s *Store) UpdateTodo(id uuid.UUID, patch model.TodoPatch) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.todos[id]
	if !ok {
		return model.Todo{}, ErrTodoNotFound
	}

	t = patch.Apply(t)
	s.todos[id] = t

	return t.Clone(), nil
}

// DeleteTodo removes a todo.
func (s *Store) DeleteTodo(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[id]; !ok {
		return ErrTodoNotFound
	}

	delete(s.todos, id)
	s.todoOrder = removeID(s.todoOrder, id)

	return nil
}

// newTodoID returns a random UUID not yet used by any todo. Caller holds the lock.
func (s *Store) newTodoID() uuid.UUID {
	for {
		id := uuid.New()
		if _, taken := s.todos[id]; !taken {
			return id
		}
	}
}

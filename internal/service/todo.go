package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Ry3n-Huang/SimpleMicroservices/internal/metrics"
	"github.com/Ry3n-Huang/SimpleMicroservices/internal/model"
	"github.com/Ry3n-Huang/SimpleMicroservices/internal/store"
	"github.com/Ry3n-Huang/SimpleMicroservices/internal/validation"
)

// TodoService handles todo business logic.
type TodoService struct {
	store   *store.Store
	metrics metrics.Recorder
}

// NewTodoService creates a new TodoService.
func NewTodoService(s *store.Store, recorder metrics.Recorder) *TodoService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TodoService{
		store:   s,
		metrics: recorder,
	}
}

// CreateTodoInput defines input for creating a todo.
type CreateTodoInput struct {
	ID        *uuid.UUID      `json:"id"`
	OwnerID   uuid.UUID       `json:"owner_id" validate:"required"`
	Title     string          `json:"title" validate:"min=1,max=120"`
	Completed bool            `json:"completed"`
	Priority  *model.Priority `json:"priority" validate:"omitnil,oneof=low normal high"`
	DueDate   *time.Time      `json:"due_date"`
	CreatedAt *time.Time      `json:"created_at"`
}

// CreateTodo validates input, checks the owner, and stores a new todo.
func (s *TodoService) CreateTodo(ctx context.Context, input CreateTodoInput) (*model.Todo, error) {
	if err := validation.Struct(input); err != nil {
		s.metrics.IncValidationFailed()
		return nil, err
	}

	todo := model.Todo{
		OwnerID:   input.OwnerID,
		Title:     input.Title,
		Completed: input.Completed,
		Priority:  model.PriorityNormal,
	}
	if input.ID != nil {
		todo.ID = *input.ID
	}
	if input.Priority != nil {
		todo.Priority = *input.Priority
	}
	if input.DueDate != nil {
		due := input.DueDate.UTC()
		todo.DueDate = &due
	}
	if input.CreatedAt != nil {
		todo.CreatedAt = input.CreatedAt.UTC()
	}

	created, err := s.store.InsertTodo(todo)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrOwnerNotFound):
			return nil, ErrOwnerNotFound
		case errors.Is(err, store.ErrTodoExists):
			return nil, ErrIDExists
		default:
			return nil, fmt.Errorf("failed to create todo: %w", err)
		}
	}

	s.metrics.IncTodoCreated()

	return &created, nil
}

// GetTodo retrieves a todo by ID.
func (s *TodoService) GetTodo(ctx context.Context, id uuid.UUID) (*model.Todo, error) {
	todo, err := s.store.GetTodo(id)
	if err != nil {
		if errors.Is(err, store.ErrTodoNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return &todo, nil
}

// ListTodosInput defines input for listing todos.
type ListTodosInput struct {
	Page
	OwnerID *uuid.UUID
}

// ListTodos returns a window of todos, optionally restricted to one owner.
// An owner that does not exist yields an empty list.
func (s *TodoService) ListTodos(ctx context.Context, input ListTodosInput) ([]model.Todo, error) {
	if err := validation.Struct(input.Page); err != nil {
		s.metrics.IncValidationFailed()
		return nil, err
	}
	page := input.Page.bounded()
	filter := store.TodoFilter{OwnerID: input.OwnerID}
	return s.store.ListTodos(page.Limit, page.Offset, filter), nil
}

// ListUserTodos returns a window of one user's todos.
// It fails with ErrUserNotFound when the user is absent, even if nothing would be listed.
func (s *TodoService) ListUserTodos(ctx context.Context, userID uuid.UUID, page Page) ([]model.Todo, error) {
	if err := validation.Struct(page); err != nil {
		s.metrics.IncValidationFailed()
		return nil, err
	}
	page = page.bounded()

	todos, err := s.store.ListOwnedTodos(userID, page.Limit, page.Offset)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return todos, nil
}

// UpdateTodoInput defines a partial update. Nil fields are left unchanged.
type UpdateTodoInput struct {
	ID        uuid.UUID       `json:"-"`
	Title     *string         `json:"title" validate:"omitnil,min=1,max=120"`
	Completed *bool           `json:"completed"`
	Priority  *model.Priority `json:"priority" validate:"omitnil,oneof=low normal high"`
}

// UpdateTodo applies a partial update to a todo.
func (s *TodoService) UpdateTodo(ctx context.Context, input UpdateTodoInput) (*model.Todo, error) {
	if err := validation.Struct(input); err != nil {
		s.metrics.IncValidationFailed()
		return nil, err
	}

	patch := model.TodoPatch{
		Title:     input.Title,
		Completed: input.Completed,
		Priority:  input.Priority,
	}

	todo, err := s.store.UpdateTodo(input.ID, patch)
	if err != nil {
		if errors.Is(err, store.ErrTodoNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}

	// An empty patch is a read; it does not count as an update.
	if !patch.IsEmpty() {
		s.metrics.IncTodoUpdated()
	}

	return &todo, nil
}

// DeleteTodo removes a todo.
func (s *TodoService) DeleteTodo(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteTodo(id); err != nil {
		if errors.Is(err, store.ErrTodoNotFound) {
			return ErrTodoNotFound
		}
		return err
	}

	s.metrics.IncTodoDeleted()

	return nil
}

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

// UserService handles user business logic.
type UserService struct {
	store   *store.Store
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(s *store.Store, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		store:   s,
		metrics: recorder,
	}
}

// CreateUserInput defines input for creating a user.
// ID and CreatedAt are optional; the store fills them when absent.
type CreateUserInput struct {
	ID        *uuid.UUID `json:"id"`
	Email     string     `json:"email" validate:"required,email"`
	Name      string     `json:"name" validate:"min=1,max=80"`
	CreatedAt *time.Time `json:"created_at"`
}

// CreateUser validates input and stores a new user.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	if err := validation.Struct(input); err != nil {
		s.metrics.IncValidationFailed()
		return nil, err
	}

	user := model.User{
		Email: input.Email,
		Name:  input.Name,
	}
	if input.ID != nil {
		user.ID = *input.ID
	}
	if input.CreatedAt != nil {
		user.CreatedAt = input.CreatedAt.UTC()
	}

	created, err := s.store.InsertUser(user)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrEmailExists):
			return nil, ErrEmailExists
		case errors.Is(err, store.ErrUserExists):
			return nil, ErrIDExists
		default:
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	s.metrics.IncUserCreated()

	return &created, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.store.GetUser(id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns a window of users in creation order.
func (s *UserService) ListUsers(ctx context.Context, page Page) ([]model.User, error) {
	if err := validation.Struct(page); err != nil {
		s.metrics.IncValidationFailed()
		return nil, err
	}
	page = page.bounded()
	return s.store.ListUsers(page.Limit, page.Offset), nil
}

// DeleteUser removes a user and all of its todos.
// It returns the number of todos removed alongside the user.
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) (int, error) {
	cascaded, err := s.store.DeleteUser(id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	s.metrics.IncUserDeleted()
	s.metrics.AddTodosCascaded(cascaded)

	return cascaded, nil
}

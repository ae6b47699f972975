// Package service provides business logic for the application.
package service

import (
	"errors"

	"github.com/Ry3n-Huang/SimpleMicroservices/internal/validation"
)

// Service errors.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrTodoNotFound  = errors.New("todo not found")
	ErrEmailExists   = errors.New("email already exists")
	ErrIDExists      = errors.New("id already exists")
	ErrOwnerNotFound = errors.New("owner_id does not reference an existing user")
)

const (
	// DefaultListLimit applies when a list request omits limit.
	DefaultListLimit = 50
	// MaxListLimit caps a single page. Larger limits are served as MaxListLimit.
	MaxListLimit = 1000
)

// Page selects a window of a list in insertion order.
type Page struct {
	Limit  int `json:"limit" validate:"gte=0"`
	Offset int `json:"offset" validate:"gte=0"`
}

// DefaultPage returns the page used when no query parameters are given.
func DefaultPage() Page {
	return Page{Limit: DefaultListLimit}
}

// bounded caps Limit at MaxListLimit.
func (p Page) bounded() Page {
	if p.Limit > MaxListLimit {
		p.Limit = MaxListLimit
	}
	return p
}

// IsValidationError reports whether err is a field-level input failure.
func IsValidationError(err error) bool {
	var verr *validation.Error
	return errors.As(err, &verr)
}

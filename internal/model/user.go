// Package model defines domain entities for the application.
package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a record owner. Users are immutable after creation.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

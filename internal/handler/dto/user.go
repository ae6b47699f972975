package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/Ry3n-Huang/SimpleMicroservices/internal/model"
)

// CreateUserRequest represents the request body for creating a user.
// id and created_at are accepted so a serialized user can be posted back.
type CreateUserRequest struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	CreatedAt *Timestamp `json:"created_at,omitempty"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.UTC(),
	}
}

// ToUserListResponse converts users to a JSON array, never null.
func ToUserListResponse(users []model.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = *ToUserResponse(&users[i])
	}
	return out
}

package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/Ry3n-Huang/SimpleMicroservices/internal/model"
)

// CreateTodoRequest represents the request body for creating a todo.
// completed and priority may be left out but not sent as null.
type CreateTodoRequest struct {
	ID        *uuid.UUID               `json:"id,omitempty"`
	OwnerID   uuid.UUID                `json:"owner_id"`
	Title     string                   `json:"title"`
	Completed Optional[bool]           `json:"completed"`
	Priority  Optional[model.Priority] `json:"priority"`
	DueDate   *Timestamp               `json:"due_date,omitempty"`
	CreatedAt *Timestamp               `json:"created_at,omitempty"`
}

// NullFields lists the non-nullable keys that were sent as JSON null.
func (r *CreateTodoRequest) NullFields() []string {
	var fields []string
	if r.Completed.Null {
		fields = append(fields, "completed")
	}
	if r.Priority.Null {
		fields = append(fields, "priority")
	}
	return fields
}

// UpdateTodoRequest represents a partial update. Keys left out of the body
// are not applied; explicit nulls are rejected by the handler.
type UpdateTodoRequest struct {
	Title     Optional[string]         `json:"title"`
	Completed Optional[bool]           `json:"completed"`
	Priority  Optional[model.Priority] `json:"priority"`
}

// NullFields lists the keys that were sent as JSON null.
func (r *UpdateTodoRequest) NullFields() []string {
	var fields []string
	if r.Title.Null {
		fields = append(fields, "title")
	}
	if r.Completed.Null {
		fields = append(fields, "completed")
	}
	if r.Priority.Null {
		fields = append(fields, "priority")
	}
	return fields
}

// TodoResponse represents a todo in API responses.
type TodoResponse struct {
	ID        uuid.UUID      `json:"id"`
	OwnerID   uuid.UUID      `json:"owner_id"`
	Title     string         `json:"title"`
	Completed bool           `json:"completed"`
	Priority  model.Priority `json:"priority"`
	DueDate   *time.Time     `json:"due_date"`
	CreatedAt time.Time      `json:"created_at"`
}

// ToTodoResponse converts a Todo model to TodoResponse DTO.
func ToTodoResponse(t *model.Todo) *TodoResponse {
	resp := &TodoResponse{
		ID:        t.ID,
		OwnerID:   t.OwnerID,
		Title:     t.Title,
		Completed: t.Completed,
		Priority:  t.Priority,
		CreatedAt: t.CreatedAt.UTC(),
	}
	if t.DueDate != nil {
		due := t.DueDate.UTC()
		resp.DueDate = &due
	}
	return resp
}

// ToTodoListResponse converts todos to a JSON array, never null.
func ToTodoListResponse(todos []model.Todo) []TodoResponse {
	out := make([]TodoResponse, len(todos))
	for i := range todos {
		out[i] = *ToTodoResponse(&todos[i])
	}
	return out
}

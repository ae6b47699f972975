package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Priority is the urgency of a todo.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Priorities lists every valid priority in ascending order.
var Priorities = []Priority{PriorityLow, PriorityNormal, PriorityHigh}

// IsValid checks if the priority is one of the known values.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	default:
		return false
	}
}

// MarshalJSON refuses to emit values outside the closed set.
func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("invalid priority %q", string(p))
	}
	return json.Marshal(string(p))
}

// UnmarshalJSON accepts only "low", "normal" or "high".
func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("priority must be a string: %w", err)
	}
	candidate := Priority(s)
	if !candidate.IsValid() {
		return fmt.Errorf("priority must be one of low, normal, high; got %q", s)
	}
	*p = candidate
	return nil
}

// Todo is a task owned by a user.
type Todo struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	Priority  Priority   `json:"priority"`
	DueDate   *time.Time `json:"due_date"`
	CreatedAt time.Time  `json:"created_at"`
}

// TodoPatch carries a partial update. Nil fields are left untouched.
// ID, OwnerID and CreatedAt are never patchable.
type TodoPatch struct {
	Title     *string
	Completed *bool
	Priority  *Priority
}

// IsEmpty reports whether the patch changes nothing.
func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil && p.Priority == nil
}

// Apply returns a copy of t with the patch fields applied.
func (p TodoPatch) Apply(t Todo) Todo {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	return t
}

// Clone returns a deep copy so callers never share the DueDate pointer.
func (t Todo) Clone() Todo {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}

// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Ry3n-Huang/SimpleMicroservices/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

var seq atomic.Uint64

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), seq.Add(1))
}

// UniqueEmail generates an email address no other call returns.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s+%d@example.com", prefix, seq.Add(1))
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a user with sensible defaults and no id.
func NewTestUser(t testing.TB, name string) model.User {
	t.Helper()
	return model.User{
		Email: UniqueEmail(name),
		Name:  name,
	}
}

// NewTestTodo creates a todo owned by ownerID with sensible defaults and no id.
func NewTestTodo(t testing.TB, ownerID uuid.UUID, title string) model.Todo {
	t.Helper()
	return model.Todo{
		OwnerID:  ownerID,
		Title:    title,
		Priority: model.PriorityNormal,
	}
}

// NewTestTodoDue creates a todo with a due date.
func NewTestTodoDue(t testing.TB, ownerID uuid.UUID, title string, due time.Time) model.Todo {
	t.Helper()
	todo := NewTestTodo(t, ownerID, title)
	due = due.UTC()
	todo.DueDate = &due
	return todo
}

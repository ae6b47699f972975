package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Ry3n-Huang/SimpleMicroservices/internal/metrics"
	"github.com/Ry3n-Huang/SimpleMicroservices/internal/store"
	"github.com/Ry3n-Huang/SimpleMicroservices/internal/validation"
)

func newUserService(t *testing.T) (*UserService, *store.Store, *metrics.InMemoryRecorder) {
	t.Helper()
	s := store.New()
	rec := metrics.NewInMemory()
	return NewUserService(s, rec), s, rec
}

func TestCreateUser_ThenGetIsIdentical(t *testing.T) {
	t.Parallel()

	svc, _, rec := newUserService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserInput{Email: "ada@example.com", Name: "Ada"})
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}

	got, err := svc.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetUser error: %v", err)
	}
	if *got != *created {
		t.Errorf("GetUser = %+v, want %+v", got, created)
	}
	if rec.Snapshot().UsersCreated != 1 {
		t.Errorf("UsersCreated = %d, want 1", rec.Snapshot().UsersCreated)
	}
}

func TestCreateUser_CallerSuppliedFields(t *testing.T) {
	t.Parallel()

	svc, _, _ := newUserService(t)
	id := uuid.New()
	created := time.Date(2023, 5, 6, 7, 8, 9, 0, time.FixedZone("CET", 3600))

	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		ID:        &id,
		Email:     "given@example.com",
		Name:      "Given",
		CreatedAt: &created,
	})
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if user.ID != id {
		t.Errorf("ID = %s, want %s", user.ID, id)
	}
	if !user.CreatedAt.Equal(created) || user.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt = %v, want %v in UTC", user.CreatedAt, created)
	}

	_, err = svc.CreateUser(context.Background(), CreateUserInput{ID: &id, Email: "other@example.com", Name: "Other"})
	if !errors.Is(err, ErrIDExists) {
		t.Errorf("expected ErrIDExists, got %v", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, s, _ := newUserService(t)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, CreateUserInput{Email: "dup@example.com", Name: "One"}); err != nil {
		t.Fatalf("first CreateUser error: %v", err)
	}

	_, err := svc.CreateUser(ctx, CreateUserInput{Email: "dup@example.com", Name: "Two"})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if s.CountUsers() != 1 {
		t.Errorf("CountUsers = %d, want 1", s.CountUsers())
	}
}

func TestCreateUser_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     CreateUserInput
		wantField string
	}{
		{"missing email", CreateUserInput{Name: "Ada"}, "email"},
		{"bad email", CreateUserInput{Email: "not-an-email", Name: "Ada"}, "email"},
		{"empty name", CreateUserInput{Email: "a@example.com"}, "name"},
		{"long name", CreateUserInput{Email: "a@example.com", Name: strings.Repeat("n", 81)}, "name"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, s, rec := newUserService(t)
			_, err := svc.CreateUser(context.Background(), tt.input)

			var verr *validation.Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Fields[0].Field != tt.wantField {
				t.Errorf("Field = %s, want %s", verr.Fields[0].Field, tt.wantField)
			}
			if s.CountUsers() != 0 {
				t.Error("store was touched despite validation failure")
			}
			if rec.Snapshot().ValidationFailures != 1 {
				t.Errorf("ValidationFailures = %d, want 1", rec.Snapshot().ValidationFailures)
			}
		})
	}
}

func TestCreateUser_NameBoundaries(t *testing.T) {
	t.Parallel()

	svc, _, _ := newUserService(t)
	if _, err := svc.CreateUser(context.Background(), CreateUserInput{Email: "a@example.com", Name: "x"}); err != nil {
		t.Errorf("1-char name rejected: %v", err)
	}
	if _, err := svc.CreateUser(context.Background(), CreateUserInput{Email: "b@example.com", Name: strings.Repeat("x", 80)}); err != nil {
		t.Errorf("80-char name rejected: %v", err)
	}
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	svc, _, _ := newUserService(t)
	ctx := context.Background()
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		if _, err := svc.CreateUser(ctx, CreateUserInput{Email: email, Name: "N"}); err != nil {
			t.Fatalf("CreateUser error: %v", err)
		}
	}

	users, err := svc.ListUsers(ctx, DefaultPage())
	if err != nil {
		t.Fatalf("ListUsers error: %v", err)
	}
	if len(users) != 3 || users[0].Email != "a@example.com" || users[2].Email != "c@example.com" {
		t.Errorf("unexpected users: %+v", users)
	}

	users, err = svc.ListUsers(ctx, Page{Limit: 10, Offset: 10})
	if err != nil {
		t.Fatalf("ListUsers past end error: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("expected empty page, got %d users", len(users))
	}

	if _, err := svc.ListUsers(ctx, Page{Limit: -1}); !IsValidationError(err) {
		t.Errorf("expected validation error for negative limit, got %v", err)
	}
	users, err = svc.ListUsers(ctx, Page{Limit: MaxListLimit + 1})
	if err != nil {
		t.Fatalf("ListUsers oversized limit error: %v", err)
	}
	if len(users) != 3 {
		t.Errorf("expected oversized limit to serve all 3 users, got %d", len(users))
	}
}

func TestPageBounded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		limit int
		want  int
	}{
		{0, 0},
		{10, 10},
		{MaxListLimit, MaxListLimit},
		{MaxListLimit + 1, MaxListLimit},
		{1 << 40, MaxListLimit},
	}

	for _, tt := range tests {
		if got := (Page{Limit: tt.limit, Offset: 3}).bounded(); got.Limit != tt.want || got.Offset != 3 {
			t.Errorf("Page{Limit: %d}.bounded() = %+v, want limit %d offset 3", tt.limit, got, tt.want)
		}
	}
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()

	s := store.New()
	rec := metrics.NewInMemory()
	users := NewUserService(s, rec)
	todos := NewTodoService(s, rec)
	ctx := context.Background()

	owner, err := users.CreateUser(ctx, CreateUserInput{Email: "owner@example.com", Name: "Owner"})
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	for _, title := range []string{"one", "two"} {
		if _, err := todos.CreateTodo(ctx, CreateTodoInput{OwnerID: owner.ID, Title: title}); err != nil {
			t.Fatalf("CreateTodo error: %v", err)
		}
	}

	cascaded, err := users.DeleteUser(ctx, owner.ID)
	if err != nil {
		t.Fatalf("DeleteUser error: %v", err)
	}
	if cascaded != 2 {
		t.Errorf("cascaded = %d, want 2", cascaded)
	}
	if _, err := users.GetUser(ctx, owner.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound after delete, got %v", err)
	}
	if _, err := users.DeleteUser(ctx, owner.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound on second delete, got %v", err)
	}

	snap := rec.Snapshot()
	if snap.UsersDeleted != 1 || snap.TodosCascaded != 2 {
		t.Errorf("unexpected metrics: %+v", snap)
	}
}

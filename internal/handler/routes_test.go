package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Ry3n-Huang/SimpleMicroservices/internal/handler/dto"
	"github.com/Ry3n-Huang/SimpleMicroservices/internal/metrics"
	"github.com/Ry3n-Huang/SimpleMicroservices/internal/service"
	"github.com/Ry3n-Huang/SimpleMicroservices/internal/store"
)

// testAPI bundles a router over a fresh store.
type testAPI struct {
	router  http.Handler
	store   *store.Store
	metrics *metrics.InMemoryRecorder
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	s := store.New()
	rec := metrics.NewInMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := NewUserHandler(service.NewUserService(s, rec), logger, 0)
	todos := NewTodoHandler(service.NewTodoService(s, rec), logger, 0)

	r := chi.NewRouter()
	r.Route("/users", func(r chi.Router) {
		r.Post("/", users.Create)
		r.Get("/", users.List)
		r.Get("/{id}", users.Get)
		r.Delete("/{id}", users.Delete)
		r.Get("/{id}/todos", todos.ListByUser)
	})
	r.Route("/todos", func(r chi.Router) {
		r.Post("/", todos.Create)
		r.Get("/", todos.List)
		r.Get("/{id}", todos.Get)
		r.Patch("/{id}", todos.Update)
		r.Delete("/{id}", todos.Delete)
	})

	return &testAPI{router: r, store: s, metrics: rec}
}

// do sends body verbatim (a string) or JSON-encoded (anything else).
func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) createUser(t *testing.T, email string) dto.UserResponse {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/users", map[string]any{"email": email, "name": "Test User"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user: status %d body %s", rec.Code, rec.Body.String())
	}
	var user dto.UserResponse
	decodeBody(t, rec, &user)
	return user
}

func (a *testAPI) createTodo(t *testing.T, ownerID, title string) dto.TodoResponse {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/todos", map[string]any{"owner_id": ownerID, "title": title})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create todo: status %d body %s", rec.Code, rec.Body.String())
	}
	var todo dto.TodoResponse
	decodeBody(t, rec, &todo)
	return todo
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) dto.ErrorResponse {
	t.Helper()

	if rec.Code != status {
		t.Fatalf("expected status %d, got %d (body %s)", status, rec.Code, rec.Body.String())
	}
	var resp dto.ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, resp.Code, resp.Error)
	}
	return resp
}

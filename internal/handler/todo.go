package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/Ry3n-Huang/SimpleMicroservices/internal/handler/dto"
	"github.com/Ry3n-Huang/SimpleMicroservices/internal/service"
	"github.com/Ry3n-Huang/SimpleMicroservices/internal/validation"
)

// TodoHandler handles HTTP requests for todo operations.
type TodoHandler struct {
	svc          *service.TodoService
	logger       *slog.Logger
	defaultLimit int
}

// NewTodoHandler creates a new TodoHandler.
// A non-positive defaultLimit falls back to service.DefaultListLimit.
func NewTodoHandler(svc *service.TodoService, logger *slog.Logger, defaultLimit int) *TodoHandler {
	if defaultLimit <= 0 {
		defaultLimit = service.DefaultListLimit
	}
	return &TodoHandler{
		svc:          svc,
		logger:       logger,
		defaultLimit: defaultLimit,
	}
}

// Create handles POST /todos.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if rejectNulls(w, req.NullFields()) {
		return
	}

	todo, err := h.svc.CreateTodo(r.Context(), service.CreateTodoInput{
		ID:        req.ID,
		OwnerID:   req.OwnerID,
		Title:     req.Title,
		Completed: req.Completed.Value,
		Priority:  req.Priority.Ptr(),
		DueDate:   req.DueDate.TimePtr(),
		CreatedAt: req.CreatedAt.TimePtr(),
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("todo_created",
		"todo_id", todo.ID,
		"owner_id", todo.OwnerID,
	)

	writeJSON(w, http.StatusCreated, dto.ToTodoResponse(todo))
}

// Get handles GET /todos/{id}.
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	todo, err := h.svc.GetTodo(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoResponse(todo))
}

// List handles GET /todos with an optional owner_id filter.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, h.defaultLimit)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	input := service.ListTodosInput{Page: page}
	if raw := r.URL.Query().Get("owner_id"); raw != "" {
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			writeValidationError(w, validation.NewFieldError("owner_id", "must be a UUID"))
			return
		}
		input.OwnerID = &ownerID
	}

	todos, err := h.svc.ListTodos(r.Context(), input)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoListResponse(todos))
}

// ListByUser handles GET /users/{id}/todos.
func (h *TodoHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	page, err := parsePage(r, h.defaultLimit)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	todos, err := h.svc.ListUserTodos(r.Context(), userID, page)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoListResponse(todos))
}

// Update handles PATCH /todos/{id}.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if rejectNulls(w, req.NullFields()) {
		return
	}

	todo, err := h.svc.UpdateTodo(r.Context(), service.UpdateTodoInput{
		ID:        id,
		Title:     req.Title.Ptr(),
		Completed: req.Completed.Ptr(),
		Priority:  req.Priority.Ptr(),
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("todo_updated", "todo_id", todo.ID)

	writeJSON(w, http.StatusOK, dto.ToTodoResponse(todo))
}

// Delete handles DELETE /todos/{id}.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteTodo(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("todo_deleted", "todo_id", id)

	w.WriteHeader(http.StatusNoContent)
}

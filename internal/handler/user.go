package handler

import (
	"log/slog"
	"net/http"

	"github.com/Ry3n-Huang/SimpleMicroservices/internal/handler/dto"
	"github.com/Ry3n-Huang/SimpleMicroservices/internal/service"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	svc          *service.UserService
	logger       *slog.Logger
	defaultLimit int
}

// NewUserHandler creates a new UserHandler.
// A non-positive defaultLimit falls back to service.DefaultListLimit.
func NewUserHandler(svc *service.UserService, logger *slog.Logger, defaultLimit int) *UserHandler {
	if defaultLimit <= 0 {
		defaultLimit = service.DefaultListLimit
	}
	return &UserHandler{
		svc:          svc,
		logger:       logger,
		defaultLimit: defaultLimit,
	}
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.CreateUser(r.Context(), service.CreateUserInput{
		ID:        req.ID,
		Email:     req.Email,
		Name:      req.Name,
		CreatedAt: req.CreatedAt.TimePtr(),
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_created", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

// Get handles GET /users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	user, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, h.defaultLimit)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	users, err := h.svc.ListUsers(r.Context(), page)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserListResponse(users))
}

// Delete handles DELETE /users/{id}. Todos owned by the user go with it.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	cascaded, err := h.svc.DeleteUser(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_deleted", "user_id", id, "todos_cascaded", cascaded)

	w.WriteHeader(http.StatusNoContent)
}

// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Ry3n-Huang/SimpleMicroservices/internal/handler/dto"
	"github.com/Ry3n-Huang/SimpleMicroservices/internal/service"
	"github.com/Ry3n-Huang/SimpleMicroservices/internal/validation"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// Handler serves the root and fallback endpoints.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Hello describes the service.
// GET /
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"message": "SimpleMicroservices users and todos API",
		"version": Version,
	}
	writeJSON(w, http.StatusOK, response)
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "ROUTE_NOT_FOUND", "resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// writeValidationError writes a 400 listing every failed field.
func writeValidationError(w http.ResponseWriter, verr *validation.Error) {
	writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
		Error:   verr.Error(),
		Code:    "VALIDATION_FAILED",
		Details: verr.Fields,
	})
}

// rejectNulls writes a 400 naming every field sent as null.
// It reports whether a response was written.
func rejectNulls(w http.ResponseWriter, fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	verr := &validation.Error{}
	for _, field := range fields {
		verr.Fields = append(verr.Fields, validation.FieldError{Field: field, Message: "must not be null"})
	}
	writeValidationError(w, verr)
	return true
}

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeValidationError(w, verr)
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrTodoNotFound):
		writeError(w, http.StatusNotFound, "TODO_NOT_FOUND", "Todo not found")
	case errors.Is(err, service.ErrEmailExists):
		writeError(w, http.StatusBadRequest, "EMAIL_EXISTS", "Email already exists")
	case errors.Is(err, service.ErrIDExists):
		writeError(w, http.StatusBadRequest, "ID_EXISTS", "A record with this id already exists")
	case errors.Is(err, service.ErrOwnerNotFound):
		writeError(w, http.StatusBadRequest, "OWNER_NOT_FOUND", "owner_id not found")
	default:
		logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// decodeJSON decodes exactly one JSON object from the body, rejecting unknown fields.
// On failure it writes the 400/413 response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err == nil && dec.More() {
		err = errors.New("request body must contain a single JSON object")
	}
	if err == nil {
		return true
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
		return false
	}

	writeError(w, http.StatusBadRequest, "INVALID_JSON", describeDecodeError(err))
	return false
}

// describeDecodeError turns encoding/json errors into client-facing messages.
func describeDecodeError(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.Is(err, io.EOF):
		return "Request body is empty"
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "Request body is truncated JSON"
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("Malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Sprintf("Field %q must be of type %s", typeErr.Field, typeErr.Type)
		}
		return fmt.Sprintf("Request body must be a JSON object, not %s", typeErr.Value)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return "Unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field ")
	default:
		return "Invalid request body: " + err.Error()
	}
}

// parseUUIDParam reads a UUID path parameter, writing a 400 when it is malformed.
func parseUUIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", fmt.Sprintf("%s must be a UUID", name))
		return uuid.Nil, false
	}
	return id, true
}

// parsePage reads limit and offset query parameters.
// Range checks happen in the service; this only rejects non-integers.
func parsePage(r *http.Request, defaultLimit int) (service.Page, error) {
	query := r.URL.Query()
	page := service.Page{Limit: defaultLimit}

	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-"):
			n = service.MaxListLimit
		case err != nil:
			return page, validation.NewFieldError("limit", "must be an integer")
		}
		page.Limit = n
	}
	if raw := query.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return page, validation.NewFieldError("offset", "must be an integer")
		}
		page.Offset = n
	}

	return page, nil
}

package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/Ry3n-Huang/SimpleMicroservices/internal/handler/dto"
)

// writeError writes the API's JSON error body from inside a middleware.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: message, Code: code})
}

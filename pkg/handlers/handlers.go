// Package handlers provides HTTP response utilities for JSON APIs.
// These stateless functions standardize response formatting across handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// ErrorResponse is the body written by RespondError.
// ErrorID is set for server errors and matches the logged error_id.
type ErrorResponse struct {
	Error   string `json:"error"`
	ErrorID string `json:"error_id,omitempty"`
}

// RespondJSON writes a JSON response with the given status code and data.
// It sets the Content-Type header to application/json.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs the error and writes a JSON error response.
// Client errors are logged at Warn. Server errors are logged at Error with a
// short correlation id, which is also returned to the client.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	body := ErrorResponse{Error: err.Error()}

	if status >= http.StatusInternalServerError {
		body.ErrorID = NewErrorID()
		logger.Error("handler error", "error", err, "status", status, "error_id", body.ErrorID)
	} else {
		logger.Warn("handler error", "error", err, "status", status)
	}

	RespondJSON(w, status, body)
}

// NewErrorID returns an eight character correlation id.
func NewErrorID() string {
	return uuid.New().String()[:8]
}

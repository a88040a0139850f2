package web

// errors.go maps service errors onto HTTP responses. Each sentinel from the
// core package has exactly one status; validation failures carry the full
// field error map so clients can correct input in one round trip.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kAtharva4/buyer-lead-intake/internal/buyer"
	"github.com/kAtharva4/buyer-lead-intake/internal/core"
	"github.com/kAtharva4/buyer-lead-intake/internal/logging"
)

// ErrorResponse is the JSON body for failed requests. Errors is only set for
// validation failures.
type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  buyer.FieldErrors `json:"errors,omitempty"`
}

// respondError logs the technical error with the request id and writes the
// mapped status and client-safe body.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := mapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(body); encErr != nil {
		slog.Error("json encode error", "error", encErr)
	}
}

// mapError translates a service error into a status code and response body.
// Unrecognized errors become a generic 500 so internal details never reach
// the client.
func mapError(err error) (int, ErrorResponse) {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ErrorResponse{Message: "Validation failed.", Errors: ve.Fields}
	}

	switch {
	case errors.Is(err, core.ErrNoSession):
		return http.StatusUnauthorized, ErrorResponse{Message: err.Error()}
	case errors.Is(err, core.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Message: err.Error()}
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Message: err.Error()}
	case errors.Is(err, core.ErrStaleWrite), errors.Is(err, core.ErrDuplicatePhone):
		return http.StatusConflict, ErrorResponse{Message: err.Error()}
	case errors.Is(err, core.ErrNoFile),
		errors.Is(err, core.ErrFileTooLarge),
		errors.Is(err, core.ErrTooManyRows),
		errors.Is(err, core.ErrInvalidCSV):
		return http.StatusBadRequest, ErrorResponse{Message: err.Error()}
	}

	return http.StatusInternalServerError, ErrorResponse{Message: "internal server error"}
}

// writeJSON encodes v as JSON with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

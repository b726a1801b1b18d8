// Package respond centralizes JSON responses and the error-to-status
// mapping shared by the API handlers.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zoepiqian/bufferplan/core/order"
	"github.com/zoepiqian/bufferplan/core/session"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes the error as {"error": "..."} with a status derived from
// its kind.
func Error(w http.ResponseWriter, err error) {
	JSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// ErrorStatus writes the error with an explicit status code.
func ErrorStatus(w http.ResponseWriter, status int, err error) {
	JSON(w, status, map[string]string{"error": err.Error()})
}

// MethodNotAllowed writes the standard 405 response.
func MethodNotAllowed(w http.ResponseWriter) {
	JSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}

func statusFor(err error) int {
	var re *order.RowError
	switch {
	case errors.Is(err, session.ErrUnknownPlanner),
		errors.Is(err, session.ErrEntryNotFound),
		errors.Is(err, session.ErrNoSplitPlan),
		errors.Is(err, order.ErrRowNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrUnknownClient),
		errors.Is(err, order.ErrNoClient),
		errors.As(err, &re):
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}

// Package httpapi exposes the HTTP surface: the gorilla/mux router, the
// request authenticator and other middleware, and the JSON handlers.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/adithya/trackfolio/internal/common"
)

// msgAccessTokenExpired is the single message every authentication rejection
// carries, whatever actually went wrong server-side.
const msgAccessTokenExpired = "Access token expired"

// errorEnvelope is the JSON body of every error response.
type errorEnvelope struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
}

// statusAndMessage maps a service error to its HTTP status and client-facing
// message. This is the only place that mapping lives.
func statusAndMessage(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrInvalidEmail):
		return http.StatusBadRequest, "Please enter a valid Gmail address."
	case errors.Is(err, common.ErrEmailExists):
		return http.StatusConflict, "This email is already registered."
	case errors.Is(err, common.ErrEmptyPassword):
		return http.StatusConflict, "Please enter a valid password"
	case errors.Is(err, common.ErrNoUser):
		return http.StatusUnauthorized, "No user found"
	case errors.Is(err, common.ErrInvalidPassword):
		return http.StatusUnauthorized, "Invalid password"
	case errors.Is(err, common.ErrInvalidRefreshToken):
		return http.StatusUnauthorized, "Invalid token. Please login again"
	case errors.Is(err, common.ErrSessionExpired):
		return http.StatusUnauthorized, "Session expired. Please login again"
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, msgAccessTokenExpired
	case errors.Is(err, common.ErrDriveNotFound):
		return http.StatusNotFound, "Drive not found"
	case errors.Is(err, common.ErrNotDriveOwner):
		return http.StatusForbidden, "You do not have access to this drive"
	case errors.Is(err, common.ErrInvalidDriveType):
		return http.StatusBadRequest, "Invalid drive type"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Not found"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
	})
}

func writeServiceError(w http.ResponseWriter, err error) {
	status, message := statusAndMessage(err)
	writeError(w, status, message)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Package common defines sentinel errors shared across the trackfolio server
// layers. Callers should use errors.Is to match these values; the HTTP layer
// owns the mapping to status codes and client-visible messages.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Token lifecycle errors. Expired and malformed are orthogonal failure
	// modes and must stay independently observable.
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")

	// Registration validation errors.
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrEmailExists   = errors.New("email already registered")
	ErrEmptyPassword = errors.New("empty password")

	// Login errors. Both surface as Unauthorized.
	ErrNoUser          = errors.New("no user found")
	ErrInvalidPassword = errors.New("invalid password")

	// Refresh flow errors.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrSessionExpired      = errors.New("session expired")

	// Drive access errors.
	ErrDriveNotFound = errors.New("drive not found")
	ErrNotDriveOwner = errors.New("drive owned by another user")

	// Query validation errors.
	ErrInvalidDriveType = errors.New("invalid drive type")
)

// Package common defines shared constants and sentinel errors used across
// the storage, engine and transport layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Request validation errors. Wrapped with the offending field.
	ErrValidation = errors.New("validation error")

	// ErrInvalidCursor is returned for a pull cursor that cannot be decoded.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrSyncNotAllowed means the caller lacks full sync privileges.
	ErrSyncNotAllowed = errors.New("sync not allowed")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

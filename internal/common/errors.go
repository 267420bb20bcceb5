// Package common defines shared constants and sentinel errors used across
// client and server layers of Daybook. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrStore        = errors.New("store rejected operation")

	// Validation errors (caller-supplied input invalid).
	ErrValidation = errors.New("validation error")

	// Auth errors (invalid, malformed or expired credentials).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Magic-link throttling.
	ErrRateLimited = errors.New("rate limited")
)

// Package common defines shared constants and sentinel errors used across
// client and server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Auth errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Client-side failure kinds surfaced to the presentation layer.
	ErrValidationFailed      = errors.New("validation failed")
	ErrFetchFailed           = errors.New("failed to load job applications")
	ErrMutationFailed        = errors.New("mutation failed")
	ErrStaleResponse         = errors.New("stale response discarded")
	ErrNoPendingConfirmation = errors.New("no pending delete confirmation")
	ErrNotLoggedIn           = errors.New("not logged in")
)

package services

import "errors"

// Typed failures surfaced to the handler layer. Storage failures are always
// wrapped with ErrStorageUnavailable so callers can decide to fall back
// (e.g. serve a non-persisted prompt) instead of treating them as logic bugs.
var (
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrUserNotFound        = errors.New("user not found")
	ErrDuplicateSubmission = errors.New("already submitted for today")
)

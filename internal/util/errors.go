package util

import "errors"

// Stable error kinds exposed by the lifecycle core. Low-level storage and
// provider errors are wrapped into one of these before they reach a caller,
// so raw backend detail never leaks.
var (
	ErrValidationFailed  = errors.New("validation failed")
	ErrNotFound          = errors.New("resource not found")
	ErrGenerationFailed  = errors.New("question generation service unavailable")
	ErrPersistenceFailed = errors.New("storage operation failed")

	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPermissionDenied   = errors.New("permission denied")
)

package service

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every error returned by a service wraps one of these so
// callers can classify it with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrValidation         = errors.New("validation failed")
)

var (
	ErrRequestNotFound  = fmt.Errorf("request %w", ErrNotFound)
	ErrProjectNotFound  = fmt.Errorf("project %w", ErrNotFound)
	ErrPhaseNotFound    = fmt.Errorf("phase %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrUsernameTaken    = fmt.Errorf("username already taken: %w", ErrConflict)
	ErrProtectedAccount = fmt.Errorf("system accounts cannot be deleted: %w", ErrConflict)
	ErrPhasesIncomplete = fmt.Errorf("all phases must be approved before completion: %w", ErrValidation)
)

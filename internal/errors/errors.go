package errors

import (
	"errors"
	"fmt"
)

// Common error types for the portal client
var (
	// Session errors
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidExpiry   = errors.New("invalid token expiry")
	ErrInvalidToken    = errors.New("invalid token")

	// Store errors
	ErrStoreKeyRequired = errors.New("store passphrase required")
	ErrStoreCorrupt     = errors.New("stored session is corrupt")

	// Task errors
	ErrTaskIDRequired = errors.New("task id is required")
	ErrNoActiveTask   = errors.New("no active task")

	// Redirect errors
	ErrInvalidRedirect = errors.New("redirect target not allowed")

	// Request errors
	ErrInvalidRequest = errors.New("invalid request")
	ErrMissingPathArg = errors.New("missing path parameter")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Package forms turns API call outcomes into the short messages shown to users.
package forms

import (
	"context"

	"github.com/jrsteele09/go-portal-client/api"
	perrors "github.com/jrsteele09/go-portal-client/internal/errors"
)

const (
	MessageOperationFailed  = "operation failed, please try again later"
	MessageNetworkError     = "network connection error"
	MessagePasswordMismatch = "passwords do not match"
	MessagePasswordTooShort = "password must be at least 6 characters"
)

const MinPasswordLength = 6

// ValidateFunc returns a user facing message, or "" when the input is fine.
type ValidateFunc func() string

// Submit runs validate (when set) and then handler. It returns the handler's
// result and an empty message, or the zero value and the message to display.
func Submit[T any](ctx context.Context, validate ValidateFunc, handler func(context.Context) (T, error)) (T, string) {
	var zero T
	if validate != nil {
		if msg := validate(); msg != "" {
			return zero, msg
		}
	}

	result, err := handler(ctx)
	if err != nil {
		return zero, ErrorMessage(err)
	}
	return result, ""
}

// ErrorMessage maps any backend response error to MessageOperationFailed and
// everything else (transport, timeouts) to MessageNetworkError.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *api.APIError
	if perrors.As(err, &apiErr) {
		return MessageOperationFailed
	}
	return MessageNetworkError
}

func ValidatePassword(password, confirm string) string {
	if password != confirm {
		return MessagePasswordMismatch
	}
	if len([]rune(password)) < MinPasswordLength {
		return MessagePasswordTooShort
	}
	return ""
}

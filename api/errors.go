package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is returned for any response with a status >= 400.
type APIError struct {
	Operation   string
	Method      string
	URL         string
	StatusCode  int
	Description string
	Body        []byte

	// Validation is set for 422 responses whose body decoded as HTTPValidationError
	Validation *HTTPValidationError
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, e.Description)
	if e.Validation != nil && len(e.Validation.Detail) > 0 {
		msg += ": " + e.Validation.String()
	}
	return msg
}

// ValidationError is one entry of a FastAPI style 422 body.
type ValidationError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

type HTTPValidationError struct {
	Detail []ValidationError `json:"detail,omitempty"`
}

func (v *HTTPValidationError) String() string {
	parts := make([]string, 0, len(v.Detail))
	for _, d := range v.Detail {
		loc := make([]string, 0, len(d.Loc))
		for _, l := range d.Loc {
			loc = append(loc, fmt.Sprint(l))
		}
		parts = append(parts, strings.Join(loc, ".")+": "+d.Msg)
	}
	return strings.Join(parts, "; ")
}

func newAPIError(r *request, target string, status int, body []byte) *APIError {
	description, ok := r.errors[status]
	if !ok {
		description, ok = commonErrors[status]
	}
	if !ok {
		description = http.StatusText(status)
	}

	apiErr := &APIError{
		Operation:   r.operation,
		Method:      r.method,
		URL:         target,
		StatusCode:  status,
		Description: description,
		Body:        body,
	}
	if status == http.StatusUnprocessableEntity {
		var v HTTPValidationError
		if err := json.Unmarshal(body, &v); err == nil {
			apiErr.Validation = &v
		}
	}
	return apiErr
}

// StatusCode returns the HTTP status of an APIError in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsValidation reports whether err is a 422 response.
func IsValidation(err error) bool {
	return StatusCode(err) == http.StatusUnprocessableEntity
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for backend calls.
var (
	// ErrForbidden matches an *APIError carrying 403.
	ErrForbidden = errors.New("forbidden")
	// ErrMissingLogs is returned when a /sync/logs success body has no logs array.
	ErrMissingLogs = errors.New("sync logs response has no logs")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string // from the optional {"detail": "..."} body
}

// Error implements error.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message())
}

// Message is the server-provided detail, or the status text when absent.
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return http.StatusText(e.StatusCode)
}

// Is lets errors.Is(err, ErrForbidden) match 403 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrForbidden && e.StatusCode == http.StatusForbidden
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

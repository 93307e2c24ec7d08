package client

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the monitoring API.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Detail is the backend's error description ({"detail": ...}),
	// or the raw body when the payload was not in that shape.
	Detail string
}

// Error returns a user-facing description of the failure.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Is allows errors.Is() to match any APIError regardless of fields.
func (e *APIError) Is(target error) bool {
	_, ok := target.(*APIError)
	return ok
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsForbidden reports whether err is a 403 from the API.
func IsForbidden(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

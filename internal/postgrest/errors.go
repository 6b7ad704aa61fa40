package postgrest

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a by-id lookup matches no row.
var ErrNotFound = errors.New("record not found")

// uniqueViolation is the Postgres error code for a unique constraint violation.
const uniqueViolation = "23505"

// APIError is a structured error response from the record store.
type APIError struct {
	// Status is the HTTP status code of the response.
	Status int

	// Code is the Postgres error code, when the store provides one.
	Code string `json:"code"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Details carries additional context from the store.
	Details string `json:"details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("store error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("store error (status %d)", e.Status)
}

// IsConflict reports whether err is a uniqueness violation on write.
func IsConflict(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == uniqueViolation || apiErr.Status == 409
}

package baserow

import (
	"errors"
	"fmt"
)

// Decode errors
var (
	ErrInvalidNumber = errors.New("baserow: value is not a number")
	ErrUnknownOption = errors.New("baserow: unknown select option")
)

// Client errors
var (
	ErrLookupCardinality = errors.New("baserow: identifier lookup must match exactly one row")
	ErrMissingIdentifier = errors.New("baserow: record has no identifier value")
	ErrUnexpectedStatus  = errors.New("baserow: unexpected response status")
	ErrEmptyToken        = errors.New("baserow: token cannot be empty")
	ErrInvalidBaseURL    = errors.New("baserow: invalid base URL")
)

// APIError is returned when Baserow answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Code       string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("baserow: status %d: %s: %s", e.StatusCode, e.Code, e.Detail)
	}
	return fmt.Sprintf("baserow: status %d: %s", e.StatusCode, e.Detail)
}

func (e *APIError) Unwrap() error {
	return ErrUnexpectedStatus
}

package client

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned when no subscription key is configured.
var ErrMissingAPIKey = errors.New("api key is required")

// ErrorKind classifies a failure for reporting and metrics.
type ErrorKind string

const (
	// ErrorKindConfiguration represents missing or invalid configuration.
	ErrorKindConfiguration ErrorKind = "configuration"

	// ErrorKindNetwork represents request construction, connection or transport errors.
	ErrorKindNetwork ErrorKind = "network"

	// ErrorKindStatus represents a 4xx/5xx response from the API.
	ErrorKindStatus ErrorKind = "status"

	// ErrorKindDeserialization represents a body that does not match the expected shape.
	ErrorKindDeserialization ErrorKind = "deserialization"
)

// StatusClass represents a classification of HTTP error responses.
type StatusClass string

const (
	// StatusClassClient represents 4xx client errors.
	StatusClassClient StatusClass = "client"

	// StatusClassServer represents 5xx server errors.
	StatusClassServer StatusClass = "server"
)

// Error is a Banner API error with additional context.
type Error struct {
	Kind       ErrorKind
	Route      string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("banner %s %s error (status %d): %v", e.Route, e.Kind, e.StatusCode, e.Err)
	}
	if e.Route == "" {
		return fmt.Sprintf("banner %s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("banner %s %s error: %v", e.Route, e.Kind, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err carries a *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

// classifyStatus maps an HTTP status code to a StatusClass.
// Returns "" for non-error statuses.
func classifyStatus(statusCode int) StatusClass {
	switch {
	case statusCode >= 400 && statusCode < 500:
		return StatusClassClient
	case statusCode >= 500:
		return StatusClassServer
	default:
		return ""
	}
}

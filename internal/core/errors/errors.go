package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - these represent lookups and business rule violations
var (
	// Authentication & Authorization
	ErrUnauthorized = errors.New("unauthorized")

	// Snapshot lookups
	ErrTeamNotFound       = errors.New("team not found")
	ErrFeatureNotFound    = errors.New("feature not found")
	ErrDependencyNotFound = errors.New("dependency not found")
	ErrSprintNotFound     = errors.New("sprint not found")
	ErrCandidateNotFound  = errors.New("duplicate candidate not found")
	ErrTeamNotInSprint    = errors.New("team has no allocation in sprint")

	// Snapshot construction
	ErrSnapshotIntegrity = errors.New("snapshot integrity violation")
	ErrSnapshotMissing   = errors.New("snapshot not loaded")

	// Session state
	ErrSessionRequired = errors.New("session id is required")

	// Generic
	ErrNotFound    = errors.New("resource not found")
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("rate limit exceeded")
)

// AppError wraps errors with additional context for HTTP responses
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
	Details    map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors for common cases
func NewBadRequestError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "BAD_REQUEST",
		StatusCode: 400,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		Message:    message,
		Code:       "UNAUTHORIZED",
		StatusCode: 401,
	}
}

func NewNotFoundError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "NOT_FOUND",
		StatusCode: 404,
	}
}

func NewRateLimitError() *AppError {
	return &AppError{
		Err:        ErrRateLimited,
		Message:    "Too many requests. Please try again later.",
		Code:       "RATE_LIMITED",
		StatusCode: 429,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "An unexpected error occurred",
		Code:       "INTERNAL_ERROR",
		StatusCode: 500,
	}
}

// ValidationErrors holds multiple field validation errors
type ValidationErrors struct {
	Errors map[string][]string `json:"errors"`
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make(map[string][]string),
	}
}

func (v *ValidationErrors) Add(field, message string) {
	v.Errors[field] = append(v.Errors[field], message)
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d field(s) have errors", len(v.Errors))
}

// IntegrityErrors collects every referential-integrity fault found while
// building a snapshot. It matches ErrSnapshotIntegrity with errors.Is.
type IntegrityErrors struct {
	Faults []string `json:"faults"`
}

func NewIntegrityErrors() *IntegrityErrors {
	return &IntegrityErrors{}
}

// Addf records a fault.
func (e *IntegrityErrors) Addf(format string, args ...any) {
	e.Faults = append(e.Faults, fmt.Sprintf(format, args...))
}

func (e *IntegrityErrors) HasFaults() bool {
	return len(e.Faults) > 0
}

func (e *IntegrityErrors) Error() string {
	return fmt.Sprintf("%s: %d fault(s): %s", ErrSnapshotIntegrity, len(e.Faults), strings.Join(e.Faults, "; "))
}

func (e *IntegrityErrors) Is(target error) bool {
	return target == ErrSnapshotIntegrity
}

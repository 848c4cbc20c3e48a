// Package errors provides domain-specific error types and sentinel errors
// shared by the loaders, the catalog and the chat surfaces.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrNotFound indicates a requested catalog entity was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates user provided invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrContextCanceled indicates context was canceled.
	ErrContextCanceled = errors.New("context canceled")

	// ErrMissingParameter indicates a question lacked a slot its intent needs
	// (a program, a year level or a course).
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrUnknownIntent indicates an intent name that is not recognized.
	ErrUnknownIntent = errors.New("unknown intent")

	// ErrUnsupportedFormat indicates a data file with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported data format")

	// ErrCatalogNotReady indicates no catalog has been loaded yet.
	ErrCatalogNotReady = errors.New("catalog not ready")
)

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsInvalidInput reports whether err wraps ErrInvalidInput.
func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsUnsupportedFormat reports whether err wraps ErrUnsupportedFormat.
func IsUnsupportedFormat(err error) bool { return errors.Is(err, ErrUnsupportedFormat) }

// IsValidation reports whether err contains a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ValidationError represents catalog or input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// LoadError represents a failure reading one data file, with the row when known.
type LoadError struct {
	Path string
	Row  int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("load error (path=%s, row=%d): %v", e.Path, e.Row, e.Err)
	}
	return fmt.Sprintf("load error (path=%s): %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new load error.
func NewLoadError(path string, row int, err error) *LoadError {
	return &LoadError{
		Path: path,
		Row:  row,
		Err:  err,
	}
}

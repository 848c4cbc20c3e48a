package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		checkFn  func(error) bool
		expected bool
	}{
		{
			name:     "ErrNotFound is recognized",
			err:      ErrNotFound,
			checkFn:  IsNotFound,
			expected: true,
		},
		{
			name:     "Wrapped ErrNotFound is recognized",
			err:      errors.Join(ErrNotFound, errors.New("additional context")),
			checkFn:  IsNotFound,
			expected: true,
		},
		{
			name:     "Different error is not ErrNotFound",
			err:      ErrInvalidInput,
			checkFn:  IsNotFound,
			expected: false,
		},
		{
			name:     "ErrInvalidInput is recognized",
			err:      ErrInvalidInput,
			checkFn:  IsInvalidInput,
			expected: true,
		},
		{
			name:     "Wrapped ErrUnsupportedFormat is recognized",
			err:      fmt.Errorf("load courses.xml: %w", ErrUnsupportedFormat),
			checkFn:  IsUnsupportedFormat,
			expected: true,
		},
		{
			name:     "Wrapped ValidationError is recognized",
			err:      fmt.Errorf("build catalog: %w", NewValidationError("course_id", "duplicate")),
			checkFn:  IsValidation,
			expected: true,
		},
		{
			name:     "Sentinel is not a ValidationError",
			err:      ErrNotFound,
			checkFn:  IsValidation,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.checkFn(tt.err)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("program_id", "duplicate program BSCS")

	if err.Field != "program_id" {
		t.Errorf("expected field 'program_id', got '%s'", err.Field)
	}

	expected := "validation failed on program_id: duplicate program BSCS"
	if err.Error() != expected {
		t.Errorf("expected error '%s', got '%s'", expected, err.Error())
	}
}

func TestLoadError(t *testing.T) {
	baseErr := errors.New("wrong number of fields")
	err := NewLoadError("data/courses.csv", 12, baseErr)

	if !errors.Is(err, baseErr) {
		t.Error("expected error to wrap base error")
	}
	if got := err.Error(); got != "load error (path=data/courses.csv, row=12): wrong number of fields" {
		t.Errorf("unexpected message %q", got)
	}

	err2 := NewLoadError("data/courses.json", 0, baseErr)
	if got := err2.Error(); got != "load error (path=data/courses.json): wrong number of fields" {
		t.Errorf("unexpected message %q", got)
	}
}

package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation failures.
var (
	ErrEmptyBatch              = errors.New("empty employee batch")
	ErrMissingID               = errors.New("missing employee id")
	ErrMissingName             = errors.New("missing display name")
	ErrUnknownEmploymentType   = errors.New("unknown employment type")
	ErrUnknownEmploymentStatus = errors.New("unknown employment status")
	ErrInvalidStartDate        = errors.New("invalid start date")
	ErrInvalidManagerRef       = errors.New("invalid manager reference")
	ErrDuplicateID             = errors.New("duplicate employee id")
)

// ValidationError wraps a sentinel with the offending field and value.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}

package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared across packages. Domain outcomes are returned as
// typed values; storage and infrastructure failures stay wrapped with %w so
// they propagate distinctly and are never mistaken for a domain outcome.
var (
	// ErrNotFound covers both "does not exist" and "not owned by caller".
	// The two cases are deliberately indistinguishable for non-admin
	// callers so that entity existence never leaks across owners.
	ErrNotFound = errors.New("not found")

	ErrInvalidAmount = errors.New("invalid amount")
)

// ConflictError reports a unique-constraint violation, e.g. a duplicate
// category name+direction for the same owner.
type ConflictError struct {
	Constraint string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Constraint
}

// FieldError names one invalid or missing field.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// ValidationError collects every offending field of a create/update payload
// or an alert rule. It is built up with Add and returned via Err so callers
// get a single error naming all problems at once.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records an offending field.
func (e *ValidationError) Add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

// Addf records an offending field with a formatted reason.
func (e *ValidationError) Addf(field, format string, args ...any) {
	e.Add(field, fmt.Sprintf(format, args...))
}

// Has reports whether the given field was flagged.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Err returns the error, or nil when no field was flagged.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is a unique-constraint violation.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsValidation extracts the ValidationError wrapped in err, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

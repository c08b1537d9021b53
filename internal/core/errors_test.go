package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError(t *testing.T) {
	var verr ValidationError
	if verr.Err() != nil {
		t.Fatal("empty validation error should yield nil")
	}

	verr.Add("categoryId", "required")
	verr.Addf("windowDays", "must be between %d and %d", 1, 365)

	err := verr.Err()
	if err == nil {
		t.Fatal("expected error")
	}
	if !verr.Has("categoryId") || !verr.Has("windowDays") {
		t.Fatalf("expected both fields flagged, got %v", verr.Fields)
	}
	if verr.Has("accountId") {
		t.Fatal("accountId should not be flagged")
	}
	if !IsValidation(err) {
		t.Fatal("IsValidation should match")
	}

	// Wrapping must not hide the type.
	wrapped := fmt.Errorf("create rule: %w", err)
	got, ok := AsValidation(wrapped)
	if !ok || len(got.Fields) != 2 {
		t.Fatalf("expected wrapped validation error with 2 fields, got %v", wrapped)
	}
}

func TestNotFoundAndConflict(t *testing.T) {
	wrapped := fmt.Errorf("get account: %w", ErrNotFound)
	if !IsNotFound(wrapped) {
		t.Fatal("IsNotFound should match wrapped sentinel")
	}
	if IsNotFound(errors.New("boom")) {
		t.Fatal("IsNotFound should not match arbitrary errors")
	}

	conflict := fmt.Errorf("insert: %w", &ConflictError{Constraint: "category name+direction"})
	if !IsConflict(conflict) {
		t.Fatal("IsConflict should match wrapped conflict")
	}
	if IsConflict(wrapped) {
		t.Fatal("not-found is not a conflict")
	}
}

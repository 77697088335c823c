package insertgate

import (
	"errors"
	"fmt"
)

// Kind classifies why a create was refused.
type Kind string

const (
	FieldInvalid       Kind = "field_invalid"
	ReferentialMissing Kind = "referential_missing"
	DuplicateConflict  Kind = "duplicate_conflict"
	PersistenceFailure Kind = "persistence_failure"
)

const DuplicateMessage = "Duplicate entry detected"

// FieldError reports the first field that failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

func (e *FieldError) Kind() Kind { return FieldInvalid }

// ReferenceError reports a declared value that has no catalog entry.
type ReferenceError struct {
	Field   string
	Value   string
	Message string
}

func (e *ReferenceError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %q does not match any product subtype", e.Field, e.Value)
}

func (e *ReferenceError) Kind() Kind { return ReferentialMissing }

// DuplicateError carries the snapshot of the record the candidate collides
// with.
type DuplicateError struct {
	Entity   string
	Clause   string
	Existing any
}

func (e *DuplicateError) Error() string { return DuplicateMessage }

func (e *DuplicateError) Kind() Kind { return DuplicateConflict }

// PersistenceError wraps a datastore failure. Its message is the datastore's.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return e.Err.Error() }

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Kind() Kind { return PersistenceFailure }

// KindOf returns the gate classification of err, or "" for other errors.
func KindOf(err error) Kind {
	var k interface{ Kind() Kind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return ""
}

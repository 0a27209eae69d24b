package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds. Concrete errors below unwrap to one of these so
// callers can branch with errors.Is without knowing the concrete type.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state transition")
	ErrDuplicateID  = errors.New("duplicate id")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports missing or invalid input fields.
type ValidationError struct {
	Message string
	Fields  []string
}

// NewValidationError creates a ValidationError with a message and the offending fields.
func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// NewFieldsError creates a ValidationError naming every offending field.
func NewFieldsError(fields []string) *ValidationError {
	return &ValidationError{
		Message: "missing or invalid fields: " + strings.Join(fields, ", "),
		Fields:  fields,
	}
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return ErrValidation }

// HasField returns true if the given field is among the offending fields.
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// NotFoundError reports an unknown entity identifier.
type NotFoundError struct {
	Entity string
	ID     string
}

// NewNotFoundError creates a NotFoundError for the given entity and id.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidStateError reports an operation not permitted from the current status.
type InvalidStateError struct {
	From string
	To   string
}

// NewInvalidStateError creates an InvalidStateError for a rejected transition.
func NewInvalidStateError(from, to string) *InvalidStateError {
	return &InvalidStateError{From: from, To: to}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}
func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// DuplicateIDError reports an identifier collision on insert.
type DuplicateIDError struct {
	Entity string
	ID     string
}

// NewDuplicateIDError creates a DuplicateIDError.
func NewDuplicateIDError(entity, id string) *DuplicateIDError {
	return &DuplicateIDError{Entity: entity, ID: id}
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Entity, e.ID)
}

func (e *DuplicateIDError) Unwrap() error { return ErrDuplicateID }

// ConflictError reports a concurrent modification.
type ConflictError struct{ Message string }

// NewConflictError creates a ConflictError.
func NewConflictError(message string) *ConflictError { return &ConflictError{Message: message} }

func (e *ConflictError) Error() string { return e.Message }
func (e *ConflictError) Unwrap() error { return ErrConflict }

// ForbiddenError reports an authenticated caller lacking permission.
type ForbiddenError struct{ Message string }

// NewForbiddenError creates a ForbiddenError.
func NewForbiddenError(message string) *ForbiddenError { return &ForbiddenError{Message: message} }

func (e *ForbiddenError) Error() string { return e.Message }
func (e *ForbiddenError) Unwrap() error { return ErrForbidden }

// UnauthorizedError reports a missing or invalid credential.
type UnauthorizedError struct{ Message string }

// NewUnauthorizedError creates an UnauthorizedError.
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

func (e *UnauthorizedError) Error() string { return e.Message }
func (e *UnauthorizedError) Unwrap() error { return ErrUnauthorized }

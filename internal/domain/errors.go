package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
	ErrStorage      = errors.New("storage failure")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports missing or malformed input. It is the caller's fault
// and its message is returned to the client as-is.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for the given field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrInvalidInput) match any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NotFoundError reports that no row matched. Rows owned by someone else are
// reported the same way so callers cannot probe for their existence.
type NotFoundError struct {
	Resource string
	ID       string
	Message  string
}

// NewNotFoundError creates a NotFoundError with a formatted message
func NewNotFoundError(resource, id, format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
		Message:  fmt.Sprintf(format, args...),
	}
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match any NotFoundError
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StorageError wraps a failure of the underlying database or object store
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err with a description of the failed operation
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrStorage) match any StorageError
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

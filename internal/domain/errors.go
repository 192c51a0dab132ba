package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors that every typed error below matches with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrStorage    = errors.New("storage failure")
	ErrUpstream   = errors.New("upstream failure")
)

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string
	Key    string
}

// NewNotFoundError creates a NotFoundError for the given entity and key.
func NewNotFoundError(entity, key string) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: key}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError reports invalid caller input.
type ValidationError struct {
	Message string
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// StorageError wraps a failed database operation.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err as the failure of operation op.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// UpstreamError reports that the directions service answered with a
// non-success status or an unusable HTTP response.
type UpstreamError struct {
	Status  string
	Message string
}

// NewUpstreamError creates an UpstreamError.
func NewUpstreamError(status, message string) *UpstreamError {
	return &UpstreamError{Status: status, Message: message}
}

func (e *UpstreamError) Error() string {
	if e.Status == "" {
		return "upstream: " + e.Message
	}
	return fmt.Sprintf("upstream %s: %s", e.Status, e.Message)
}

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

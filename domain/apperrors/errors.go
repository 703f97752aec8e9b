// Package apperrors defines the error taxonomy shared by the use case
// and presentation layers. Callers branch on these types to decide
// whether an operation may be retried and what to surface to clients.
package apperrors

import (
	"errors"
	"fmt"
)

// ErrRecordNotFound is returned by repositories when no row matches.
var ErrRecordNotFound = errors.New("record not found")

// Validation reasons. These are stable identifiers surfaced to clients.
const (
	ReasonTooShort = "too_short"
	ReasonMismatch = "mismatch"
	ReasonEmpty    = "empty"
)

// ValidationError reports rejected input. It is never retried and never
// wraps a storage failure.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// StorageError wraps a persistence failure or timeout. The settings
// write path retries it once; activity log operations never do.
type StorageError struct {
	Op  string
	Err error
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ConsistencyError means a write reported success but the read-back did
// not reflect it, even after the single bounded retry.
type ConsistencyError struct {
	Op string
}

func NewConsistencyError(op string) *ConsistencyError {
	return &ConsistencyError{Op: op}
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("write verification failed during %s", e.Op)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConsistency reports whether err is (or wraps) a ConsistencyError.
func IsConsistency(err error) bool {
	var ce *ConsistencyError
	return errors.As(err, &ce)
}

package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller may not act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates a concurrent modification of the same resource.
var ErrConflict = errors.New("conflict")

// ErrInvariantViolation indicates data that breaks a ledger invariant, e.g. a payment
// referencing a bank account owned by a different customer.
var ErrInvariantViolation = errors.New("invariant violation")

// ErrInternal indicates an unexpected infrastructure failure.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	if e.Err == nil {
		return ErrInternal
	}
	return e.Err
}

// ValidationError reports a malformed record. RecordID names the offending record
// (transaction ID, or line index for records not yet persisted).
type ValidationError struct {
	RecordID string
	Field    string
	Reason   string
}

// NewValidationError creates a ValidationError.
func NewValidationError(recordID, field, reason string) *ValidationError {
	return &ValidationError{RecordID: recordID, Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.RecordID == "" {
		return fmt.Sprintf("%s: %s %s", ErrValidation.Error(), e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: record %s: %s %s", ErrValidation.Error(), e.RecordID, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// InvariantViolation aborts a reconciliation. It is never coerced into a valid result.
type InvariantViolation struct {
	RecordID string
	Reason   string
}

// NewInvariantViolation creates an InvariantViolation.
func NewInvariantViolation(recordID, reason string) *InvariantViolation {
	return &InvariantViolation{RecordID: recordID, Reason: reason}
}

func (e *InvariantViolation) Error() string {
	if e.RecordID == "" {
		return fmt.Sprintf("%s: %s", ErrInvariantViolation.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: record %s: %s", ErrInvariantViolation.Error(), e.RecordID, e.Reason)
}

func (e *InvariantViolation) Unwrap() error { return ErrInvariantViolation }

// DuplicateError reports a unique field (PAN, GST) already used by another resource.
type DuplicateError struct {
	Field      string
	Value      string
	ExistingID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s: %s %q is already used by %s", ErrDuplicate.Error(), e.Field, e.Value, e.ExistingID)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicate }

package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified query error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError with the same code, so that
// stderrors.Is(err, errors.EmptySequence("")) matches any empty-sequence failure.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Constructors ---

// ContractMisuse creates a new AppError for an operator used outside its contract.
func ContractMisuse(operation, reason string) *AppError {
	return &AppError{
		Code: ErrCodeContractMisuse, Message: fmt.Sprintf("%s: %s", operation, reason),
		Details: map[string]any{"operation": operation},
	}
}

// EmptySequence creates a new AppError for a terminal operation that needs at least one element.
func EmptySequence(operation string) *AppError {
	return &AppError{
		Code: ErrCodeEmptySequence, Message: fmt.Sprintf("%s: sequence contains no elements", operation),
		Details: map[string]any{"operation": operation},
	}
}

// CardinalityViolation creates a new AppError for a sequence with more than one element.
func CardinalityViolation(operation string) *AppError {
	return &AppError{
		Code: ErrCodeCardinalityViolation, Message: fmt.Sprintf("%s: sequence contains more than one element", operation),
		Details: map[string]any{"operation": operation},
	}
}

// IndexOutOfRange creates a new AppError for an element index past the end of the sequence.
func IndexOutOfRange(operation string, index int) *AppError {
	return &AppError{
		Code: ErrCodeIndexOutOfRange, Message: fmt.Sprintf("%s: index %d is out of range", operation, index),
		Details: map[string]any{"operation": operation, "index": index},
	}
}

// ClassMismatch creates a new AppError for an element that cannot be converted to the target type.
func ClassMismatch(value any, target string) *AppError {
	return &AppError{
		Code: ErrCodeClassMismatch, Message: fmt.Sprintf("cannot convert %T to %s", value, target),
		Details: map[string]any{"source_type": fmt.Sprintf("%T", value), "target_type": target},
	}
}

// DuplicateKey creates a new AppError for a key produced twice by a key selector.
func DuplicateKey(key any) *AppError {
	return &AppError{
		Code: ErrCodeDuplicateKey, Message: fmt.Sprintf("duplicate key: %v", key),
		Details: map[string]any{"key": key},
	}
}

// CloseFailed creates a new AppError for a failure while releasing owned cursors.
func CloseFailed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeCloseFailed, Message: "failed to release cursor",
		Cause: cause,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether any AppError in err's chain carries code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && stderrors.Is(err, &AppError{Code: code})
}

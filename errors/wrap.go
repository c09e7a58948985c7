package errors

import (
	"context"
	"errors"
	"fmt"
)

// Wrap wraps an error with additional context while preserving the error chain.
// If err is nil, Wrap returns nil.
// If err is already a RecordError, the wrapper keeps its code and category.
// Otherwise, it creates a new Internal error wrapping the original.
func Wrap(err error, message string, opts ...Option) *Error {
	if err == nil {
		return nil
	}

	var recErr *Error
	if errors.As(err, &recErr) {
		wrapped := &Error{
			code:      recErr.code,
			category:  recErr.category,
			message:   message,
			cause:     err,
			metadata:  recErr.Metadata(),
			retryable: recErr.retryable,
			timestamp: recErr.timestamp,
			resumeID:  recErr.resumeID,
			field:     recErr.field,
		}
		for _, opt := range opts {
			opt(wrapped)
		}
		return wrapped
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return New(ErrCodeTimeout, message, append(opts, WithCause(err))...)
	}
	if errors.Is(err, context.Canceled) {
		return New(ErrCodeCanceled, message, append(opts, WithCause(err))...)
	}

	return New(ErrCodeInternal, message, append(opts, WithCause(err))...)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps an error with a specific error code.
func WrapWithCode(err error, code ErrorCode, message string, opts ...Option) *Error {
	if err == nil {
		return nil
	}
	opts = append(opts, WithCause(err))
	return New(code, message, opts...)
}

// AsRecordError extracts a RecordError from an error chain.
// Returns nil if none is found.
func AsRecordError(err error) RecordError {
	var recErr *Error
	if errors.As(err, &recErr) {
		return recErr
	}
	return nil
}

// Is checks if the outermost RecordError in the chain has the given code.
func Is(err error, code ErrorCode) bool {
	var recErr *Error
	if errors.As(err, &recErr) {
		return recErr.code == code
	}
	return false
}

// IsCategory checks if the outermost RecordError in the chain has the given category.
func IsCategory(err error, category ErrorCategory) bool {
	var recErr *Error
	if errors.As(err, &recErr) {
		return recErr.category == category
	}
	return false
}

// IsRetryable checks if the error is retryable.
func IsRetryable(err error) bool {
	var recErr *Error
	if errors.As(err, &recErr) {
		return recErr.Retryable()
	}
	return false
}

// IsPermanent checks if the error is permanent.
func IsPermanent(err error) bool {
	return IsCategory(err, CategoryPermanent)
}

// IsStorage checks if the error came from the backing store.
func IsStorage(err error) bool {
	return IsCategory(err, CategoryStorage)
}

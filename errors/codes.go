package errors

// ErrorCategory classifies errors by their nature and retry semantics.
type ErrorCategory string

// Error categories define how errors should be handled.
const (
	// CategoryPermanent indicates failures caused by the input or the data.
	// Examples: duplicate resume id, missing name or email.
	CategoryPermanent ErrorCategory = "permanent"

	// CategoryTransient indicates temporary failures where retry may succeed.
	// Examples: NATS server unreachable, request timeout.
	CategoryTransient ErrorCategory = "transient"

	// CategoryStorage indicates the backing store could not be read or written.
	CategoryStorage ErrorCategory = "storage"

	// CategoryInternal indicates unexpected errors or corrupted state.
	CategoryInternal ErrorCategory = "internal"
)

// String returns the string representation of the category.
func (c ErrorCategory) String() string {
	return string(c)
}

// IsRetryable returns true if errors in this category may succeed on retry.
func (c ErrorCategory) IsRetryable() bool {
	switch c {
	case CategoryTransient, CategoryStorage:
		return true
	default:
		return false
	}
}

// ErrorCode identifies specific error types within categories.
type ErrorCode string

// Error codes for record management failures.
const (
	// Data-quality errors
	ErrCodeDuplicateID  ErrorCode = "DUPLICATE_ID"  // Resume id already present
	ErrCodeValidation   ErrorCode = "VALIDATION"    // Required personal info missing
	ErrCodeMissingField ErrorCode = "MISSING_FIELD" // Plain-data form lacks a required key
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"     // Resume id not present
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT" // Malformed argument or configuration
	ErrCodeCanceled     ErrorCode = "CANCELED"      // Operation was canceled

	// Persistence errors
	ErrCodeStorage     ErrorCode = "STORAGE"     // Backing store read/write failed
	ErrCodeUnavailable ErrorCode = "UNAVAILABLE" // Remote store temporarily unavailable
	ErrCodeTimeout     ErrorCode = "TIMEOUT"     // Store operation timed out

	// Internal errors
	ErrCodeCorruption ErrorCode = "CORRUPTION" // Backing store content is not a valid document
	ErrCodeInternal   ErrorCode = "INTERNAL"   // Unexpected internal error
)

// String returns the string representation of the error code.
func (c ErrorCode) String() string {
	return string(c)
}

// DefaultCategory returns the default category for an error code.
func (c ErrorCode) DefaultCategory() ErrorCategory {
	switch c {
	case ErrCodeDuplicateID, ErrCodeValidation, ErrCodeMissingField,
		ErrCodeNotFound, ErrCodeInvalidInput, ErrCodeCanceled:
		return CategoryPermanent
	case ErrCodeUnavailable, ErrCodeTimeout:
		return CategoryTransient
	case ErrCodeStorage:
		return CategoryStorage
	default:
		return CategoryInternal
	}
}

// DefaultRetryable returns whether this error code is typically retryable.
func (c ErrorCode) DefaultRetryable() bool {
	return c.DefaultCategory().IsRetryable()
}

var codeDescriptions = map[ErrorCode]string{
	ErrCodeDuplicateID:  "resume id already exists",
	ErrCodeValidation:   "validation failed",
	ErrCodeMissingField: "required field missing",
	ErrCodeNotFound:     "resume not found",
	ErrCodeInvalidInput: "invalid input provided",
	ErrCodeCanceled:     "operation canceled",
	ErrCodeStorage:      "backing store failure",
	ErrCodeUnavailable:  "store temporarily unavailable",
	ErrCodeTimeout:      "operation timed out",
	ErrCodeCorruption:   "data corruption detected",
	ErrCodeInternal:     "internal error",
}

// Description returns a human-readable description for the error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

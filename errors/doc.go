// Package errors provides the structured error taxonomy used across
// resumekit. Every error carries a code and a category so callers can tell
// a rejected input apart from a failing backing store.
//
// # Error Categories
//
//   - Permanent: the input or the data is wrong (duplicate id, missing field)
//   - Transient: a remote store is temporarily unreachable
//   - Storage: the backing store could not be read or written
//   - Internal: corrupted documents and unexpected failures
//
// # Usage
//
// Create an error for a rejected create call:
//
//	err := errors.DuplicateID("jdoe")
//
// Wrap a lower-level failure:
//
//	err := errors.WrapWithCode(ioErr, errors.ErrCodeStorage, "write resumes.json")
//
// Check what went wrong:
//
//	if errors.Is(err, errors.ErrCodeValidation) {
//	    // ask the user for the missing field
//	}
//
// "Not found" is never an error in the record manager; lookups and
// mutations report it through their boolean result. NotFound exists for
// presentation layers that turn that result into a message.
package errors

package store

import (
	"context"
	"errors"
)

// Common errors.
var (
	ErrNotFound = errors.New("document not found")
	ErrClosed   = errors.New("store closed")
)

// Store holds the encoded resume document.
type Store interface {
	// Read returns the whole document.
	// Returns ErrNotFound if nothing has been written yet.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the whole document.
	Write(ctx context.Context, data []byte) error

	// Location describes where the document lives, for logs.
	Location() string

	// Close releases resources. Further calls return ErrClosed.
	Close() error
}

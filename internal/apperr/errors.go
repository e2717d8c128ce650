// Package apperr defines the error taxonomy shared across Munin.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a document is absent from the active store.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuery indicates a malformed filter value (e.g. a date that
	// does not parse). Surfaced to the caller, never fatal.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrPathOutsideVault indicates a path that resolves outside the vault
	// root. Rejected before any file access.
	ErrPathOutsideVault = errors.New("path escapes vault root")
)

// IndexError records one per-file indexing failure. Failures are collected
// during a pass and reported together; they never abort the pass.
type IndexError struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func (e IndexError) Error() string {
	return fmt.Sprintf("index %s: %s", e.Path, e.Reason)
}

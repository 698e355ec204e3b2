// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a path does not name a node of the expected kind.
	ErrNotFound = errors.New("not found in VFS")
	// ErrLoad is the sentinel wrapped by LoadError.
	ErrLoad = errors.New("failed to load VFS document")
	// ErrMalformedDocument is returned when a document parses but does not follow
	// the {root: {entries: ...}} schema.
	ErrMalformedDocument = errors.New("malformed VFS document")
)

type (
	// NotFoundError reports the path that failed to resolve.
	// It wraps ErrNotFound for errors.Is() compatibility.
	NotFoundError struct {
		Path string
	}

	// LoadError is returned alongside an empty tree when a document cannot be
	// read or does not match the schema.
	LoadError struct {
		Path  string
		Cause error
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotFound, e.Path)
}

// Unwrap returns ErrNotFound.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", ErrLoad, e.Path)
	}
	return fmt.Sprintf("%s %s: %v", ErrLoad, e.Path, e.Cause)
}

// Unwrap returns the underlying causes so both ErrLoad and the cause match errors.Is.
func (e *LoadError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrLoad}
	}
	return []error{ErrLoad, e.Cause}
}

func malformed(path, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedDocument, path, fmt.Sprintf(format, args...))
}

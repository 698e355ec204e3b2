// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCommand is the sentinel wrapped by UnknownCommandError.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrCommandFailed is the sentinel wrapped by HandlerError.
	ErrCommandFailed = errors.New("command failed")
	// ErrUsage is the sentinel wrapped by UsageError.
	ErrUsage = errors.New("invalid usage")
	// ErrNotFound is the sentinel wrapped by NotFoundError.
	ErrNotFound = errors.New("not found")
)

type (
	// UnknownCommandError is returned by Dispatch for a name with no command.
	UnknownCommandError struct {
		Name string
	}

	// HandlerError is returned by Dispatch when a command fails.
	HandlerError struct {
		Command string
		Cause   error
	}

	// UsageError reports wrong arguments. No I/O has been performed.
	UsageError struct {
		Usage string
	}

	// NotFoundError reports a path absent from the backend it was looked up in.
	NotFoundError struct {
		// Subject is the user-facing description, e.g. "file not found in VFS".
		Subject string
		Path    string
		Cause   error
	}
)

// Error implements the error interface.
func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownCommand, e.Name)
}

// Unwrap returns ErrUnknownCommand.
func (e *UnknownCommandError) Unwrap() error { return ErrUnknownCommand }

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("error executing command %s: %v", e.Command, e.Cause)
}

// Unwrap returns ErrCommandFailed and the cause.
func (e *HandlerError) Unwrap() []error {
	return []error{ErrCommandFailed, e.Cause}
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	return "usage: " + e.Usage
}

// Unwrap returns ErrUsage.
func (e *UsageError) Unwrap() error { return ErrUsage }

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", e.Subject, e.Path)
}

// Unwrap returns ErrNotFound and the cause, if any.
func (e *NotFoundError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrNotFound}
	}
	return []error{ErrNotFound, e.Cause}
}

// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInterrupted is returned by a LineReader when the operator interrupts
	// a pending read.
	ErrInterrupted = errors.New("interrupted")

	// ErrScriptHalted is the sentinel matched by every ScriptHaltError.
	ErrScriptHalted = errors.New("script halted")

	// ErrScriptUnreadable is returned when a script cannot be read.
	ErrScriptUnreadable = errors.New("script unreadable")
)

type (
	// ScriptHaltError reports the script line that stopped the script phase.
	ScriptHaltError struct {
		// Line is the 1-based line number in the script file.
		Line int
		// Text is the line with surrounding whitespace removed.
		Text  string
		Cause error
	}

	// ScriptReadError is returned when the script file is missing or unreadable.
	ScriptReadError struct {
		Path  string
		Cause error
	}
)

// Error implements the error interface.
func (e *ScriptHaltError) Error() string {
	return fmt.Sprintf("error at line %d: %s", e.Line, e.Text)
}

// Unwrap returns ErrScriptHalted and the command failure.
func (e *ScriptHaltError) Unwrap() []error {
	return []error{ErrScriptHalted, e.Cause}
}

// Error implements the error interface.
func (e *ScriptReadError) Error() string {
	if isNotExist(e.Cause) {
		return "error: script not found: " + e.Path
	}
	return fmt.Sprintf("error: cannot read script %s: %v", e.Path, e.Cause)
}

// Unwrap returns ErrScriptUnreadable and the underlying I/O error.
func (e *ScriptReadError) Unwrap() []error {
	return []error{ErrScriptUnreadable, e.Cause}
}

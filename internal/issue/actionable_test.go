// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "load configuration"},
			expected: "failed to load configuration",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "mount virtual filesystem", Resource: "/mnt/vfs"},
			expected: "failed to mount virtual filesystem: /mnt/vfs",
		},
		{
			name:     "operation with cause",
			err:      &ActionableError{Operation: "start ssh server", Cause: errors.New("address in use")},
			expected: "failed to start ssh server: address in use",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "load configuration",
				Resource:  "config.cue",
				Cause:     errors.New("conflicting values"),
			},
			expected: "failed to load configuration: config.cue: conflicting values",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_ErrorsIs(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().
		WithOperation("read script").
		Wrap(fs.ErrNotExist).
		BuildError()

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is should find the wrapped cause")
	}
	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatal("errors.As should find *ActionableError")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("permission denied")
	err := &ActionableError{
		Operation:   "mount virtual filesystem",
		Resource:    "/mnt/vfs",
		Suggestions: []string{"Install fuse3", "Use an empty directory"},
		Cause:       &wrapped{msg: "open /dev/fuse", err: inner},
	}

	short := err.Format(false)
	want := "failed to mount virtual filesystem: /mnt/vfs: open /dev/fuse: permission denied\n\n  • Install fuse3\n  • Use an empty directory"
	if short != want {
		t.Errorf("Format(false) =\n%q\nwant\n%q", short, want)
	}
	if strings.Contains(short, "Error chain") {
		t.Error("non-verbose format must not include the error chain")
	}

	long := err.Format(true)
	for _, part := range []string{"Error chain:", "1. open /dev/fuse: permission denied", "2. permission denied"} {
		if !strings.Contains(long, part) {
			t.Errorf("Format(true) missing %q:\n%s", part, long)
		}
	}
}

func TestActionableError_HasSuggestions(t *testing.T) {
	t.Parallel()

	if (&ActionableError{Operation: "x"}).HasSuggestions() {
		t.Error("HasSuggestions() = true for no suggestions")
	}
	if !(&ActionableError{Operation: "x", Suggestions: []string{"y"}}).HasSuggestions() {
		t.Error("HasSuggestions() = false with a suggestion")
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	ae := NewErrorContext().
		WithOperation("start ssh server").
		WithResource("127.0.0.1:2222").
		WithSuggestion("Pick another port").
		WithSuggestions("Check the host key", "Retry").
		WithIssue(ServeFailedId).
		Wrap(cause).
		Build()

	if ae == nil {
		t.Fatal("Build() returned nil")
	}
	if ae.Operation != "start ssh server" || ae.Resource != "127.0.0.1:2222" {
		t.Errorf("unexpected context: %+v", ae)
	}
	if len(ae.Suggestions) != 3 {
		t.Errorf("Suggestions = %v, want 3 entries", ae.Suggestions)
	}
	if ae.Issue != ServeFailedId {
		t.Errorf("Issue = %d, want %d", ae.Issue, ServeFailedId)
	}
	if ae.Cause != cause {
		t.Errorf("Cause = %v, want %v", ae.Cause, cause)
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	t.Parallel()

	if ae := NewErrorContext().WithResource("x").Build(); ae != nil {
		t.Errorf("Build() = %v, want nil without operation", ae)
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() = %v, want nil without operation", err)
	}
}

func TestWrapWithContext(t *testing.T) {
	t.Parallel()

	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}
	err := WrapWithContext(errors.New("bad"), "load vfs", "fs.json")
	if got := err.Error(); got != "failed to load vfs: fs.json: bad" {
		t.Errorf("Error() = %q", got)
	}
}

type wrapped struct {
	msg string
	err error
}

func (w *wrapped) Error() string { return w.msg + ": " + w.err.Error() }
func (w *wrapped) Unwrap() error { return w.err }

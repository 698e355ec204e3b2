// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"io"
	"strings"

	"vshell-cli/internal/hostfs"
	"vshell-cli/internal/vfs"
)

type (
	// Command is a built-in shell command.
	Command interface {
		// Name returns the command name as typed by the user (e.g., "ls").
		Name() string

		// Usage returns the argument synopsis (e.g., "cat <file>").
		Usage() string

		// Synopsis returns a one-line description.
		Synopsis() string

		// Run executes the command. args excludes the command name.
		Run(ctx context.Context, env *Env, args []string) Result
	}

	// Env is what a command operates on.
	Env struct {
		// Session is the state shared by every command of one run.
		Session *Session
		// VFS answers queries for "/"-prefixed paths.
		VFS *vfs.Engine
		// Host answers queries for every other path.
		Host *hostfs.FS
		// Commands is the registry dispatching the current command.
		Commands *Registry
	}

	// Result is the outcome of one command: the text to print and, if the
	// command failed, why.
	Result struct {
		Output string
		Err    error
	}

	// builtin carries the descriptive parts shared by all built-in commands.
	builtin struct {
		name     string
		usage    string
		synopsis string
	}
)

// OK returns a successful result printing output.
func OK(output string) Result {
	return Result{Output: output}
}

// Fail returns a failed result.
func Fail(err error) Result {
	return Result{Err: err}
}

// Failed reports whether the command failed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Name returns the command name.
func (b *builtin) Name() string { return b.name }

// Usage returns the argument synopsis.
func (b *builtin) Usage() string { return b.usage }

// Synopsis returns the one-line description.
func (b *builtin) Synopsis() string { return b.synopsis }

// lines renders one item per line.
func lines(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return strings.Join(items, "\n") + "\n"
}

// writeResult copies a result's output to w.
func writeResult(w io.Writer, r Result) error {
	if r.Output == "" || w == nil {
		return nil
	}
	_, err := io.WriteString(w, r.Output)
	return err
}

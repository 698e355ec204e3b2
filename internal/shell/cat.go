// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"strings"
)

// catCommand prints a VFS or host file.
type catCommand struct {
	builtin
}

func init() {
	RegisterDefault(newCatCommand())
}

func newCatCommand() *catCommand {
	return &catCommand{
		builtin: builtin{
			name:     "cat",
			usage:    "cat <file>",
			synopsis: "print a VFS file (/path) or a host file",
		},
	}
}

// Run prints the file followed by a newline.
func (c *catCommand) Run(_ context.Context, env *Env, args []string) Result {
	if len(args) != 1 {
		return Fail(&UsageError{Usage: c.usage})
	}
	path := args[0]

	if strings.HasPrefix(path, "/") {
		content, err := env.VFS.GetFileContent(path)
		if err != nil {
			return Fail(&NotFoundError{Subject: "file not found in VFS", Path: path, Cause: err})
		}
		return OK(string(content) + "\n")
	}

	content, err := env.Host.ReadFile(env.Host.ExpandHome(path))
	if err != nil {
		return Fail(err)
	}
	return OK(string(content) + "\n")
}

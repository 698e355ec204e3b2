// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"strings"
)

// lsCommand lists a VFS or host directory.
type lsCommand struct {
	builtin
}

func init() {
	RegisterDefault(newLsCommand())
}

func newLsCommand() *lsCommand {
	return &lsCommand{
		builtin: builtin{
			name:     "ls",
			usage:    "ls [path]",
			synopsis: "list a VFS directory (/path) or a host directory",
		},
	}
}

// Run lists the directory named by args[0], "." by default.
func (c *lsCommand) Run(_ context.Context, env *Env, args []string) Result {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	// An empty listing and a missing VFS directory look the same here.
	if strings.HasPrefix(path, "/") {
		return OK(lines(env.VFS.ListDirectory(path)))
	}

	hostPath := env.Host.ExpandHome(path)
	exists, err := env.Host.Exists(hostPath)
	if err != nil {
		return Fail(err)
	}
	if !exists {
		return Fail(&NotFoundError{Subject: "directory does not exist", Path: path})
	}

	names, err := env.Host.ReadDir(hostPath)
	if err != nil {
		return Fail(err)
	}
	return OK(lines(names))
}

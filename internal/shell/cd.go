// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"fmt"
)

// cdCommand changes the displayed current directory.
type cdCommand struct {
	builtin
}

func init() {
	RegisterDefault(newCdCommand())
}

func newCdCommand() *cdCommand {
	return &cdCommand{
		builtin: builtin{
			name:     "cd",
			usage:    "cd [path]",
			synopsis: "set the current directory shown in the prompt",
		},
	}
}

// Run sets the session directory without checking that it exists anywhere.
func (c *cdCommand) Run(_ context.Context, env *Env, args []string) Result {
	dir := DefaultDirectory
	if len(args) > 0 {
		dir = args[0]
	}
	env.Session.CurrentDir = dir
	return OK(fmt.Sprintf("Current directory: %s\n", dir))
}

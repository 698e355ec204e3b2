// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"fmt"
	"strings"
)

type helpCommand struct {
	builtin
}

func init() {
	RegisterDefault(&helpCommand{builtin: builtin{
		name:     "help",
		usage:    "help",
		synopsis: "list the available commands",
	}})
}

// Run prints every registered command with its usage and synopsis.
func (c *helpCommand) Run(_ context.Context, env *Env, _ []string) Result {
	if env.Commands == nil {
		return OK("")
	}

	cmds := env.Commands.Commands()
	width := 0
	for _, cmd := range cmds {
		width = max(width, len(cmd.Usage()))
	}

	var sb strings.Builder
	for _, cmd := range cmds {
		fmt.Fprintf(&sb, "%-*s  %s\n", width, cmd.Usage(), cmd.Synopsis())
	}
	return OK(sb.String())
}

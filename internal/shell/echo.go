// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"strings"
)

type echoCommand struct {
	builtin
}

func init() {
	RegisterDefault(&echoCommand{builtin: builtin{
		name:     "echo",
		usage:    "echo [args...]",
		synopsis: "print the arguments separated by spaces",
	}})
}

// Run prints the arguments joined by a single space.
func (c *echoCommand) Run(_ context.Context, _ *Env, args []string) Result {
	return OK(strings.Join(args, " ") + "\n")
}

// SPDX-License-Identifier: MPL-2.0

package shell

import "context"

type pwdCommand struct {
	builtin
}

func init() {
	RegisterDefault(&pwdCommand{builtin: builtin{
		name:     "pwd",
		usage:    "pwd",
		synopsis: "print the current directory",
	}})
}

// Run prints the session directory. No backend is consulted.
func (c *pwdCommand) Run(_ context.Context, env *Env, _ []string) Result {
	return OK(env.Session.CurrentDir + "\n")
}

// SPDX-License-Identifier: MPL-2.0

package shell

import "context"

// ShutdownMessage is printed by the exit command.
const ShutdownMessage = "Shutting down the emulator"

type exitCommand struct {
	builtin
}

func init() {
	RegisterDefault(&exitCommand{builtin: builtin{
		name:     "exit",
		usage:    "exit",
		synopsis: "leave the shell",
	}})
}

// Run stops the session. It is the only command that clears Session.Running.
func (c *exitCommand) Run(_ context.Context, env *Env, _ []string) Result {
	env.Session.Running = false
	return OK(ShutdownMessage + "\n")
}

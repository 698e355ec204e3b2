// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
)

// DefaultRegistry holds the built-in commands.
// Commands are registered during package initialization.
var DefaultRegistry = NewRegistry()

// Registry maps command names to commands. Names are case-sensitive.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

// Register adds a command to the registry.
// Panics if a command with the same name is already registered.
func (r *Registry) Register(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := cmd.Name()
	if name == "" {
		panic("shell: cannot register command with empty name")
	}
	if _, exists := r.commands[name]; exists {
		panic(fmt.Sprintf("shell: command %q already registered", name))
	}
	r.commands[name] = cmd
}

// Lookup retrieves a command by name.
func (r *Registry) Lookup(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns the names of all registered commands in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Commands returns all registered commands sorted by name.
func (r *Registry) Commands() []Command {
	names := r.Names()
	cmds := make([]Command, 0, len(names))
	for _, name := range names {
		if cmd, ok := r.Lookup(name); ok {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// Dispatch runs the named command and writes its output to out.
//
// It returns an *UnknownCommandError when no command has that name, and a
// *HandlerError when the command fails or panics. Changes the command made to
// env.Session before failing are not undone.
func (r *Registry) Dispatch(ctx context.Context, env *Env, out io.Writer, name string, args []string) (err error) {
	cmd, ok := r.Lookup(name)
	if !ok {
		return &UnknownCommandError{Name: name}
	}

	cmdEnv := *env
	cmdEnv.Commands = r

	defer func() {
		if p := recover(); p != nil {
			err = &HandlerError{Command: name, Cause: fmt.Errorf("panic: %v", p)}
		}
	}()

	res := cmd.Run(ctx, &cmdEnv, args)
	if writeErr := writeResult(out, res); writeErr != nil && res.Err == nil {
		res.Err = writeErr
	}
	if res.Err != nil {
		return &HandlerError{Command: name, Cause: res.Err}
	}
	return nil
}

// RegisterDefault registers a command in the DefaultRegistry.
// This is called from init() functions in the built-in command files.
func RegisterDefault(cmd Command) {
	DefaultRegistry.Register(cmd)
}

// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vshell-cli/internal/vfs"

	"github.com/bmatcuk/doublestar/v4"
)

// findCommand lists paths matching a glob pattern. "**" matches across
// directory levels.
type findCommand struct {
	builtin
}

func init() {
	RegisterDefault(newFindCommand())
}

func newFindCommand() *findCommand {
	return &findCommand{
		builtin: builtin{
			name:     "find",
			usage:    "find <pattern>",
			synopsis: "list VFS (/pattern) or host paths matching a glob",
		},
	}
}

// Run prints one matching path per line. No match is not an error.
func (c *findCommand) Run(ctx context.Context, env *Env, args []string) Result {
	if len(args) != 1 {
		return Fail(&UsageError{Usage: c.usage})
	}
	pattern := args[0]

	var (
		matches []string
		err     error
	)
	if strings.HasPrefix(pattern, "/") {
		matches, err = findVFS(ctx, env.VFS, pattern)
	} else {
		matches, err = env.Host.Glob(pattern)
	}
	if errors.Is(err, doublestar.ErrBadPattern) {
		return Fail(&UsageError{Usage: fmt.Sprintf("%s (bad pattern %q)", c.usage, pattern)})
	}
	if err != nil {
		return Fail(err)
	}
	return OK(lines(matches))
}

func findVFS(ctx context.Context, engine *vfs.Engine, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}

	var matches []string
	err := engine.Walk(func(p string, _ *vfs.Node) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ok, _ := doublestar.Match(pattern, p); ok {
			matches = append(matches, p)
		}
		return nil
	})
	return matches, err
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"github.com/charmbracelet/lipgloss"

	"vshell-cli/internal/config"
	"vshell-cli/internal/engine"
	"vshell-cli/internal/hostfs"
	"vshell-cli/internal/issue"
	"vshell-cli/internal/vfs"
)

// loadTree reads the configured VFS document. On failure the returned tree
// is empty and the error is a *vfs.LoadError.
func (a *App) loadTree(s *settings) (*vfs.Tree, error) {
	return vfs.Load(s.vfsPath, vfs.LoadOptions{
		Fs:      a.Fs,
		MaxSize: s.cfg.VFS.MaxSize,
		Logger:  s.logger,
	})
}

// loadTreeOrEmpty loads the configured VFS document for a session surface. A
// document that fails to load has already been logged by the loader and is
// replaced by an empty tree; --verbose adds the catalog entry.
func (a *App) loadTreeOrEmpty(s *settings) *vfs.Tree {
	tree, err := a.loadTree(s)
	if err != nil && s.verbose {
		a.renderIssue(issue.VFSLoadFailedId, s)
	}
	return tree
}

// runShell runs the script phase (when script is set) and the interactive
// phase on the process streams.
func (a *App) runShell(ctx context.Context, s *settings, script string) error {
	s.logger.Debug("launching shell", "vfs", s.vfsPath, "script", script)

	tree := a.loadTreeOrEmpty(s)

	// The engine reports a missing script; --verbose adds the catalog entry.
	host := hostfs.New(a.Fs)
	if script != "" && s.verbose {
		if ok, _ := host.Exists(host.ExpandHome(script)); !ok {
			a.renderIssue(issue.ScriptNotFoundId, s)
		}
	}

	reader := engine.NewConsoleReader(a.stdin, a.stdout)
	defer func() { _ = reader.Close() }()

	eng := engine.New(engine.Options{
		Stdout:   a.stdout,
		Reader:   reader,
		Commands: a.Commands,
		VFS:      vfs.NewEngine(tree),
		Host:     host,
		Prompt:   a.newPrompt(s),
		Logger:   s.logger,
	})
	return eng.Run(ctx, script)
}

// newPrompt colors the prompt when stdout is a terminal.
func (a *App) newPrompt(s *settings) *engine.Prompt {
	userName, hostName := engine.Identity()
	if !a.isTTY(a.stdout) {
		return engine.NewPrompt(userName, hostName)
	}

	r := lipgloss.NewRenderer(a.stdout)
	switch s.cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		r.SetHasDarkBackground(true)
	case config.ColorSchemeLight:
		r.SetHasDarkBackground(false)
	}
	return engine.NewStyledPrompt(userName, hostName, r)
}

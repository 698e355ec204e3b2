// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for vshell.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the command tree. Running the root command starts
// the shell.
func newRootCommand(app *App) *cobra.Command {
	flags := &globalFlags{}
	var script string

	root := &cobra.Command{
		Use:   "vshell",
		Short: "A shell emulator over a read-only virtual filesystem",
		Long: TitleStyle.Render("vshell") + SubtitleStyle.Render(" - a shell emulator over a read-only virtual filesystem") + `

vshell loads a JSON document describing a directory tree and lets you browse
it with ls, cd, cat and find. Absolute paths address the virtual filesystem;
other paths are read from the host. An optional startup script is replayed
line by line before the interactive prompt appears.

` + SubtitleStyle.Render("Examples:") + `
  vshell --vfs fs.json                    Start the shell
  vshell --vfs fs.json --script init.sh   Replay init.sh, then prompt
  vshell mount --vfs fs.json ./mnt        Browse the document with real tools
  vshell serve --vfs fs.json              Share the shell over SSH`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := app.resolveSettings(cmd.Context(), cmd, flags)
			if !cmd.Flags().Changed("script") {
				script = s.cfg.Script
			}
			return app.runShell(cmd.Context(), s, script)
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/vshell/config.cue)")
	root.PersistentFlags().StringVar(&flags.vfsPath, "vfs", "", "path to the VFS document (.json, .json.gz or .json.zst)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	root.Flags().StringVar(&script, "script", "", "script to replay before the interactive phase")

	root.AddCommand(
		newConfigCommand(app, flags),
		newCommandsCommand(app, flags),
		newMountCommand(app, flags),
		newServeCommand(app, flags),
	)
	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. It is called by main.main().
//
// Interrupts are not turned into context cancellation: the interactive shell
// reports Ctrl-C itself, and long-running subcommands install their own
// signal handling.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

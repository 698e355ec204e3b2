// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"vshell-cli/internal/config"
)

// newConfigCommand creates the `vshell config` command tree.
func newConfigCommand(app *App, flags *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vshell configuration",
		Long: `Manage vshell configuration.

Configuration is read from config.cue in:
  - Linux: $XDG_CONFIG_HOME/vshell (default ~/.config/vshell)
  - macOS: ~/Library/Application Support/vshell
  - Windows: %APPDATA%\vshell
and then from the current directory. VSHELL_* environment variables
override file values (for example VSHELL_VFS_PATH).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.showConfig(cmd.Context(), flags, config.Format(format))
		},
	}
	showCmd.Flags().StringVarP(&format, "format", "f", string(config.FormatCUE), "output format: cue, toml or json")

	cfgCmd.AddCommand(
		showCmd,
		&cobra.Command{
			Use:   "init",
			Short: "Write the default configuration file",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return app.initConfig()
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file location",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return app.showConfigPath(flags)
			},
		},
	)
	return cfgCmd
}

func (a *App) showConfig(ctx context.Context, flags *globalFlags, format config.Format) error {
	cfg, _, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return err
	}
	out, err := config.Render(cfg, format)
	if err != nil {
		return err
	}
	_, err = a.stdout.Write(out)
	return err
}

func (a *App) initConfig() error {
	path, created, err := config.CreateDefaultConfig(config.LoadOptions{})
	if err != nil {
		return err
	}
	if !created {
		_, _ = fmt.Fprintf(a.stdout, "%s %s\n", WarningStyle.Render("Config file already exists:"), PathStyle.Render(path))
		return nil
	}
	_, _ = fmt.Fprintf(a.stdout, "%s %s\n", SuccessStyle.Render("Created config file:"), PathStyle.Render(path))
	return nil
}

func (a *App) showConfigPath(flags *globalFlags) error {
	path, found, err := config.ResolvePath(config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return err
	}
	if found {
		_, _ = fmt.Fprintln(a.stdout, path)
		return nil
	}
	_, _ = fmt.Fprintf(a.stdout, "%s %s\n", path, SubtitleStyle.Render("(not created yet, using defaults)"))
	return nil
}

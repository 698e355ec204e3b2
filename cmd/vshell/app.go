// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vshell-cli/internal/config"
	"vshell-cli/internal/shell"
)

type (
	// App wires CLI services and shared dependencies. Every Cobra handler
	// receives the App and reads its streams and providers from it.
	App struct {
		Config   config.Provider
		Commands *shell.Registry
		// Fs is where VFS documents are read from.
		Fs     afero.Fs
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer
		isTTY  func(io.Writer) bool
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config   config.Provider
		Commands *shell.Registry
		Fs       afero.Fs
		Stdin    io.Reader
		Stdout   io.Writer
		Stderr   io.Writer
		// IsTerminal reports whether a stream is an interactive terminal.
		IsTerminal func(io.Writer) bool
	}

	// globalFlags are the persistent flags shared by every subcommand.
	globalFlags struct {
		configPath string
		vfsPath    string
		verbose    bool
	}

	// settings is the effective configuration of one invocation: config file
	// values overridden by explicitly set flags.
	settings struct {
		cfg     *config.Config
		cfgPath string
		vfsPath string
		verbose bool
		logger  *log.Logger
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Commands == nil {
		deps.Commands = shell.DefaultRegistry
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewReadOnlyFs(afero.NewOsFs())
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.IsTerminal == nil {
		deps.IsTerminal = isTerminal
	}

	return &App{
		Config:   deps.Config,
		Commands: deps.Commands,
		Fs:       deps.Fs,
		stdin:    deps.Stdin,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
		isTTY:    deps.IsTerminal,
	}
}

// resolveSettings loads configuration and applies flag overrides.
// A broken config file is reported and replaced by defaults so the shell
// still starts.
func (a *App) resolveSettings(ctx context.Context, cmd *cobra.Command, flags *globalFlags) *settings {
	cfg, cfgPath, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})

	s := &settings{cfg: cfg, cfgPath: cfgPath}
	if cfg == nil {
		s.cfg = config.DefaultConfig()
	}

	s.verbose = s.cfg.UI.Verbose
	if cmd.Flags().Changed("verbose") {
		s.verbose = flags.verbose
	}
	s.vfsPath = s.cfg.VFS.Path
	if cmd.Flags().Changed("vfs") {
		s.vfsPath = flags.vfsPath
	}

	s.logger = newLogger(a.stderr, s.verbose)
	if err != nil {
		_, _ = io.WriteString(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, s.verbose)+"\n")
		a.renderIssueHint(err, s)
	}
	s.logger.Debug("configuration resolved", "config_file", cfgPath, "vfs", s.vfsPath, "verbose", s.verbose)
	return s
}

// glamourStyle maps the configured color scheme to a glamour style name.
func (s *settings) glamourStyle() string {
	switch s.cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "vshell",
		Level:  level,
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"vshell-cli/internal/hostfs"
	"vshell-cli/internal/shell"
	"vshell-cli/internal/vfs"
)

const (
	bannerRuleWidth = 50
	scriptRuleWidth = 40

	// WelcomeMessage is the first line printed by Run.
	WelcomeMessage = "Welcome to the shell emulator!"
	// ExitHint tells the operator how to leave.
	ExitHint = "Type 'exit' to quit"
	// EOFMessage is printed when input ends.
	EOFMessage = "Shutting down"
)

type (
	// Options configures an Engine. Zero values select the process defaults.
	Options struct {
		// Stdout receives prompts, command output and banners.
		Stdout io.Writer
		// Stderr receives error reports. Defaults to Stdout so that the
		// transcript keeps its order.
		Stderr io.Writer
		// Reader supplies interactive input. Defaults to a ConsoleReader on
		// os.Stdin.
		Reader   LineReader
		Commands *shell.Registry
		VFS      *vfs.Engine
		Host     *hostfs.FS
		Prompt   *Prompt
		Logger   *log.Logger
		// Lookup resolves $VAR references during tokenization.
		Lookup func(string) string
	}

	// Engine executes one shell session. It is not safe for concurrent use;
	// run one Engine per operator.
	Engine struct {
		session  *shell.Session
		env      *shell.Env
		commands *shell.Registry
		stdout   io.Writer
		stderr   io.Writer
		reader   LineReader
		prompt   *Prompt
		logger   *log.Logger
		lookup   func(string) string
	}
)

// New creates an Engine with a fresh session.
func New(opts Options) *Engine {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = opts.Stdout
	}
	if opts.Reader == nil {
		opts.Reader = NewConsoleReader(os.Stdin, opts.Stdout)
	}
	if opts.Commands == nil {
		opts.Commands = shell.DefaultRegistry
	}
	if opts.VFS == nil {
		opts.VFS = vfs.NewEngine(nil)
	}
	if opts.Host == nil {
		opts.Host = hostfs.NewOS()
	}
	if opts.Prompt == nil {
		opts.Prompt = NewPrompt(Identity())
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Lookup == nil {
		opts.Lookup = os.Getenv
	}

	session := shell.NewSession()
	return &Engine{
		session: session,
		env: &shell.Env{
			Session:  session,
			VFS:      opts.VFS,
			Host:     opts.Host,
			Commands: opts.Commands,
		},
		commands: opts.Commands,
		stdout:   opts.Stdout,
		stderr:   opts.Stderr,
		reader:   opts.Reader,
		prompt:   opts.Prompt,
		logger:   opts.Logger,
		lookup:   opts.Lookup,
	}
}

// Session returns the session state driven by the engine.
func (e *Engine) Session() *shell.Session {
	return e.session
}

// Run prints the welcome banner, replays scriptPath when it is not empty and
// then runs the interactive phase. Script failures are reported but do not
// prevent the interactive phase; only a cancelled context or a broken input
// stream is returned as an error.
func (e *Engine) Run(ctx context.Context, scriptPath string) error {
	e.printf("%s\n%s\n%s\n", WelcomeMessage, ExitHint, rule(bannerRuleWidth))

	if scriptPath != "" {
		if err := e.RunScript(ctx, scriptPath); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			e.logger.Debug("script phase ended early", "script", scriptPath, "error", err)
		}
		if e.session.Running {
			e.printf("Returning to interactive mode...\n%s\n", rule(bannerRuleWidth))
		}
	}

	return e.RunInteractive(ctx)
}

// RunScript replays the script at path line by line. Blank lines and lines
// starting with "#" are skipped; every other line is echoed after the prompt
// and executed. The first failing line stops the script with a
// *ScriptHaltError, and running exit stops it without error.
func (e *Engine) RunScript(ctx context.Context, path string) error {
	data, err := e.env.Host.ReadFile(e.env.Host.ExpandHome(path))
	if err != nil {
		readErr := &ScriptReadError{Path: path, Cause: err}
		e.reportf("%s\n", readErr)
		return readErr
	}

	e.session.InScript = true
	e.printf("Executing script: %s\n%s\n", path, rule(scriptRuleWidth))
	defer func() {
		e.session.InScript = false
		e.printf("%s\nScript execution finished\n", rule(scriptRuleWidth))
	}()

	for i, raw := range scriptLines(data) {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		e.printf("%s%s\n", e.prompt.Render(e.session.CurrentDir), line)
		if err := e.Execute(ctx, line); err != nil {
			halt := &ScriptHaltError{Line: i + 1, Text: line, Cause: err}
			e.reportf("%s\n", halt)
			return halt
		}
		if !e.session.Running {
			e.logger.Debug("script requested exit", "line", i+1)
			return nil
		}
	}
	return nil
}

// RunInteractive reads and executes lines until exit runs or input ends.
// Interrupts abandon the pending line and prompt again.
func (e *Engine) RunInteractive(ctx context.Context) error {
	for e.session.Running {
		line, err := e.reader.ReadLine(ctx, e.prompt.Render(e.session.CurrentDir))
		switch {
		case err == nil:
		case errors.Is(err, ErrInterrupted):
			e.printf("\n%s\n", ExitHint)
			continue
		case errors.Is(err, io.EOF):
			e.printf("\n%s\n", EOFMessage)
			return nil
		default:
			return err
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		// Failures are already reported; the loop goes on.
		_ = e.Execute(ctx, line)
	}
	return nil
}

// Execute tokenizes and dispatches one line. Tokenization errors are reported
// and the line is dropped without counting as a failure. Command failures are
// reported and returned.
func (e *Engine) Execute(ctx context.Context, line string) error {
	words, err := shell.Tokenize(line, e.lookup)
	if err != nil {
		e.reportf("%s\n", err)
		return nil
	}
	if len(words) == 0 {
		return nil
	}

	err = e.commands.Dispatch(ctx, e.env, e.stdout, words[0], words[1:])
	if err != nil {
		e.reportf("%s\n", err)
		e.logger.Debug("command failed", "command", words[0], "error", err)
	}
	return err
}

func (e *Engine) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(e.stdout, format, args...)
}

func (e *Engine) reportf(format string, args ...any) {
	_, _ = fmt.Fprintf(e.stderr, format, args...)
}

// scriptLines splits a script into lines, accepting both LF and CRLF endings.
func scriptLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	data = bytes.TrimSuffix(data, []byte("\n"))
	out := strings.Split(string(data), "\n")
	for i, l := range out {
		out[i] = strings.TrimSuffix(l, "\r")
	}
	return out
}

func rule(width int) string {
	return strings.Repeat("-", width)
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

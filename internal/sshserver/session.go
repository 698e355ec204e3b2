// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"

	"vshell-cli/internal/engine"
)

// session is the part of ssh.Session a shell session needs.
type session interface {
	io.ReadWriter
	Stderr() io.ReadWriter
	User() string
	RawCommand() string
	Pty() (ssh.Pty, <-chan ssh.Window, bool)
	Exit(code int) error
}

func (s *Server) shellMiddleware() wish.Middleware {
	return func(ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			s.handle(sess.Context(), sess)
		}
	}
}

// handle runs one connection to completion and reports its exit status.
func (s *Server) handle(ctx context.Context, sess session) {
	s.sessions.Add(1)
	defer s.sessions.Add(-1)

	logger := s.logger.With("user", sess.User())
	logger.Debug("session opened", "command", sess.RawCommand())

	code := s.run(ctx, sess)

	logger.Debug("session closed", "exit_code", code)
	_ = sess.Exit(code)
}

func (s *Server) run(ctx context.Context, sess session) int {
	if line := sess.RawCommand(); line != "" {
		return s.runCommand(ctx, sess, line)
	}

	ptyReq, winCh, isPty := sess.Pty()
	if !isPty {
		_, _ = fmt.Fprintln(sess.Stderr(), "vshell: interactive sessions require a terminal, retry with ssh -t")
		return 1
	}

	reader := engine.NewTerminalReader(sess)
	_ = reader.Resize(ptyReq.Window.Width, ptyReq.Window.Height)
	go func() {
		for win := range winCh {
			_ = reader.Resize(win.Width, win.Height)
		}
	}()

	eng := engine.New(engine.Options{
		Stdout:   reader,
		Reader:   reader,
		Commands: s.cfg.Commands,
		VFS:      s.tree.Load(),
		Host:     s.cfg.Host,
		Prompt:   engine.NewStyledPrompt(sess.User(), s.cfg.HostName, lipgloss.NewRenderer(sess)),
		Logger:   s.logger,
		Lookup:   sessionLookup(sess.User()),
	})
	if err := eng.Run(ctx, ""); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("session ended with error", "user", sess.User(), "error", err)
		return 1
	}
	return 0
}

// runCommand executes a single line given on the ssh command line, as in
// `ssh host ls /docs`.
func (s *Server) runCommand(ctx context.Context, sess session, line string) int {
	eng := engine.New(engine.Options{
		Stdout:   sess,
		Stderr:   sess.Stderr(),
		Reader:   closedReader{},
		Commands: s.cfg.Commands,
		VFS:      s.tree.Load(),
		Host:     s.cfg.Host,
		Prompt:   engine.NewPrompt(sess.User(), s.cfg.HostName),
		Logger:   s.logger,
		Lookup:   sessionLookup(sess.User()),
	})
	if err := eng.Execute(ctx, line); err != nil {
		return 1
	}
	return 0
}

// sessionLookup expands variables for remote users without exposing the
// server process environment.
func sessionLookup(user string) func(string) string {
	return func(name string) string {
		switch name {
		case "USER", "LOGNAME":
			return user
		case "HOME":
			return "/"
		default:
			return ""
		}
	}
}

// closedReader is the input of one-shot command sessions.
type closedReader struct{}

func (closedReader) ReadLine(context.Context, string) (string, error) {
	return "", io.EOF
}

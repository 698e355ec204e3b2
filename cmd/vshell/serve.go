// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vshell-cli/internal/config"
	"vshell-cli/internal/issue"
	"vshell-cli/internal/sshserver"
	"vshell-cli/internal/vfs"
	"vshell-cli/internal/watch"
)

type serveFlags struct {
	listen         string
	hostKey        string
	authorizedKeys string
	idleTimeout    time.Duration
	watch          bool
}

// newServeCommand creates `vshell serve`.
func newServeCommand(app *App, flags *globalFlags) *cobra.Command {
	sf := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive shell over SSH",
		Long: `Serve the interactive shell over SSH until interrupted.

Each connection gets its own session over the shared VFS. Relative paths
resolve against an empty host view, so the server's files stay private.
Without --authorized-keys any client may connect; keep the default loopback
address in that case.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := app.resolveSettings(cmd.Context(), cmd, flags)
			cfg, err := serverConfig(cmd, s, sf)
			if err != nil {
				return err
			}
			return app.runServe(cmd.Context(), s, cfg, sf.watch)
		},
	}
	cmd.Flags().StringVar(&sf.listen, "listen", "", "address to listen on (default "+string(config.DefaultServeAddress)+")")
	cmd.Flags().StringVar(&sf.hostKey, "host-key", "", "host key path, generated when missing")
	cmd.Flags().StringVar(&sf.authorizedKeys, "authorized-keys", "", "only accept public keys listed in this file")
	cmd.Flags().DurationVar(&sf.idleTimeout, "idle-timeout", 0, "close idle connections after this duration")
	cmd.Flags().BoolVar(&sf.watch, "watch", false, "reload the VFS document for new sessions when it changes")
	return cmd
}

// serverConfig merges serve flags over the configuration file.
func serverConfig(cmd *cobra.Command, s *settings, sf *serveFlags) (sshserver.Config, error) {
	cfg := sshserver.DefaultConfig()
	cfg.Address = string(s.cfg.Serve.Address)
	if cmd.Flags().Changed("listen") {
		cfg.Address = sf.listen
	}

	cfg.HostKeyPath = s.cfg.Serve.HostKeyPath
	if cmd.Flags().Changed("host-key") {
		cfg.HostKeyPath = sf.hostKey
	}
	if cfg.HostKeyPath == "" {
		path, err := config.DefaultHostKeyPath()
		if err != nil {
			return cfg, fmt.Errorf("locate host key: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return cfg, fmt.Errorf("create host key directory: %w", err)
		}
		cfg.HostKeyPath = path
	}

	cfg.AuthorizedKeysPath = sf.authorizedKeys
	cfg.IdleTimeout = sf.idleTimeout
	cfg.Logger = s.logger
	return cfg, nil
}

func (a *App) runServe(ctx context.Context, s *settings, cfg sshserver.Config, watchDoc bool) error {
	cfg.VFS = vfs.NewEngine(a.loadTreeOrEmpty(s))
	cfg.Commands = a.Commands

	if ok, errs := cfg.IsValid(); !ok {
		return a.fatal(errs[0], s, issue.ServeFailedId)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := sshserver.New(cfg)
	if err := srv.Start(ctx); err != nil {
		return a.fatal(issue.NewErrorContext().
			WithOperation("start SSH server").
			WithResource(cfg.Address).
			WithIssue(issue.ServeFailedId).
			Wrap(err).
			BuildError(), s, issue.ServeFailedId)
	}

	_, _ = fmt.Fprintf(a.stdout, "%s %s\n", SuccessStyle.Render("Serving vshell on"), PathStyle.Render(srv.Address()))
	_, _ = fmt.Fprintln(a.stdout, SubtitleStyle.Render("Press Ctrl-C to stop"))
	if cfg.AuthorizedKeysPath == "" {
		s.logger.Warn("no authorized keys configured, accepting every client", "address", srv.Address())
	}
	if watchDoc && s.vfsPath != "" {
		if err := a.watchDocument(ctx, s, srv); err != nil {
			s.logger.Warn("not watching the VFS document", "error", err)
		}
	}

	select {
	case <-ctx.Done():
		return srv.Stop()
	case err := <-srv.Err():
		_ = srv.Stop()
		return fmt.Errorf("SSH server failed: %w", err)
	}
}

// watchDocument reloads the VFS document in the background and hands each
// successfully parsed tree to srv. A document that fails to load is logged
// and the previous tree stays in service.
func (a *App) watchDocument(ctx context.Context, s *settings, srv *sshserver.Server) error {
	w, err := watch.New(watch.Config{
		Path:   s.vfsPath,
		Logger: s.logger,
		OnChange: func(context.Context, string) error {
			tree, err := a.loadTree(s)
			if err != nil {
				return err
			}
			srv.SetVFS(vfs.NewEngine(tree))
			return nil
		},
	})
	if err != nil {
		return err
	}

	go func() {
		if err := w.Run(ctx); err != nil {
			s.logger.Error("VFS watcher stopped", "error", err)
		}
	}()
	s.logger.Info("watching VFS document", "path", w.Path())
	return nil
}

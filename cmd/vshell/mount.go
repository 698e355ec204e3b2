// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vshell-cli/internal/issue"
	"vshell-cli/internal/vfsmount"
)

// newMountCommand creates `vshell mount`.
func newMountCommand(app *App, flags *globalFlags) *cobra.Command {
	var opts vfsmount.Options

	cmd := &cobra.Command{
		Use:   "mount MOUNTPOINT",
		Short: "Expose the VFS as a read-only FUSE filesystem",
		Long: `Expose the VFS as a read-only FUSE filesystem until interrupted.

The mountpoint must be an existing directory. Press Ctrl-C to unmount.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.resolveSettings(cmd.Context(), cmd, flags)
			opts.Logger = s.logger
			return app.runMount(cmd.Context(), s, args[0], opts)
		},
	}
	cmd.Flags().DurationVar(&opts.CacheTimeout, "cache-timeout", time.Second, "kernel entry and attribute cache timeout")
	cmd.Flags().BoolVar(&opts.Debug, "fuse-debug", false, "log every FUSE request")
	return cmd
}

func (a *App) runMount(ctx context.Context, s *settings, mountpoint string, opts vfsmount.Options) error {
	srv, err := vfsmount.Mount(a.loadTreeOrEmpty(s), mountpoint, opts)
	if err != nil {
		return a.fatal(issue.NewErrorContext().
			WithOperation("mount virtual filesystem").
			WithResource(mountpoint).
			WithIssue(issue.MountFailedId).
			WithSuggestion("Check that the mountpoint exists and is an empty directory").
			Wrap(err).
			BuildError(), s, issue.MountFailedId)
	}

	_, _ = fmt.Fprintf(a.stdout, "%s %s %s\n", SuccessStyle.Render("Mounted"), PathStyle.Render(s.vfsPath), PathStyle.Render(mountpoint))
	_, _ = fmt.Fprintln(a.stdout, SubtitleStyle.Render("Press Ctrl-C to unmount"))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		srv.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		s.logger.Debug("unmounting", "mountpoint", mountpoint)
		if err := srv.Unmount(); err != nil {
			return fmt.Errorf("unmount %s: %w", mountpoint, err)
		}
		<-done
	case <-done:
		s.logger.Info("filesystem unmounted externally", "mountpoint", mountpoint)
	}
	return nil
}

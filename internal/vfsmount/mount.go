// SPDX-License-Identifier: MPL-2.0

package vfsmount

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
)

// ErrUnsupported is returned by Mount on platforms without FUSE support.
var ErrUnsupported = errors.New("fuse mounts are not supported on this platform")

type (
	// Options configures a mount.
	Options struct {
		// FsName is shown as the source column of mount(8). Defaults to "vshell".
		FsName string
		// ModTime is reported as the timestamp of every node. Defaults to the
		// time Mount is called.
		ModTime time.Time
		// CacheTimeout lets the kernel cache entries and attributes. The tree
		// never changes, so long timeouts are safe.
		CacheTimeout time.Duration
		// Debug logs every FUSE request.
		Debug  bool
		Logger *log.Logger
	}

	// Server is a live mount.
	Server interface {
		// Unmount detaches the filesystem. Wait returns afterwards.
		Unmount() error
		// Wait blocks until the filesystem is unmounted.
		Wait()
	}
)

func (o Options) withDefaults() Options {
	if o.FsName == "" {
		o.FsName = "vshell"
	}
	if o.ModTime.IsZero() {
		o.ModTime = time.Now()
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// SPDX-License-Identifier: MPL-2.0

//go:build linux || darwin

package vfsmount

import (
	"fmt"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"vshell-cli/internal/vfs"
)

// Mount exports tree read-only at mountpoint, which must be an existing
// directory. The mount is live when Mount returns.
func Mount(tree *vfs.Tree, mountpoint string, opts Options) (Server, error) {
	if tree == nil {
		tree = vfs.EmptyTree()
	}
	opts = opts.withDefaults()

	fsOpts := &fs.Options{
		MountOptions: fuse.MountOptions{
			FsName:  opts.FsName,
			Name:    "vshell",
			Options: []string{"ro"},
			Debug:   opts.Debug,
		},
	}
	if opts.CacheTimeout > 0 {
		timeout := opts.CacheTimeout
		fsOpts.EntryTimeout = &timeout
		fsOpts.AttrTimeout = &timeout
		fsOpts.NegativeTimeout = &timeout
	}

	srv, err := fs.Mount(mountpoint, newRoot(tree, &opts), fsOpts)
	if err != nil {
		return nil, fmt.Errorf("mount %s: %w", mountpoint, err)
	}
	opts.Logger.Debug("vfs mounted", "mountpoint", mountpoint, "read_only", true)
	return srv, nil
}

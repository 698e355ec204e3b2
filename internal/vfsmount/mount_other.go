// SPDX-License-Identifier: MPL-2.0

//go:build !linux && !darwin

package vfsmount

import "vshell-cli/internal/vfs"

// Mount always fails with ErrUnsupported on this platform.
func Mount(_ *vfs.Tree, _ string, _ Options) (Server, error) {
	return nil, ErrUnsupported
}

// SPDX-License-Identifier: MPL-2.0

// Package vfsmount exports a loaded virtual filesystem tree as a read-only
// FUSE mount, so ordinary tools can browse it. Directories list entries in
// document order and files serve their decoded content.
package vfsmount

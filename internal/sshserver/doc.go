// SPDX-License-Identifier: MPL-2.0

// Package sshserver serves the interactive shell over SSH using the Wish library.
//
// Every connection gets its own engine and session state, so working
// directories never leak between operators, while all connections share one
// immutable VFS tree. Remote sessions see the VFS plus an optional host view
// chosen by the caller; the process filesystem is never exposed implicitly.
package sshserver

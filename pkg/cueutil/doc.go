// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE helpers for the config loader and the VFS
// document loader.
//
// Both loaders feed user-provided files through cuelang.org/go: the config file is
// CUE validated against an embedded schema, and the VFS document is JSON compiled
// into a cue.Value so that struct field order is preserved while walking it.
// Errors coming out of CUE are rewritten by FormatError into
// "<file>: <json-path>: <message>" form.
package cueutil

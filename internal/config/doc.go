// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/vshell/config.cue (or the XDG equivalent on
// Linux, ~/Library/Application Support/vshell/config.cue on macOS,
// %APPDATA%\vshell\config.cue on Windows), falling back to ./config.cue. Files are
// validated against the embedded #Config schema (config_schema.cue) before being merged
// over the defaults, and VSHELL_* environment variables override both.
package config

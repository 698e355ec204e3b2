// SPDX-License-Identifier: MPL-2.0

// Package shell provides the command dispatcher of the emulator: the session
// state, the built-in commands and the registry mapping command names to them.
//
// # Commands
//
// Every built-in implements Command and registers itself in DefaultRegistry from
// an init function:
//
//   - ls [path]: list a VFS directory ("/"-prefixed) or a host directory
//   - cd [path]: set the displayed current directory (no existence check)
//   - cat <file>: print a VFS file ("/"-prefixed) or a host file
//   - pwd: print the displayed current directory
//   - echo [args...]: print the arguments joined by a space
//   - exit: stop the session
//   - find <pattern>: list VFS or host paths matching a glob pattern
//   - help: list the available commands
//
// A path starting with "/" always addresses the VFS; anything else addresses the
// host filesystem relative to the process working directory. The session's
// current directory is display-only and never used to resolve paths.
//
// # Results
//
// A command returns a Result: the text it produced and, on failure, a tagged
// error (*UsageError, *NotFoundError, or the underlying I/O error). Registry.Dispatch
// writes the output and turns a failure into a *HandlerError; unknown names
// produce an *UnknownCommandError. Session changes made before a failure are kept.
package shell

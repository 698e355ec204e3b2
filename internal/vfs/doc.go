// SPDX-License-Identifier: MPL-2.0

// Package vfs implements the read-only virtual filesystem overlaid on the host
// filesystem by the shell.
//
// A Tree is loaded once from a JSON document of the form
//
//	{"root": {"entries": {
//	    "<name>": {"type": "file", "content": "<base64>"}
//	            | {"type": "dir",  "entries": {...}}
//	}}}
//
// and never changes afterwards. File content is base64-decoded at load time; a
// payload that is not valid base64 is kept verbatim. Directory entries keep the
// order in which they appear in the document.
//
// Loading never fails hard: an unreadable or malformed document yields an empty
// tree together with a *LoadError describing why, so the shell can still start
// against the host filesystem alone.
//
// Paths are split on "/" with empty segments discarded, so "/a//b/" and "a/b"
// name the same node. The Engine answers the three queries the command handlers
// need: Resolve, GetFileContent and ListDirectory.
package vfs

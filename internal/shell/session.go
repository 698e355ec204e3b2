// SPDX-License-Identifier: MPL-2.0

package shell

// DefaultDirectory is the current directory of a new session.
const DefaultDirectory = "~"

// Session is the mutable state of one shell run. It is owned by a single
// execution engine and passed by reference to every command.
type Session struct {
	// CurrentDir is shown in the prompt and by pwd. It is never validated
	// against either backend.
	CurrentDir string
	// Running is cleared by the exit command; the engine stops reading input
	// once it is false.
	Running bool
	// InScript is set while the engine replays a script.
	InScript bool
}

// NewSession returns a session with default values.
func NewSession() *Session {
	return &Session{
		CurrentDir: DefaultDirectory,
		Running:    true,
	}
}

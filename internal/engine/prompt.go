// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"os"
	"os/user"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	fallbackUser = "user"
	fallbackHost = "localhost"
)

// Prompt renders the "user@host:dir$ " prompt.
type Prompt struct {
	User string
	Host string

	styled   bool
	identity lipgloss.Style
	dir      lipgloss.Style
}

// NewPrompt returns a plain prompt for the given identity.
func NewPrompt(userName, hostName string) *Prompt {
	return &Prompt{User: userName, Host: hostName}
}

// NewStyledPrompt returns a prompt colored with styles from r. Color is only
// emitted when r detects a terminal able to show it.
func NewStyledPrompt(userName, hostName string, r *lipgloss.Renderer) *Prompt {
	p := NewPrompt(userName, hostName)
	p.styled = true
	p.identity = r.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	p.dir = r.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true)
	return p
}

// Render returns the prompt for the given current directory.
func (p *Prompt) Render(dir string) string {
	id := p.User + "@" + p.Host
	if !p.styled {
		return id + ":" + dir + "$ "
	}
	return p.identity.Render(id) + ":" + p.dir.Render(dir) + "$ "
}

// Identity returns the operator's user name and the machine's host name.
// The user name comes from the OS user database, then $USER, then "user";
// the host name from the OS, then "localhost".
func Identity() (userName, hostName string) {
	userName = currentUser()
	hostName, err := os.Hostname()
	if err != nil || hostName == "" {
		hostName = fallbackHost
	}
	return userName, hostName
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		// Windows reports DOMAIN\name.
		if i := strings.LastIndexByte(u.Username, '\\'); i >= 0 {
			return u.Username[i+1:]
		}
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return fallbackUser
}

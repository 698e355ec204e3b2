// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"io"

	"vshell-cli/internal/issue"
)

// formatErrorForDisplay formats an error for user display.
// ActionableErrors use their own Format; verbose mode shows the full chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// renderIssueHint prints the catalog entry linked to err in verbose mode.
func (a *App) renderIssueHint(err error, s *settings) {
	var ae *issue.ActionableError
	if !s.verbose || !errors.As(err, &ae) || ae.Issue == 0 {
		return
	}
	a.renderIssue(ae.Issue, s)
}

// renderIssue prints a catalog entry as styled markdown.
func (a *App) renderIssue(id issue.Id, s *settings) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(s.glamourStyle())
	if err != nil {
		s.logger.Debug("render issue", "id", id, "error", err)
		return
	}
	_, _ = io.WriteString(a.stderr, rendered)
}

// fatal prints the catalog entry for a startup failure and returns err as an
// ExitError. fang prints the error itself.
func (a *App) fatal(err error, s *settings, id issue.Id) error {
	a.renderIssue(id, s)
	return &ExitError{Code: 1, Err: err}
}

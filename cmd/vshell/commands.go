// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"vshell-cli/internal/shell"
)

// newCommandsCommand creates `vshell commands`, the built-in command reference.
func newCommandsCommand(app *App, flags *globalFlags) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "commands",
		Short: "Show the commands available inside the shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			md := commandReference(app.Commands)
			if raw {
				_, err := io.WriteString(app.stdout, md)
				return err
			}

			s := app.resolveSettings(cmd.Context(), cmd, flags)
			out, err := glamour.Render(md, s.glamourStyle())
			if err != nil {
				return fmt.Errorf("render command reference: %w", err)
			}
			_, err = io.WriteString(app.stdout, out)
			return err
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without styling")
	return cmd
}

// commandReference renders the registry as a markdown table.
func commandReference(r *shell.Registry) string {
	var sb strings.Builder
	sb.WriteString("# Shell commands\n\n")
	sb.WriteString("Paths starting with `/` are looked up in the virtual filesystem; ")
	sb.WriteString("all other paths are read from the host.\n\n")
	sb.WriteString("| Command | Usage | Description |\n")
	sb.WriteString("|---|---|---|\n")
	for _, c := range r.Commands() {
		fmt.Fprintf(&sb, "| `%s` | `%s` | %s |\n", c.Name(), c.Usage(), c.Synopsis())
	}
	return sb.String()
}

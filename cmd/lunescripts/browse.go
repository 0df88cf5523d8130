// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/lunescripts/lunescripts/internal/tui"

	"github.com/spf13/cobra"
)

func newBrowseCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var theme string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Pick and run scripts interactively",
		Long: `Walk the Lune script tree one level at a time. Selecting a directory
opens it, selecting a script runs it in the script terminal, which stays
open and is reused for every script until you quit.

Without a terminal on stdin, or with ACCESSIBLE set, plain numbered
prompts are used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			s, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}

			uiCfg := tui.DefaultConfig()
			uiCfg.Theme = tui.Theme(theme)
			uiCfg.Input = app.stdin
			if uiCfg.Accessible {
				uiCfg.Output = app.stderr
			} else {
				uiCfg.Output = app.stdout
			}

			s.noWorkspaceHelp()

			// The prompt reads stdin between selections.
			s.terminals = s.newTerminals(false)
			d := s.newDispatcher(nil)
			browseErr := tui.NewBrowser(s.supplier, d, s.console, uiCfg, s.logger).Run(cmd.Context())
			closeErr := s.close(d)
			if browseErr != nil {
				return s.listingError(browseErr)
			}
			return closeErr
		},
	}

	cmd.Flags().StringVar(&theme, "theme", string(tui.ThemeDefault), "prompt theme (default, charm, dracula, catppuccin, base16)")

	return cmd
}

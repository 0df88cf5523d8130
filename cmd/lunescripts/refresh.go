// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"github.com/lunescripts/lunescripts/internal/scripts"

	"github.com/spf13/cobra"
)

func newRefreshCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-list the script tree",
		Long: `Recompute the script tree and print it. Nothing is cached between
listings, so the configuration and every directory are read again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer s.close(nil) //nolint:errcheck // no terminals are opened

			return s.refresh(cmd.Context())
		},
	}
}

// refresh fires the refresh signal once, prints the re-listed tree and then
// the refreshed notice. Without a workspace the listing's own notice comes
// first.
func (s *session) refresh(ctx context.Context) error {
	var renderErr error
	unsubscribe := s.supplier.OnDidChange(func() {
		renderErr = s.printTree(ctx)
	})
	s.supplier.Refresh()
	unsubscribe()

	if renderErr != nil {
		return s.listingError(renderErr)
	}
	s.noWorkspaceHelp()
	s.console.Info(scripts.RefreshedMessage)
	return nil
}

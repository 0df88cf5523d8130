// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/lunescripts/lunescripts/internal/issue"
	"github.com/lunescripts/lunescripts/internal/tui"

	"github.com/spf13/cobra"
)

func newTreeCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var watchConfigFlag bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the Lune script tree",
		Long: `Show the Lune script tree of the current workspace.

Every configured script directory that exists is listed with all of its
subdirectories and .lua/.luau files. With --watch the tree is printed
again whenever a configuration change alters script_directories.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer s.close(nil) //nolint:errcheck // no terminals are opened

			if err := s.printTree(cmd.Context()); err != nil {
				return s.listingError(err)
			}
			s.noWorkspaceHelp()
			if !watchConfigFlag {
				return nil
			}
			return s.watchTree(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&watchConfigFlag, "watch", false, "re-render the tree when script_directories changes")

	return cmd
}

// printTree renders the whole script tree to stdout.
func (s *session) printTree(ctx context.Context) error {
	out, err := tui.RenderTree(ctx, s.supplier)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.app.stdout, out)
	return nil
}

// watchTree re-renders the tree on every refresh until ctx is cancelled.
func (s *session) watchTree(ctx context.Context) error {
	unsubscribe := s.supplier.OnDidChange(func() {
		fmt.Fprintln(s.app.stdout)
		if err := s.printTree(ctx); err != nil {
			fmt.Fprintln(s.app.stderr, ErrorStyle.Render("✗ ")+formatErrorForDisplay(err, s.flags.verbose))
		}
	})
	defer unsubscribe()

	fmt.Fprintf(s.app.stdout, "\n%s Watching configuration for changes (Ctrl+C to stop)...\n", CmdStyle.Render("→"))
	return s.watchConfig(ctx)
}

// noWorkspaceHelp renders the no-workspace help card in verbose mode when
// no workspace root was found.
func (s *session) noWorkspaceHelp() {
	if s.workspace == "" && s.flags.verbose {
		renderIssue(s.app.stderr, issue.NoWorkspaceId, s.config().UI.ColorScheme)
	}
}

// listingError renders the listing help card in verbose mode and returns err.
func (s *session) listingError(err error) error {
	if s.flags.verbose {
		renderIssue(s.app.stderr, issue.ScriptListingFailedId, s.config().UI.ColorScheme)
	}
	return err
}

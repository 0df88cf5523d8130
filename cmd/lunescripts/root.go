// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/lunescripts/lunescripts/internal/terminal"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the lunescripts command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "lunescripts",
		Short: "Browse and run Lune scripts from your workspace",
		Long: TitleStyle.Render("lunescripts") + SubtitleStyle.Render(" - Browse and run Lune scripts from your workspace") + `

lunescripts finds .lua and .luau files in the script directories of the
current workspace (lune/ and .lune/ by default) and runs them with
'lune run' in a reusable terminal session named "Lune Script Runner".

` + SubtitleStyle.Render("Examples:") + `
  lunescripts tree                    Show the script tree
  lunescripts run lune/build.luau     Run a script
  lunescripts browse                  Pick and run scripts interactively
  lunescripts config show             Show current configuration`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch terminal.Backend(flags.backend) {
			case "", terminal.BackendNative, terminal.BackendVirtual:
				return nil
			default:
				return fmt.Errorf("invalid --terminal %q (expected %s or %s)", flags.backend, terminal.BackendNative, terminal.BackendVirtual)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/lunescripts/config.cue)")
	rootCmd.PersistentFlags().StringVarP(&flags.workspace, "workspace", "w", "", "workspace root (default: nearest directory with a workspace marker)")
	rootCmd.PersistentFlags().StringVar(&flags.backend, "terminal", "", "terminal backend: native or virtual (default from config)")

	rootCmd.AddCommand(newTreeCommand(app, flags))
	rootCmd.AddCommand(newRunCommand(app, flags))
	rootCmd.AddCommand(newRefreshCommand(app, flags))
	rootCmd.AddCommand(newBrowseCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI with production dependencies. It is called by main.main().
func Execute() {
	rootCmd := NewRootCommand(NewApp(Dependencies{}))
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(exitFailure)
	}
}

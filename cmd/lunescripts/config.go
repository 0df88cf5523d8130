// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/lunescripts/lunescripts/internal/config"
	"github.com/lunescripts/lunescripts/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `lunescripts config` command tree.
func newConfigCommand(app *App, flags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage lunescripts configuration",
		Long: `Manage lunescripts configuration.

Configuration is stored in:
  - Linux: ~/.config/lunescripts/config.cue
  - macOS: ~/Library/Application Support/lunescripts/config.cue
  - Windows: %APPDATA%\lunescripts\config.cue

A .lunescripts.toml file in the workspace root overrides the user file,
and LUNESCRIPTS_* environment variables override both.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd, app, flags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.CreateDefaultConfig(loadOptions(flags, ""))
			if err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
			fmt.Fprintf(app.stdout, "%s Configuration file at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfigPath(app, flags)
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App, flags *rootFlagValues) error {
	_, workspace, err := app.resolveWorkspace(flags)
	if err != nil {
		return err
	}
	opts := loadOptions(flags, workspace)

	cfg, err := app.Config.Load(cmd.Context(), opts)
	if err != nil {
		cmd.SilenceUsage = true
		if flags.verbose {
			renderIssue(app.stderr, issue.ConfigLoadFailedId, config.ColorSchemeAuto)
		}
		return err
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)
	for _, src := range configSources(opts) {
		value := SubtitleStyle.Render("(not present)")
		if fileExistsCheck(src.path) {
			value = src.path
		}
		fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render(src.label), value)
	}
	fmt.Fprintln(app.stdout)
	fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
	return nil
}

func showConfigPath(app *App, flags *rootFlagValues) error {
	_, workspace, err := app.resolveWorkspace(flags)
	if err != nil {
		return err
	}
	for _, src := range configSources(loadOptions(flags, workspace)) {
		fmt.Fprintf(app.stdout, "%s: %s\n", src.label, src.path)
	}
	return nil
}

type configSource struct {
	label string
	path  string
}

// configSources lists the files read for opts, lowest precedence first.
func configSources(opts config.LoadOptions) []configSource {
	var sources []configSource
	if p, err := config.UserConfigPath(opts); err == nil {
		sources = append(sources, configSource{label: "Config file", path: p})
	}
	if opts.WorkspaceRoot != "" {
		sources = append(sources, configSource{label: "Workspace settings", path: config.WorkspaceFilePath(opts.WorkspaceRoot)})
	}
	return sources
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

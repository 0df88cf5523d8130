// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lunescripts/lunescripts/internal/dispatch"
	"github.com/lunescripts/lunescripts/internal/host"
	"github.com/lunescripts/lunescripts/internal/issue"

	"github.com/spf13/cobra"
)

type runFlagValues struct {
	resourceURI string
	activeFile  string
	language    string
}

func newRunCommand(app *App, flags *rootFlagValues) *cobra.Command {
	runFlags := &runFlagValues{}

	cmd := &cobra.Command{
		Use:   "run [script]",
		Short: "Run a Lune script in the script terminal",
		Long: `Run a Lune script with 'lune run "<path>"' in the terminal session
named "Lune Script Runner", reusing it while it is alive.

The script is taken from the argument, then --resource-uri. When neither
names a script, the active document (--active-file) is used if it is a
Lua or Luau file.`,
		Example: `  # Run a script by path
  lunescripts run lune/build.luau

  # Run the document open in an editor
  lunescripts run --active-file src/tool.lua

  # Use the built-in shell instead of $SHELL
  lunescripts run --terminal virtual lune/build.luau`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			inv, err := runFlags.invocation(args)
			if err != nil {
				return err
			}

			s, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}

			editor := host.Editor{Path: runFlags.activeFile, LanguageID: runFlags.language}
			d := s.newDispatcher(editor)

			runErr := d.Run(cmd.Context(), inv)
			closeErr := s.close(d)
			if runErr != nil {
				return s.dispatchError(cmd, runErr)
			}
			return closeErr
		},
	}

	cmd.Flags().StringVar(&runFlags.resourceURI, "resource-uri", "", "file:// URI of the script to run")
	cmd.Flags().StringVar(&runFlags.activeFile, "active-file", "", "path of the document open in the editor")
	cmd.Flags().StringVar(&runFlags.language, "language", "", "language of the active document (lua, luau); inferred from the extension when empty")

	return cmd
}

// invocation maps the command line to a dispatcher invocation. A positional
// argument wins over --resource-uri; with neither, the invocation carries
// only the editor context.
func (f *runFlagValues) invocation(args []string) (dispatch.Invocation, error) {
	if len(args) > 0 {
		path := args[0]
		if path != "" {
			abs, err := filepath.Abs(path)
			if err != nil {
				return nil, fmt.Errorf("resolve %q: %w", path, err)
			}
			path = abs
		}
		return dispatch.ResourceInvocation{Path: path}, nil
	}
	if f.resourceURI != "" {
		path, err := pathFromFileURI(f.resourceURI)
		if err != nil {
			return nil, err
		}
		return dispatch.ResourceBearerInvocation{ResourcePath: path}, nil
	}
	return dispatch.ContextInvocation{}, nil
}

// pathFromFileURI extracts the filesystem path of a file:// URI.
func pathFromFileURI(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid --resource-uri %q: %w", raw, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("invalid --resource-uri %q: scheme must be file", raw)
	}
	path := u.Path
	// file:///C:/x parses to /C:/x.
	if runtime.GOOS == "windows" && len(path) > 2 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(strings.TrimSuffix(path, "/")), nil
}

// dispatchError maps dispatcher failures to exit codes. Failures already
// shown as notices are not printed again; verbose mode adds the help card.
func (s *session) dispatchError(cmd *cobra.Command, err error) error {
	var (
		id   issue.Id
		code = exitFailure
	)
	switch {
	case errors.Is(err, dispatch.ErrUnresolvedScript):
		id = issue.ScriptPathUnresolvedId
	case errors.Is(err, dispatch.ErrInterpreterMissing):
		id = issue.InterpreterNotFoundId
		code = exitInterpreterMissing
	case errors.Is(err, dispatch.ErrNoTerminal):
		id = issue.TerminalStartFailedId
		s.console.Error(formatErrorForDisplay(err, s.flags.verbose))
	default:
		return err
	}

	cmd.SilenceErrors = true
	if s.flags.verbose {
		renderIssue(s.app.stderr, id, s.config().UI.ColorScheme)
	}
	return &ExitError{Code: code, Err: err}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/lunescripts/lunescripts/internal/config"
	"github.com/lunescripts/lunescripts/internal/dispatch"
	"github.com/lunescripts/lunescripts/internal/host"
	"github.com/lunescripts/lunescripts/internal/issue"
	"github.com/lunescripts/lunescripts/internal/scripts"
	"github.com/lunescripts/lunescripts/internal/terminal"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives an App and builds
	// a per-invocation session from it.
	App struct {
		Config config.Provider
		// Prober overrides the interpreter lookup. Nil means a CommandProber
		// using the configured probe timeout.
		Prober dispatch.Prober
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer
		getwd  func() (string, error)
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Prober dispatch.Prober
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		Getwd  func() (string, error)
	}

	// rootFlagValues holds the persistent flags shared by every subcommand.
	rootFlagValues struct {
		verbose    bool
		configPath string
		workspace  string
		backend    string
	}

	// session is the host state for one command invocation: the detected
	// workspace, the effective configuration and the components built on it.
	session struct {
		app       *App
		flags     *rootFlagValues
		logger    *log.Logger
		console   *host.Console
		workspace string
		loadOpts  config.LoadOptions
		supplier  *scripts.Supplier
		terminals *terminal.Registry
		termDir   string

		mu  sync.Mutex
		cfg *config.Config
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		Prober: deps.Prober,
		stdin:  deps.Stdin,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		getwd:  deps.Getwd,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	if app.getwd == nil {
		app.getwd = os.Getwd
	}
	return app
}

// newSession detects the workspace, loads the configuration and builds the
// tree supplier and terminal registry. A configuration that fails to load is
// reported as a warning and replaced by defaults.
func (a *App) newSession(ctx context.Context, flags *rootFlagValues) (*session, error) {
	logger := log.NewWithOptions(a.stderr, log.Options{Prefix: "lunescripts"})
	logger.SetLevel(log.WarnLevel)
	if flags.verbose {
		logger.SetLevel(log.DebugLevel)
	}

	wd, workspace, err := a.resolveWorkspace(flags)
	if err != nil {
		return nil, err
	}
	logger.Debug("workspace detected", "root", workspace)

	s := &session{
		app:       a,
		flags:     flags,
		logger:    logger,
		console:   host.NewConsole(a.stdout, a.stderr, logger),
		workspace: workspace,
		loadOpts:  loadOptions(flags, workspace),
	}

	cfg, err := a.Config.Load(ctx, s.loadOpts)
	if err != nil {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, flags.verbose))
		cfg = config.DefaultConfig()
	}
	if cfg.UI.Verbose && !flags.verbose {
		logger.SetLevel(log.DebugLevel)
	}
	s.cfg = cfg

	s.supplier = scripts.NewSupplier(workspace,
		scripts.DirectorySourceFunc(s.scriptDirectories),
		scripts.WithNotifier(s.console),
		scripts.WithLogger(logger),
	)

	s.termDir = workspace
	if s.termDir == "" {
		s.termDir = wd
	}
	s.terminals = s.newTerminals(true)

	return s, nil
}

// newTerminals creates the terminal registry. Keyboard input reaches native
// sessions only when forwardInput is set.
func (s *session) newTerminals(forwardInput bool) *terminal.Registry {
	cfg := s.config()
	backend := terminal.Backend(cfg.Terminal.Backend)
	if s.flags.backend != "" {
		backend = terminal.Backend(s.flags.backend)
	}
	return terminal.NewRegistry(terminal.Options{
		Backend:      backend,
		Shell:        cfg.Terminal.Shell,
		Dir:          s.termDir,
		Stdin:        s.app.stdin,
		Stdout:       s.app.stdout,
		Stderr:       s.app.stderr,
		ForwardInput: forwardInput,
		ExitTimeout:  cfg.Terminal.ExitTimeout,
		Banner:       terminalBanner,
		Logger:       s.logger,
	})
}

// resolveWorkspace returns the working directory and the workspace root,
// which is "" when no workspace is found.
func (a *App) resolveWorkspace(flags *rootFlagValues) (wd, workspace string, err error) {
	wd, err = a.getwd()
	if err != nil {
		return "", "", fmt.Errorf("failed to get working directory: %w", err)
	}
	workspace, err = host.DetectWorkspace(flags.workspace, wd)
	if err != nil {
		return "", "", issue.NewErrorContext().
			WithOperation("open workspace").
			WithResource(flags.workspace).
			WithSuggestion("Pass an existing directory to --workspace").
			Wrap(err).
			BuildError()
	}
	return wd, workspace, nil
}

func loadOptions(flags *rootFlagValues, workspace string) config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: flags.configPath,
		WorkspaceRoot:  workspace,
	}
}

// config returns the most recently loaded configuration.
func (s *session) config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// reloadConfig reads the configuration again. On failure the previous
// configuration stays in effect and the error is returned.
func (s *session) reloadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := s.app.Config.Load(ctx, s.loadOpts)
	if err != nil {
		return s.config(), err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return cfg, nil
}

// scriptDirectories reads the directory list fresh for every root listing.
func (s *session) scriptDirectories(ctx context.Context) ([]string, error) {
	cfg, err := s.reloadConfig(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		s.logger.Debug("using previous configuration", "err", err)
	}
	return cfg.ScriptDirectories, nil
}

// newDispatcher creates a dispatcher bound to the session's terminals.
// editor may be nil.
func (s *session) newDispatcher(editor dispatch.ActiveEditor) *dispatch.Dispatcher {
	cfg := s.config()
	prober := s.app.Prober
	if prober == nil {
		prober = &dispatch.CommandProber{Timeout: cfg.ProbeTimeout}
	}
	return dispatch.NewDispatcher(s.terminals,
		dispatch.WithInterpreter(cfg.Interpreter),
		dispatch.WithTerminalName(cfg.Terminal.Name),
		dispatch.WithProber(prober),
		dispatch.WithActiveEditor(editor),
		dispatch.WithNotifier(s.console),
		dispatch.WithLogger(s.logger),
	)
}

// close releases the dispatcher's terminal and every remaining session.
func (s *session) close(d *dispatch.Dispatcher) error {
	var errs []error
	if d != nil {
		errs = append(errs, d.Close())
	}
	errs = append(errs, s.terminals.DisposeAll())
	return errors.Join(errs...)
}

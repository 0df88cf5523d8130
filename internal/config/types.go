// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// TerminalBackendNative runs the user's shell in a pseudo-terminal.
	TerminalBackendNative TerminalBackend = "native"
	// TerminalBackendVirtual interprets lines with the embedded mvdan/sh shell.
	TerminalBackendVirtual TerminalBackend = "virtual"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultInterpreter is the Lune executable name.
	DefaultInterpreter = "lune"
	// DefaultTerminalName labels the reusable script terminal.
	DefaultTerminalName = "Lune Script Runner"
	// DefaultProbeTimeout bounds the interpreter PATH lookup.
	DefaultProbeTimeout = 5 * time.Second
	// DefaultExitTimeout bounds the wait for a native shell to exit on dispose.
	DefaultExitTimeout = 10 * time.Minute
)

// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// TerminalBackend selects how terminal sessions execute dispatched lines.
	TerminalBackend string

	// ColorScheme selects the palette used by glamour help cards.
	ColorScheme string

	// TerminalConfig configures the reusable script terminal.
	TerminalConfig struct {
		// Name is the session label looked up before creating a new one.
		Name string `json:"name" mapstructure:"name"`
		// Backend selects the session implementation.
		Backend TerminalBackend `json:"backend" mapstructure:"backend"`
		// Shell overrides $SHELL for native sessions.
		Shell string `json:"shell,omitempty" mapstructure:"shell"`
		// ExitTimeout is how long disposal waits for a native shell before
		// killing it.
		ExitTimeout time.Duration `json:"exit_timeout" mapstructure:"exit_timeout"`
	}

	// UIConfig contains presentation preferences.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
	}

	// Config is the effective configuration after defaults, the user file,
	// the workspace overlay and environment overrides are merged.
	Config struct {
		// ScriptDirectories are workspace-relative directory names, in display order.
		ScriptDirectories []string       `json:"script_directories" mapstructure:"script_directories"`
		Interpreter       string         `json:"interpreter" mapstructure:"interpreter"`
		ProbeTimeout      time.Duration  `json:"probe_timeout" mapstructure:"probe_timeout"`
		Terminal          TerminalConfig `json:"terminal" mapstructure:"terminal"`
		UI                UIConfig       `json:"ui" mapstructure:"ui"`
	}

	// InvalidConfigError collects every field-level problem found by Validate.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		ScriptDirectories: []string{"lune", ".lune"},
		Interpreter:       DefaultInterpreter,
		ProbeTimeout:      DefaultProbeTimeout,
		Terminal: TerminalConfig{
			Name:        DefaultTerminalName,
			Backend:     TerminalBackendNative,
			ExitTimeout: DefaultExitTimeout,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// IsValid reports whether b names a known backend.
func (b TerminalBackend) IsValid() bool {
	switch b {
	case TerminalBackendNative, TerminalBackendVirtual:
		return true
	default:
		return false
	}
}

// IsValid reports whether c names a known color scheme.
func (c ColorScheme) IsValid() bool {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true
	default:
		return false
	}
}

// GlamourStyle maps the color scheme to a glamour standard style name.
func (c ColorScheme) GlamourStyle() string {
	switch c {
	case ColorSchemeDark:
		return "dark"
	case ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}

// Validate checks constraints the CUE schema cannot see, such as values
// injected through environment variables.
func (c *Config) Validate() error {
	var errs []error
	for i, dir := range c.ScriptDirectories {
		if strings.TrimSpace(dir) == "" {
			errs = append(errs, fmt.Errorf("script_directories[%d]: must not be blank", i))
		}
	}
	if strings.TrimSpace(c.Interpreter) == "" {
		errs = append(errs, errors.New("interpreter: must not be blank"))
	}
	if c.ProbeTimeout <= 0 {
		errs = append(errs, fmt.Errorf("probe_timeout: must be positive, got %s", c.ProbeTimeout))
	}
	if strings.TrimSpace(c.Terminal.Name) == "" {
		errs = append(errs, errors.New("terminal.name: must not be blank"))
	}
	if c.Terminal.ExitTimeout <= 0 {
		errs = append(errs, fmt.Errorf("terminal.exit_timeout: must be positive, got %s", c.Terminal.ExitTimeout))
	}
	if !c.Terminal.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("terminal.backend: unknown backend %q (expected native or virtual)", c.Terminal.Backend))
	}
	if !c.UI.ColorScheme.IsValid() {
		errs = append(errs, fmt.Errorf("ui.color_scheme: unknown scheme %q", c.UI.ColorScheme))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

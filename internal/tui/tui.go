// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"io"
	"os"

	"github.com/lunescripts/lunescripts/internal/scripts"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

const (
	// ThemeDefault uses the default huh theme.
	ThemeDefault Theme = "default"
	// ThemeCharm uses the Charm theme.
	ThemeCharm Theme = "charm"
	// ThemeDracula uses the Dracula theme.
	ThemeDracula Theme = "dracula"
	// ThemeCatppuccin uses the Catppuccin theme.
	ThemeCatppuccin Theme = "catppuccin"
	// ThemeBase16 uses the Base16 theme.
	ThemeBase16 Theme = "base16"
)

type (
	// Theme represents the visual theme for prompts.
	Theme string

	// Config holds common configuration for TUI components.
	Config struct {
		Theme Theme
		// Accessible replaces the full-screen prompt with plain line prompts.
		Accessible bool
		Input      io.Reader
		Output     io.Writer
	}

	// TreeSource is the hierarchy rendered by the panel.
	TreeSource interface {
		// Root returns the workspace root, or "" when no workspace is open.
		Root() string
		Children(ctx context.Context, parent *scripts.Node) ([]*scripts.Node, error)
	}
)

// DefaultConfig returns the configuration for the current process. Accessible
// mode is enabled when stdin is not a terminal or ACCESSIBLE is set, and
// prompts then go to stderr so they are not captured by command substitution.
func DefaultConfig() Config {
	accessible := !IsInputTerminal() || os.Getenv("ACCESSIBLE") != ""

	var output io.Writer = os.Stdout
	if accessible {
		output = os.Stderr
	}
	return Config{
		Theme:      ThemeDefault,
		Accessible: accessible,
		Input:      os.Stdin,
		Output:     output,
	}
}

// IsInputTerminal reports whether stdin is connected to a terminal.
func IsInputTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// getHuhTheme converts a Theme to a huh.Theme.
func getHuhTheme(t Theme) *huh.Theme {
	switch t {
	case ThemeCharm:
		return huh.ThemeCharm()
	case ThemeDracula:
		return huh.ThemeDracula()
	case ThemeCatppuccin:
		return huh.ThemeCatppuccin()
	case ThemeBase16:
		return huh.ThemeBase16()
	default:
		return huh.ThemeBase()
	}
}

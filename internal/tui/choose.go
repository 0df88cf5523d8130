// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"github.com/charmbracelet/huh"
)

type (
	// Option represents a selectable option with a display title and value.
	Option[T comparable] struct {
		Title string
		Value T
	}

	// ChooseOptions configures the Choose component.
	ChooseOptions[T comparable] struct {
		Title       string
		Description string
		Options     []Option[T]
		// Height limits the number of visible options (0 for auto).
		Height int
		Config Config
	}
)

// Choose prompts the user to select one option from a list.
// It returns huh.ErrUserAborted when the prompt is cancelled.
func Choose[T comparable](opts ChooseOptions[T]) (T, error) {
	var result T

	huhOpts := make([]huh.Option[T], len(opts.Options))
	for i, opt := range opts.Options {
		huhOpts[i] = huh.NewOption(opt.Title, opt.Value)
	}

	sel := huh.NewSelect[T]().
		Title(opts.Title).
		Description(opts.Description).
		Options(huhOpts...).
		Value(&result)

	if opts.Height > 0 {
		sel = sel.Height(opts.Height)
	}

	form := huh.NewForm(huh.NewGroup(sel)).
		WithTheme(getHuhTheme(opts.Config.Theme)).
		WithAccessible(opts.Config.Accessible)
	if opts.Config.Input != nil {
		form = form.WithInput(opts.Config.Input)
	}
	if opts.Config.Output != nil {
		form = form.WithOutput(opts.Config.Output)
	}

	if err := form.Run(); err != nil {
		return result, err
	}
	return result, nil
}

// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"testing"
)

func TestGetHuhTheme(t *testing.T) {
	t.Parallel()

	themes := []Theme{ThemeDefault, ThemeCharm, ThemeDracula, ThemeCatppuccin, ThemeBase16, Theme("unknown")}
	for _, theme := range themes {
		t.Run(string(theme), func(t *testing.T) {
			t.Parallel()
			if got := getHuhTheme(theme); got == nil {
				t.Errorf("getHuhTheme(%q) = nil", theme)
			}
		})
	}
}

func TestBrowserMenu(t *testing.T) {
	t.Parallel()

	b := &Browser{}
	menu := b.menu(nil, nil)
	if len(menu) != 2 {
		t.Fatalf("root menu without nodes = %v, want refresh and quit only", menu)
	}
	if menu[0].Value != choiceRefresh || menu[1].Value != choiceQuit {
		t.Errorf("menu values = %d, %d, want %d, %d", menu[0].Value, menu[1].Value, choiceRefresh, choiceQuit)
	}

	// Action values never collide with node indices.
	for _, v := range []int{choiceQuit, choiceUp, choiceRefresh} {
		if v >= 0 {
			t.Errorf("action value %d overlaps node indices", v)
		}
	}
}

// SPDX-License-Identifier: MPL-2.0

// Package tui renders the script tree on the terminal.
//
// RenderTree draws the whole hierarchy as a lipgloss tree for non-interactive
// output. Browser walks it one level at a time with huh select prompts and
// runs the chosen script through the dispatcher.
package tui

// SPDX-License-Identifier: MPL-2.0

// Package dispatch runs a Lune script in a reusable terminal.
//
// A run resolves the script path from an Invocation, checks that the
// interpreter can be found on PATH and sends one command line to the terminal
// session named by the configuration, creating that session when no live one
// exists. Each step that fails surfaces a user notice and stops the run.
package dispatch

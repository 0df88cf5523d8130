// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for lunescripts.
//
// The root command wires the script tree supplier, the command dispatcher
// and the terminal registry for each invocation; the subcommands expose the
// tree (tree, browse, refresh), script execution (run) and configuration
// management (config).
package cmd

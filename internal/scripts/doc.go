// SPDX-License-Identifier: MPL-2.0

// Package scripts supplies the script tree shown in the side panel.
//
// A Supplier lists the configured script directories under a workspace root
// and, on expansion, the subdirectories and Lua/Luau files inside them. Nodes
// are rebuilt from the filesystem on every call; nothing is cached, so a
// Refresh only has to tell listeners to ask again.
package scripts

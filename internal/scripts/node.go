// SPDX-License-Identifier: MPL-2.0

package scripts

import (
	"path/filepath"
	"strings"
)

const (
	// KindDirectory is an expandable node backed by a directory.
	KindDirectory NodeKind = iota
	// KindScript is a leaf node backed by a .lua or .luau file.
	KindScript
)

// OpenCommand is the action attached to every script leaf.
const OpenCommand = "open"

// scriptExtensions are matched case-sensitively against file names.
var scriptExtensions = []string{".lua", ".luau"}

type (
	// NodeKind distinguishes directories from script files.
	NodeKind int

	// Action is a host command attached to a node, run when the node is activated.
	Action struct {
		Command string
		Path    string
	}

	// Node is one entry of the script tree. Nodes are values built fresh for
	// each listing and never mutated afterwards.
	Node struct {
		// Path is absolute and unique within a listing.
		Path string
		// Label is the base name of Path.
		Label string
		Kind  NodeKind
		// Expanded is the initial presentation state of a directory node.
		Expanded bool
		// Open is set for script leaves only.
		Open *Action
	}
)

// String returns the kind name.
func (k NodeKind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindScript:
		return "script"
	default:
		return "unknown"
	}
}

// IsDir reports whether the node can be expanded.
func (n *Node) IsDir() bool {
	return n.Kind == KindDirectory
}

// Tooltip is the text shown when hovering the node.
func (n *Node) Tooltip() string {
	return n.Path
}

func newDirectoryNode(path string, expanded bool) *Node {
	return &Node{
		Path:     path,
		Label:    filepath.Base(path),
		Kind:     KindDirectory,
		Expanded: expanded,
	}
}

func newScriptNode(path string) *Node {
	return &Node{
		Path:  path,
		Label: filepath.Base(path),
		Kind:  KindScript,
		Open:  &Action{Command: OpenCommand, Path: path},
	}
}

// IsScriptFile reports whether name carries one of the recognized script
// extensions. The match is case-sensitive.
func IsScriptFile(name string) bool {
	for _, ext := range scriptExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"path/filepath"

	"github.com/lunescripts/lunescripts/internal/scripts"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

// PanelTitle is the heading of the script panel.
const PanelTitle = "Lune Scripts"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	directoryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#06B6D4"))

	scriptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	enumeratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			MarginRight(1)

	emptyStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#6B7280"))
)

// RenderTree walks src from the root, expanding every directory, and renders
// the result. A listing error aborts the walk and is returned as is.
func RenderTree(ctx context.Context, src TreeSource) (string, error) {
	root := tree.Root(titleStyle.Render(PanelTitle)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(enumeratorStyle)

	nodes, err := src.Children(ctx, nil)
	if err != nil {
		return "", err
	}
	if len(nodes) == 0 {
		root.Child(emptyStyle.Render(emptyMessage(src.Root())))
		return root.String(), nil
	}

	if err := addChildren(ctx, src, root, nodes); err != nil {
		return "", err
	}
	return root.String(), nil
}

func addChildren(ctx context.Context, src TreeSource, parent *tree.Tree, nodes []*scripts.Node) error {
	for _, n := range nodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !n.IsDir() {
			parent.Child(scriptStyle.Render(n.Label))
			continue
		}

		children, err := src.Children(ctx, n)
		if err != nil {
			return err
		}
		sub := tree.Root(directoryStyle.Render(n.Label + string(filepath.Separator))).
			Enumerator(tree.RoundedEnumerator).
			EnumeratorStyle(enumeratorStyle)
		if err := addChildren(ctx, src, sub, children); err != nil {
			return err
		}
		parent.Child(sub)
	}
	return nil
}

func emptyMessage(root string) string {
	if root == "" {
		return scripts.NoWorkspaceMessage
	}
	return "no script directories found"
}

// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"errors"
	"io"
	"path/filepath"

	"github.com/lunescripts/lunescripts/internal/dispatch"
	"github.com/lunescripts/lunescripts/internal/scripts"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
)

// Menu entries other than nodes are encoded as negative values.
const (
	choiceQuit = -1 - iota
	choiceUp
	choiceRefresh
)

type (
	// Navigator is the tree source browsed interactively.
	Navigator interface {
		TreeSource
		Parent(n *scripts.Node) *scripts.Node
		Refresh()
	}

	// ScriptRunner runs the selected script.
	ScriptRunner interface {
		Run(ctx context.Context, inv dispatch.Invocation) error
	}

	// chooseFunc presents one menu and returns the selected value.
	chooseFunc func(opts ChooseOptions[int]) (int, error)

	// Browser is the interactive script panel.
	Browser struct {
		nav      Navigator
		runner   ScriptRunner
		notifier scripts.Notifier
		cfg      Config
		logger   *log.Logger
		choose   chooseFunc
	}
)

// NewBrowser creates a Browser. Every script runs through runner, so a
// single dispatcher keeps reusing its terminal across selections. The
// refresh notice goes to notifier; a nil notifier only logs it.
func NewBrowser(nav Navigator, runner ScriptRunner, notifier scripts.Notifier, cfg Config, logger *log.Logger) *Browser {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Browser{
		nav:      nav,
		runner:   runner,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		choose:   Choose[int],
	}
}

// Run shows the panel until the user quits or aborts the prompt. Listing
// failures end the session with an error; script failures are reported by
// the runner and the panel stays open.
func (b *Browser) Run(ctx context.Context) error {
	var current *scripts.Node
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		nodes, err := b.nav.Children(ctx, current)
		if err != nil {
			return err
		}

		choice, err := b.choose(ChooseOptions[int]{
			Title:       PanelTitle,
			Description: b.location(current),
			Options:     b.menu(current, nodes),
			Config:      b.cfg,
		})
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}

		switch {
		case choice == choiceQuit:
			return nil
		case choice == choiceUp:
			current = b.nav.Parent(current)
		case choice == choiceRefresh:
			b.refresh()
		case choice >= 0 && choice < len(nodes):
			selected := nodes[choice]
			if selected.IsDir() {
				current = selected
				continue
			}
			if err := b.runner.Run(ctx, dispatch.NodeInvocation{Node: selected}); err != nil {
				b.reportRunError(selected, err)
			}
		}
	}
}

func (b *Browser) refresh() {
	b.nav.Refresh()
	if b.notifier == nil {
		b.logger.Info(scripts.RefreshedMessage)
		return
	}
	b.notifier.Info(scripts.RefreshedMessage)
}

// reportRunError logs failures the dispatcher has not already shown as a notice.
func (b *Browser) reportRunError(n *scripts.Node, err error) {
	if errors.Is(err, dispatch.ErrUnresolvedScript) || errors.Is(err, dispatch.ErrInterpreterMissing) {
		b.logger.Debug("script run failed", "path", n.Path, "err", err)
		return
	}
	b.logger.Error("script run failed", "path", n.Path, "err", err)
}

func (b *Browser) menu(current *scripts.Node, nodes []*scripts.Node) []Option[int] {
	opts := make([]Option[int], 0, len(nodes)+3)
	if current != nil {
		opts = append(opts, Option[int]{Title: "..", Value: choiceUp})
	}
	for i, n := range nodes {
		title := "  " + n.Label
		if n.IsDir() {
			title = "▸ " + n.Label + string(filepath.Separator)
		}
		opts = append(opts, Option[int]{Title: title, Value: i})
	}
	return append(opts,
		Option[int]{Title: "↻ refresh", Value: choiceRefresh},
		Option[int]{Title: "✕ quit", Value: choiceQuit},
	)
}

// location describes the current level relative to the workspace root.
func (b *Browser) location(current *scripts.Node) string {
	root := b.nav.Root()
	if root == "" {
		return scripts.NoWorkspaceMessage
	}
	if current == nil {
		return filepath.Base(root)
	}
	if rel, err := filepath.Rel(root, current.Path); err == nil {
		return filepath.Join(filepath.Base(root), rel)
	}
	return current.Path
}

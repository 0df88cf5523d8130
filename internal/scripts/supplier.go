// SPDX-License-Identifier: MPL-2.0

package scripts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/lunescripts/lunescripts/internal/issue"

	"github.com/charmbracelet/log"
)

const (
	// NoWorkspaceMessage is the notice shown when the supplier has no root.
	NoWorkspaceMessage = "No workspace is open"
	// RefreshedMessage is the notice shown after an explicit refresh.
	RefreshedMessage = "Lune Scripts refreshed."
)

type (
	// DirectorySource yields the configured script directory names, relative
	// to the workspace root, in display order. It is consulted on every root
	// listing so configuration edits apply without restarting.
	DirectorySource interface {
		ScriptDirectories(ctx context.Context) ([]string, error)
	}

	// DirectorySourceFunc adapts a function to DirectorySource.
	DirectorySourceFunc func(ctx context.Context) ([]string, error)

	// Notifier surfaces informational notices to the user.
	Notifier interface {
		Info(msg string)
	}

	// Option configures a Supplier.
	Option func(*Supplier)

	// Supplier produces the script tree for a workspace.
	Supplier struct {
		root     string
		dirs     DirectorySource
		notifier Notifier
		logger   *log.Logger

		mu             sync.Mutex
		noticeShown    bool
		listeners      map[int]func()
		nextListenerID int
	}
)

// ScriptDirectories implements DirectorySource.
func (f DirectorySourceFunc) ScriptDirectories(ctx context.Context) ([]string, error) {
	return f(ctx)
}

// StaticDirectories returns a DirectorySource that always yields dirs.
func StaticDirectories(dirs ...string) DirectorySource {
	return DirectorySourceFunc(func(context.Context) ([]string, error) {
		return dirs, nil
	})
}

// WithNotifier sets the notice sink. Without one, notices are only logged.
func WithNotifier(n Notifier) Option {
	return func(s *Supplier) {
		s.notifier = n
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *Supplier) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSupplier creates a Supplier rooted at workspaceRoot. An empty root means
// no workspace is open.
func NewSupplier(workspaceRoot string, dirs DirectorySource, opts ...Option) *Supplier {
	if workspaceRoot != "" {
		workspaceRoot = filepath.Clean(workspaceRoot)
	}
	s := &Supplier{
		root:      workspaceRoot,
		dirs:      dirs,
		logger:    log.New(io.Discard),
		listeners: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the workspace root, or "" when no workspace is open.
func (s *Supplier) Root() string {
	return s.root
}

// Children lists the nodes under parent. A nil parent lists the configured
// script directories; a script leaf has no children.
//
// Errors reading an already listed directory are returned to the caller.
func (s *Supplier) Children(ctx context.Context, parent *Node) ([]*Node, error) {
	if parent == nil {
		return s.rootChildren(ctx)
	}
	if !parent.IsDir() {
		return nil, nil
	}
	return s.directoryChildren(parent.Path)
}

func (s *Supplier) rootChildren(ctx context.Context) ([]*Node, error) {
	if s.root == "" {
		s.noticeNoWorkspace()
		return nil, nil
	}

	names, err := s.dirs.ScriptDirectories(ctx)
	if err != nil {
		return nil, fmt.Errorf("read script directories: %w", err)
	}

	nodes := make([]*Node, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		// Join cleans the path, so "lune" and "./lune/" name the same node.
		path := filepath.Join(s.root, name)
		if _, dup := seen[path]; dup {
			continue
		}
		if !s.isDirectory(path) {
			continue
		}
		seen[path] = struct{}{}
		nodes = append(nodes, newDirectoryNode(path, true))
	}
	return nodes, nil
}

// isDirectory reports whether path exists as a directory. Absence is silent;
// any other stat failure (such as permission denied) is logged as a warning
// so it is not mistaken for a missing directory.
func (s *Supplier) isDirectory(path string) bool {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false
	case err != nil:
		s.logger.Warn("cannot access script directory", "path", path, "err", err)
		return false
	case !info.IsDir():
		s.logger.Debug("script directory entry is not a directory", "path", path)
		return false
	default:
		return true
	}
}

// directoryChildren keeps the enumeration order of the underlying directory
// stream; os.ReadDir would sort by name.
func (s *Supplier) directoryChildren(dir string) ([]*Node, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, listError(dir, err)
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, listError(dir, err)
	}

	var nodes []*Node
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		switch {
		case entry.IsDir():
			nodes = append(nodes, newDirectoryNode(path, false))
		case entry.Type().IsRegular() && IsScriptFile(entry.Name()):
			nodes = append(nodes, newScriptNode(path))
		}
	}
	s.logger.Debug("listed script directory", "path", dir, "nodes", len(nodes))
	return nodes, nil
}

func listError(dir string, err error) error {
	return issue.NewErrorContext().
		WithOperation("list script directory").
		WithResource(dir).
		WithSuggestion("Check that the directory still exists and is readable").
		Wrap(err).
		BuildError()
}

// Parent reconstructs the directory node containing n. It returns nil when
// that directory is the workspace root.
func (s *Supplier) Parent(n *Node) *Node {
	parent := filepath.Dir(n.Path)
	if parent == s.root {
		return nil
	}
	return newDirectoryNode(parent, false)
}

// OnDidChange registers fn to be called on every Refresh. The returned
// function removes the registration.
func (s *Supplier) OnDidChange(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextListenerID
	s.nextListenerID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Refresh signals listeners that the whole tree must be listed again.
func (s *Supplier) Refresh() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	s.logger.Debug("script tree refresh", "listeners", len(fns))
	for _, fn := range fns {
		fn()
	}
}

func (s *Supplier) noticeNoWorkspace() {
	s.mu.Lock()
	shown := s.noticeShown
	s.noticeShown = true
	s.mu.Unlock()

	if shown {
		return
	}
	s.logger.Debug(NoWorkspaceMessage)
	if s.notifier != nil {
		s.notifier.Info(NoWorkspaceMessage)
	}
}

// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/lunescripts/lunescripts/internal/dispatch"
	"github.com/lunescripts/lunescripts/internal/scripts"
	"github.com/lunescripts/lunescripts/internal/testutil"

	"github.com/charmbracelet/huh"
)

type recordingNotifier struct {
	infos []string
}

func (n *recordingNotifier) Info(msg string) {
	n.infos = append(n.infos, msg)
}

type recordingRunner struct {
	paths []string
	err   error
}

func (r *recordingRunner) Run(_ context.Context, inv dispatch.Invocation) error {
	if n, ok := inv.(dispatch.NodeInvocation); ok && n.Node != nil {
		r.paths = append(r.paths, n.Node.Path)
	}
	return r.err
}

// scriptedChooser answers each prompt with the option whose title matches
// the next entry of picks, and records every menu it was shown.
type scriptedChooser struct {
	t     *testing.T
	picks []string
	menus [][]string
}

func (c *scriptedChooser) choose(opts ChooseOptions[int]) (int, error) {
	titles := make([]string, len(opts.Options))
	for i, o := range opts.Options {
		titles[i] = o.Title
	}
	c.menus = append(c.menus, titles)

	if len(c.picks) == 0 {
		return 0, huh.ErrUserAborted
	}
	pick := c.picks[0]
	c.picks = c.picks[1:]
	for _, o := range opts.Options {
		if o.Title == pick {
			return o.Value, nil
		}
	}
	c.t.Fatalf("menu %v has no option %q", titles, pick)
	return 0, nil
}

func newTestBrowser(t *testing.T, s *scripts.Supplier, runner ScriptRunner, picks ...string) (*Browser, *scriptedChooser) {
	t.Helper()
	chooser := &scriptedChooser{t: t, picks: picks}
	b := NewBrowser(s, runner, nil, Config{Accessible: true}, nil)
	b.choose = chooser.choose
	return b, chooser
}

func TestBrowser_RunsSelectedScript(t *testing.T) {
	t.Parallel()

	ws := t.TempDir()
	testutil.WriteScripts(t, ws, "lune/tools/release.luau", "lune/build.lua")
	s := scripts.NewSupplier(ws, scripts.StaticDirectories("lune"))
	runner := &recordingRunner{}

	sep := string(filepath.Separator)
	b, chooser := newTestBrowser(t, s, runner,
		"▸ lune"+sep,
		"▸ tools"+sep,
		"  release.luau",
		"  release.luau",
		"✕ quit",
	)

	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := filepath.Join(ws, "lune", "tools", "release.luau")
	if !slices.Equal(runner.paths, []string{want, want}) {
		t.Errorf("runner paths = %v, want two runs of %s", runner.paths, want)
	}
	if slices.Contains(chooser.menus[0], "..") {
		t.Errorf("root menu %v should not offer ..", chooser.menus[0])
	}
	if !slices.Contains(chooser.menus[1], "..") {
		t.Errorf("nested menu %v should offer ..", chooser.menus[1])
	}
}

func TestBrowser_NavigatesUpToRoot(t *testing.T) {
	t.Parallel()

	ws := t.TempDir()
	testutil.WriteScripts(t, ws, "lune/tools/release.luau")
	s := scripts.NewSupplier(ws, scripts.StaticDirectories("lune"))

	sep := string(filepath.Separator)
	b, chooser := newTestBrowser(t, s, &recordingRunner{},
		"▸ lune"+sep,
		"▸ tools"+sep,
		"..",
		"..",
		"✕ quit",
	)

	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(chooser.menus) != 5 {
		t.Fatalf("shown %d menus, want 5", len(chooser.menus))
	}
	if !slices.Contains(chooser.menus[3], "▸ tools"+sep) {
		t.Errorf("menu after one step up = %v, want the lune level", chooser.menus[3])
	}
	if slices.Contains(chooser.menus[4], "..") {
		t.Errorf("menu after two steps up = %v, want the root level", chooser.menus[4])
	}
}

func TestBrowser_RefreshFiresListeners(t *testing.T) {
	t.Parallel()

	ws := t.TempDir()
	testutil.WriteScripts(t, ws, "lune/a.lua")
	s := scripts.NewSupplier(ws, scripts.StaticDirectories("lune"))

	notifier := &recordingNotifier{}
	var fired, infosAtFire int
	s.OnDidChange(func() {
		fired++
		infosAtFire = len(notifier.infos)
	})

	b, _ := newTestBrowser(t, s, &recordingRunner{}, "↻ refresh", "↻ refresh", "✕ quit")
	b.notifier = notifier
	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if fired != 2 {
		t.Errorf("listener fired %d times, want 2", fired)
	}
	want := []string{scripts.RefreshedMessage, scripts.RefreshedMessage}
	if !slices.Equal(notifier.infos, want) {
		t.Errorf("notices = %q, want %q", notifier.infos, want)
	}
	if infosAtFire != 1 {
		t.Errorf("second refresh fired after %d notices, want the notice to follow the signal", infosAtFire)
	}
}

func TestBrowser_ScriptFailureKeepsPanelOpen(t *testing.T) {
	t.Parallel()

	ws := t.TempDir()
	testutil.WriteScripts(t, ws, "lune/a.lua")
	s := scripts.NewSupplier(ws, scripts.StaticDirectories("lune"))
	runner := &recordingRunner{err: dispatch.ErrInterpreterMissing}

	sep := string(filepath.Separator)
	b, chooser := newTestBrowser(t, s, runner, "▸ lune"+sep, "  a.lua", "✕ quit")
	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(chooser.menus) != 3 {
		t.Errorf("shown %d menus, want 3", len(chooser.menus))
	}
}

func TestBrowser_AbortEndsQuietly(t *testing.T) {
	t.Parallel()

	b, _ := newTestBrowser(t, scripts.NewSupplier("", scripts.StaticDirectories("lune")), &recordingRunner{})
	if err := b.Run(context.Background()); err != nil {
		t.Errorf("Run() after abort = %v, want nil", err)
	}
}

func TestBrowser_ListingErrorEndsSession(t *testing.T) {
	t.Parallel()

	boom := errors.New("permission denied")
	b := NewBrowser(failingNavigator{failingSource{root: "/ws", err: boom}}, &recordingRunner{}, nil, Config{}, nil)
	sep := string(filepath.Separator)
	chooser := &scriptedChooser{t: t, picks: []string{"▸ lune" + sep}}
	b.choose = chooser.choose

	if err := b.Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want %v", err, boom)
	}
}

type failingNavigator struct{ failingSource }

func (failingNavigator) Parent(*scripts.Node) *scripts.Node { return nil }
func (failingNavigator) Refresh()                           {}

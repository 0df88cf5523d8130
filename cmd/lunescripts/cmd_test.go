// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/lunescripts/lunescripts/internal/config"
	"github.com/lunescripts/lunescripts/internal/dispatch"
	"github.com/lunescripts/lunescripts/internal/scripts"
	"github.com/lunescripts/lunescripts/internal/testutil"
)

type fakeProber struct {
	available bool

	mu     sync.Mutex
	probes []string
}

func (p *fakeProber) Available(_ context.Context, name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.probes = append(p.probes, name)
	return p.available
}

// stubProvider serves a mutable in-memory configuration.
type stubProvider struct {
	mu  sync.Mutex
	cfg *config.Config
	err error
}

func newStubProvider(mutate func(*config.Config)) *stubProvider {
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	return &stubProvider{cfg: cfg}
}

func (p *stubProvider) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	c := *p.cfg
	c.ScriptDirectories = slices.Clone(p.cfg.ScriptDirectories)
	return &c, nil
}

func (p *stubProvider) set(mutate func(*config.Config)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	mutate(p.cfg)
}

// echoInterpreter makes the virtual terminal print the dispatched line
// instead of running lune.
func echoInterpreter(c *config.Config) {
	c.Interpreter = "echo"
	c.Terminal.Backend = config.TerminalBackendVirtual
}

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, deps Dependencies, args ...string) result {
	t.Helper()

	var out, errOut bytes.Buffer
	deps.Stdin = strings.NewReader("")
	deps.Stdout = &out
	deps.Stderr = &errOut
	if deps.Getwd == nil {
		wd := t.TempDir()
		deps.Getwd = func() (string, error) { return wd, nil }
	}

	root := NewRootCommand(NewApp(deps))
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())

	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func TestTree_ListsScripts(t *testing.T) {
	t.Parallel()

	ws := t.TempDir()
	testutil.WriteScripts(t, ws, "lune/build.luau", "lune/tools/release.lua", "lune/notes.md", ".lune/setup.lua")

	res := execute(t, Dependencies{Config: newStubProvider(nil)}, "--workspace", ws, "tree")
	if res.err != nil {
		t.Fatalf("tree error: %v\nstderr: %s", res.err, res.stderr)
	}
	for _, want := range []string{"build.luau", "tools", "release.lua", ".lune", "setup.lua"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, res.stdout)
		}
	}
	if strings.Contains(res.stdout, "notes.md") {
		t.Errorf("stdout lists a non-script file:\n%s", res.stdout)
	}
}

func TestTree_HonorsConfiguredDirectories(t *testing.T) {
	t.Parallel()

	ws := t.TempDir()
	testutil.WriteScripts(t, ws, "lune/default.lua", "scripts/custom.luau")

	provider := newStubProvider(func(c *config.Config) { c.ScriptDirectories = []string{"scripts"} })
	res := execute(t, Dependencies{Config: provider}, "--workspace", ws, "tree")
	if res.err != nil {
		t.Fatalf("tree error: %v", res.err)
	}
	if !strings.Contains(res.stdout, "custom.luau") || strings.Contains(res.stdout, "default.lua") {
		t.Errorf("stdout = %q, want only the configured directory", res.stdout)
	}
}

func TestTree_ConfigErrorFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	ws := t.TempDir()
	testutil.WriteScripts(t, ws, "lune/a.lua")

	provider := newStubProvider(nil)
	provider.err = errors.New("broken config")
	res := execute(t, Dependencies{Config: provider}, "--workspace", ws, "tree")
	if res.err != nil {
		t.Fatalf("tree error: %v", res.err)
	}
	if !strings.Contains(res.stderr, "broken config") {
		t.Errorf("stderr = %q, want the config warning", res.stderr)
	}
	if !strings.Contains(res.stdout, "a.lua") {
		t.Errorf("stdout = %q, want default directories listed", res.stdout)
	}
}

func TestRun_ResourcePath(t *testing.T) {
	t.Parallel()

	ws := t.TempDir()
	testutil.WriteScripts(t, ws, "lune/hello.luau")
	script := filepath.Join(ws, "lune", "hello.luau")
	prober := &fakeProber{available: true}

	res := execute(t, Dependencies{Config: newStubProvider(echoInterpreter), Prober: prober},
		"--workspace", ws, "run", script)
	if res.err != nil {
		t.Fatalf("run error: %v\nstderr: %s", res.err, res.stderr)
	}
	if !strings.Contains(res.stdout, "run "+script) {
		t.Errorf("stdout = %q, want the dispatched command for %s", res.stdout, script)
	}
	if !strings.Contains(res.stdout, config.DefaultTerminalName) {
		t.Errorf("stdout = %q, want the terminal banner", res.stdout)
	}
	if !slices.Equal(prober.probes, []string{"echo"}) {
		t.Errorf("probes = %v, want [echo]", prober.probes)
	}
}

func TestRun_ResourceURI(t *testing.T) {
	t.Parallel()

	ws := t.TempDir()
	testutil.WriteScripts(t, ws, "lune/hello.lua")
	script := filepath.Join(ws, "lune", "hello.lua")
	uri := "file://" + filepath.ToSlash(script)
	if !strings.HasPrefix(filepath.ToSlash(script), "/") {
		uri = "file:///" + filepath.ToSlash(script)
	}

	res := execute(t, Dependencies{Config: newStubProvider(echoInterpreter), Prober: &fakeProber{available: true}},
		"--workspace", ws, "run", "--resource-uri", uri)
	if res.err != nil {
		t.Fatalf("run error: %v\nstderr: %s", res.err, res.stderr)
	}
	if !strings.Contains(res.stdout, "run "+script) {
		t.Errorf("stdout = %q, want the dispatched command for %s", res.stdout, script)
	}
}

func TestRun_ActiveFileFallback(t *testing.T) {
	t.Parallel()

	ws := t.TempDir()
	testutil.WriteScripts(t, ws, "src/tool.luau")
	active := filepath.Join(ws, "src", "tool.luau")

	res := execute(t, Dependencies{Config: newStubProvider(echoInterpreter), Prober: &fakeProber{available: true}},
		"--workspace", ws, "run", "--active-file", active)
	if res.err != nil {
		t.Fatalf("run error: %v\nstderr: %s", res.err, res.stderr)
	}
	if !strings.Contains(res.stdout, "run "+active) {
		t.Errorf("stdout = %q, want the active document dispatched", res.stdout)
	}
}

func TestRun_Unresolved(t *testing.T) {
	t.Parallel()

	ws := t.TempDir()
	prober := &fakeProber{available: true}
	t.Cleanup(func() {
		if len(prober.probes) != 0 {
			t.Errorf("interpreter probed %d times for unresolved scripts", len(prober.probes))
		}
	})

	tests := []struct {
		name string
		args []string
	}{
		{name: "no context", args: []string{"run"}},
		{name: "active document is not lua", args: []string{"run", "--active-file", filepath.Join(ws, "README.md")}},
		{name: "language overrides extension", args: []string{"run", "--active-file", filepath.Join(ws, "a.lua"), "--language", "python"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			args := append([]string{"--workspace", ws}, tt.args...)
			res := execute(t, Dependencies{Config: newStubProvider(echoInterpreter), Prober: prober}, args...)

			var exitErr *ExitError
			if !errors.As(res.err, &exitErr) || exitErr.Code != exitFailure {
				t.Fatalf("run error = %v, want ExitError code %d", res.err, exitFailure)
			}
			if !errors.Is(res.err, dispatch.ErrUnresolvedScript) {
				t.Errorf("run error = %v, want ErrUnresolvedScript", res.err)
			}
			if !strings.Contains(res.stderr, dispatch.MsgUnresolvedScript) {
				t.Errorf("stderr = %q, want %q", res.stderr, dispatch.MsgUnresolvedScript)
			}
		})
	}
}

func TestRun_InterpreterMissing(t *testing.T) {
	t.Parallel()

	ws := t.TempDir()
	testutil.WriteScripts(t, ws, "lune/a.lua")

	res := execute(t, Dependencies{Config: newStubProvider(echoInterpreter), Prober: &fakeProber{available: false}},
		"--workspace", ws, "run", filepath.Join(ws, "lune", "a.lua"))

	var exitErr *ExitError
	if !errors.As(res.err, &exitErr) || exitErr.Code != exitInterpreterMissing {
		t.Fatalf("run error = %v, want ExitError code %d", res.err, exitInterpreterMissing)
	}
	if !strings.Contains(res.stderr, dispatch.MsgInterpreterMissing) {
		t.Errorf("stderr = %q, want %q", res.stderr, dispatch.MsgInterpreterMissing)
	}
	if strings.Contains(res.stdout, config.DefaultTerminalName) {
		t.Errorf("terminal shown although the interpreter is missing:\n%s", res.stdout)
	}
}

func TestRun_InvalidTerminalFlag(t *testing.T) {
	t.Parallel()

	res := execute(t, Dependencies{Config: newStubProvider(nil)}, "--terminal", "tmux", "run", "a.lua")
	if res.err == nil || !strings.Contains(res.err.Error(), "tmux") {
		t.Errorf("run error = %v, want invalid --terminal", res.err)
	}
}

func TestRefresh_PrintsTreeAndNotice(t *testing.T) {
	t.Parallel()

	ws := t.TempDir()
	testutil.WriteScripts(t, ws, "lune/a.lua")

	res := execute(t, Dependencies{Config: newStubProvider(nil)}, "--workspace", ws, "refresh")
	if res.err != nil {
		t.Fatalf("refresh error: %v", res.err)
	}
	treeAt := strings.Index(res.stdout, "a.lua")
	noticeAt := strings.Index(res.stdout, scripts.RefreshedMessage)
	if treeAt < 0 || noticeAt < 0 || treeAt > noticeAt {
		t.Errorf("stdout = %q, want the tree followed by %q", res.stdout, scripts.RefreshedMessage)
	}
}

func TestConfigShow(t *testing.T) {
	t.Parallel()

	ws := t.TempDir()
	provider := newStubProvider(func(c *config.Config) { c.ScriptDirectories = []string{"tools/lune"} })

	res := execute(t, Dependencies{Config: provider}, "--workspace", ws, "config", "show")
	if res.err != nil {
		t.Fatalf("config show error: %v", res.err)
	}
	if !strings.Contains(res.stdout, `script_directories: ["tools/lune"]`) {
		t.Errorf("stdout = %q, want the effective script_directories", res.stdout)
	}
	if !strings.Contains(res.stdout, "Workspace settings") {
		t.Errorf("stdout = %q, want the workspace settings source", res.stdout)
	}
}

func TestConfigInit_WritesExplicitPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.cue")
	res := execute(t, Dependencies{}, "--config", path, "config", "init")
	if res.err != nil {
		t.Fatalf("config init error: %v", res.err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), `script_directories: ["lune", ".lune"]`) {
		t.Errorf("config file = %q, want default script_directories", data)
	}
}

func TestPathFromFileURI(t *testing.T) {
	t.Parallel()

	if _, err := pathFromFileURI("https://example.com/a.lua"); err == nil {
		t.Error("pathFromFileURI() accepted a non-file scheme")
	}
	if _, err := pathFromFileURI("file://%zz"); err == nil {
		t.Error("pathFromFileURI() accepted a malformed URI")
	}

	got, err := pathFromFileURI("file:///ws/lune/a%20b.lua")
	if err != nil {
		t.Fatalf("pathFromFileURI() error: %v", err)
	}
	if want := filepath.FromSlash("/ws/lune/a b.lua"); got != want {
		t.Errorf("pathFromFileURI() = %q, want %q", got, want)
	}
}

func TestInvocation_ArgumentWinsOverURI(t *testing.T) {
	t.Parallel()

	f := &runFlagValues{resourceURI: "file:///ws/other.lua"}
	inv, err := f.invocation([]string{"/ws/a.lua"})
	if err != nil {
		t.Fatalf("invocation() error: %v", err)
	}
	res, ok := inv.(dispatch.ResourceInvocation)
	if !ok || !filepath.IsAbs(res.Path) || filepath.Base(res.Path) != "a.lua" {
		t.Errorf("invocation() = %#v, want ResourceInvocation for /ws/a.lua", inv)
	}

	inv, err = (&runFlagValues{}).invocation(nil)
	if err != nil {
		t.Fatalf("invocation() error: %v", err)
	}
	if _, ok := inv.(dispatch.ContextInvocation); !ok {
		t.Errorf("invocation() without inputs = %#v, want ContextInvocation", inv)
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lunescripts/lunescripts/internal/config"
)

func newTestSession(t *testing.T, provider *stubProvider) (*session, *bytes.Buffer) {
	t.Helper()

	var out, errOut bytes.Buffer
	ws := t.TempDir()
	app := NewApp(Dependencies{
		Config: provider,
		Stdout: &out,
		Stderr: &errOut,
		Getwd:  func() (string, error) { return ws, nil },
	})
	s, err := app.newSession(context.Background(), &rootFlagValues{workspace: ws})
	if err != nil {
		t.Fatalf("newSession() error: %v", err)
	}
	t.Cleanup(func() { _ = s.close(nil) })
	return s, &errOut
}

func TestConfigChangeHandler_RefreshesOnlyWhenDirectoriesChange(t *testing.T) {
	t.Parallel()

	provider := newStubProvider(nil)
	s, _ := newTestSession(t, provider)

	var refreshes int
	s.supplier.OnDidChange(func() { refreshes++ })
	handler := s.configChangeHandler()
	ctx := context.Background()

	// Unrelated setting changed.
	provider.set(func(c *config.Config) { c.Interpreter = "lune-nightly" })
	if err := handler(ctx, []string{"config.cue"}); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if refreshes != 0 {
		t.Fatalf("refreshes = %d after unrelated change, want 0", refreshes)
	}

	provider.set(func(c *config.Config) { c.ScriptDirectories = []string{"scripts"} })
	if err := handler(ctx, []string{"config.cue"}); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if refreshes != 1 {
		t.Fatalf("refreshes = %d after directory change, want 1", refreshes)
	}

	// Same list again.
	if err := handler(ctx, []string{".lunescripts.toml"}); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if refreshes != 1 {
		t.Errorf("refreshes = %d after no-op save, want 1", refreshes)
	}
	if got := s.config().Interpreter; got != "lune-nightly" {
		t.Errorf("session interpreter = %q, want reloaded value", got)
	}
}

func TestConfigChangeHandler_KeepsPreviousConfigOnError(t *testing.T) {
	t.Parallel()

	provider := newStubProvider(nil)
	s, errOut := newTestSession(t, provider)

	var refreshes int
	s.supplier.OnDidChange(func() { refreshes++ })
	handler := s.configChangeHandler()

	provider.mu.Lock()
	provider.err = errors.New("unexpected token")
	provider.mu.Unlock()

	if err := handler(context.Background(), []string{"config.cue"}); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if refreshes != 0 {
		t.Errorf("refreshes = %d after failed reload, want 0", refreshes)
	}
	if !strings.Contains(errOut.String(), "unexpected token") {
		t.Errorf("stderr = %q, want the reload warning", errOut.String())
	}
	if got := s.config().ScriptDirectories; len(got) != 2 {
		t.Errorf("script directories = %v, want previous defaults", got)
	}
}

// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// defaultProbeTimeout bounds a lookup when the prober is built without one.
const defaultProbeTimeout = 5 * time.Second

type (
	// Prober reports whether an executable can be found on PATH.
	Prober interface {
		Available(ctx context.Context, name string) bool
	}

	// RunFunc runs a command and returns its standard output.
	RunFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

	// CommandProber asks the platform lookup command (`where` on Windows,
	// `which` elsewhere) for the executable. It succeeds when the command
	// exits cleanly with non-empty output.
	CommandProber struct {
		// Timeout bounds each lookup. Zero means defaultProbeTimeout.
		Timeout time.Duration
		// GOOS selects the lookup command. Empty means runtime.GOOS.
		GOOS string
		// Run executes the lookup. Nil means os/exec.
		Run RunFunc
	}
)

// LookupCommand returns the command and arguments used to locate name on goos.
func LookupCommand(goos, name string) (string, []string) {
	if goos == "windows" {
		return "where", []string{name}
	}
	return "which", []string{name}
}

// Available implements Prober.
func (p *CommandProber) Available(ctx context.Context, name string) bool {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	goos := p.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	run := p.Run
	if run == nil {
		run = execOutput
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd, args := LookupCommand(goos, name)
	out, err := run(ctx, cmd, args...)
	return err == nil && strings.TrimSpace(string(out)) != ""
}

func execOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	// Output waits for inherited pipes to close; do not let a stray
	// grandchild hold the probe open past its deadline.
	cmd.WaitDelay = time.Second
	return cmd.Output()
}

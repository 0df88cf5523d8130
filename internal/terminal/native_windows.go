// SPDX-License-Identifier: MPL-2.0

//go:build windows

package terminal

import (
	"fmt"
	"os"
	"os/exec"
)

// startNative starts the shell with piped input; Windows has no pty support
// in creack/pty.
func startNative(name string, opts Options) (*nativeSession, error) {
	shell := opts.Shell
	if shell == "" {
		shell = os.Getenv("ComSpec")
	}
	if shell == "" {
		shell = "cmd.exe"
	}

	cmd := exec.Command(shell)
	cmd.Dir = opts.Dir
	cmd.Env = opts.Env
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("open shell input: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start shell: %w", err)
	}

	s := newNativeSession(name, cmd, stdin, opts)
	// Output is wired directly to the command; nothing to copy.
	s.watch(func() {})
	if opts.ForwardInput {
		s.forwardInput(opts.Stdin)
	}
	return s, nil
}

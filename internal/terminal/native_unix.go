// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package terminal

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/creack/pty"
)

// startNative starts the shell with a pseudo-terminal so interactive
// programs behave as they would in a real terminal window.
func startNative(name string, opts Options) (*nativeSession, error) {
	cmd := exec.Command(resolveShell(opts, "/bin/sh"))
	cmd.Dir = opts.Dir
	cmd.Env = opts.Env

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("start shell in pty: %w", err)
	}

	s := newNativeSession(name, cmd, ptmx, opts)
	s.watch(func() {
		// Reading the pty master fails with EIO once the shell is gone.
		_, _ = io.Copy(opts.Stdout, ptmx)
	})
	if opts.ForwardInput {
		s.forwardInput(opts.Stdin)
	}
	return s, nil
}

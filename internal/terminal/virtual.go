// SPDX-License-Identifier: MPL-2.0

package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// virtualSession keeps one interpreter alive across lines, so variables,
// functions and the working directory persist like in a real shell.
type virtualSession struct {
	name   string
	runner *interp.Runner
	parser *syntax.Parser
	stdout io.Writer
	stderr io.Writer
	banner func(string) string

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	shown     bool
	disposed  bool
	onDispose func()
}

func newVirtual(name string, opts Options) (*virtualSession, error) {
	runnerOpts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(opts.Env...)),
		interp.StdIO(opts.Stdin, opts.Stdout, opts.Stderr),
	}
	if opts.Dir != "" {
		runnerOpts = append(runnerOpts, interp.Dir(opts.Dir))
	}

	runner, err := interp.New(runnerOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create interpreter: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &virtualSession{
		name:   name,
		runner: runner,
		parser: syntax.NewParser(),
		stdout: opts.Stdout,
		stderr: opts.Stderr,
		banner: opts.Banner,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

func (s *virtualSession) Name() string { return s.name }

func (s *virtualSession) Exited() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed || s.runner.Exited()
}

func (s *virtualSession) Show() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shown {
		return nil
	}
	s.shown = true
	_, err := fmt.Fprintln(s.stdout, s.banner(s.name))
	return err
}

// SendText runs one line to completion. Shell-level failures (syntax errors,
// non-zero exits) are reported inside the session, as a terminal would show
// them, and are not returned.
func (s *virtualSession) SendText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return fmt.Errorf("terminal %q is disposed", s.name)
	}
	if s.runner.Exited() {
		return fmt.Errorf("terminal %q has exited", s.name)
	}

	prog, err := s.parser.Parse(strings.NewReader(text+"\n"), s.name)
	if err != nil {
		fmt.Fprintln(s.stderr, err)
		return nil
	}

	err = s.runner.Run(s.ctx, prog)
	var status interp.ExitStatus
	if err != nil && !errors.As(err, &status) {
		fmt.Fprintln(s.stderr, err)
	}
	return nil
}

func (s *virtualSession) Dispose() error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	s.disposed = true
	onDispose := s.onDispose
	s.mu.Unlock()

	s.cancel()
	if onDispose != nil {
		onDispose()
	}
	return nil
}

func (s *virtualSession) setOnDispose(fn func()) {
	s.mu.Lock()
	s.onDispose = fn
	s.mu.Unlock()
}

// SPDX-License-Identifier: MPL-2.0

package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// outputDrainTimeout bounds how long Dispose waits for buffered shell output
// after the shell has exited.
const outputDrainTimeout = time.Second

// nativeSession is a shell process fed line by line through its input.
// Platform files provide startNative.
type nativeSession struct {
	name   string
	cmd    *exec.Cmd
	input  io.Writer
	closer io.Closer
	stdout io.Writer
	banner func(string) string
	logger *log.Logger

	exitTimeout time.Duration

	exited     atomic.Bool
	done       chan struct{} // closed when the shell process exits
	outputDone chan struct{} // closed when output copying stops

	mu        sync.Mutex
	shown     bool
	disposed  bool
	onDispose func()
}

// resolveShell picks the shell for native sessions.
func resolveShell(opts Options, fallback string) string {
	if opts.Shell != "" {
		return opts.Shell
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return fallback
}

func newNativeSession(name string, cmd *exec.Cmd, input io.WriteCloser, opts Options) *nativeSession {
	return &nativeSession{
		name:        name,
		cmd:         cmd,
		input:       input,
		closer:      input,
		stdout:      opts.Stdout,
		banner:      opts.Banner,
		logger:      opts.Logger,
		exitTimeout: opts.ExitTimeout,
	}
}

// forwardInput copies keyboard input into the shell until src ends or the
// shell input is closed.
func (s *nativeSession) forwardInput(src io.Reader) {
	go func() {
		_, _ = io.Copy(writerFunc(s.writeInput), src)
	}()
}

// writeInput writes to the shell, serialized with SendText.
func (s *nativeSession) writeInput(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input.Write(p)
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

// watch reaps the shell and tracks output copying. copyOutput runs until the
// output side reaches EOF or fails.
func (s *nativeSession) watch(copyOutput func()) {
	s.done = make(chan struct{})
	s.outputDone = make(chan struct{})

	go func() {
		defer close(s.outputDone)
		copyOutput()
	}()
	go func() {
		_ = s.cmd.Wait()
		s.exited.Store(true)
		close(s.done)
	}()
}

func (s *nativeSession) Name() string { return s.name }

func (s *nativeSession) Exited() bool {
	s.mu.Lock()
	disposed := s.disposed
	s.mu.Unlock()
	return disposed || s.exited.Load()
}

func (s *nativeSession) Show() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shown {
		return nil
	}
	s.shown = true
	_, err := fmt.Fprintln(s.stdout, s.banner(s.name))
	return err
}

func (s *nativeSession) SendText(text string) error {
	if s.Exited() {
		return fmt.Errorf("terminal %q has exited", s.name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.input, text+"\n"); err != nil {
		return fmt.Errorf("write to terminal %q: %w", s.name, err)
	}
	return nil
}

// Dispose asks the shell to exit once pending lines are done, waits for it
// up to the exit timeout and releases the terminal. A shell still running
// after the timeout is killed.
func (s *nativeSession) Dispose() error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	s.disposed = true
	onDispose := s.onDispose
	s.mu.Unlock()

	var errs []error
	if !s.exited.Load() {
		if _, err := s.writeInput([]byte("exit\n")); err != nil {
			_ = s.cmd.Process.Kill()
		}
	}

	timer := time.NewTimer(s.exitTimeout)
	select {
	case <-s.done:
		timer.Stop()
	case <-timer.C:
		s.logger.Warn("terminal did not exit, killing it", "name", s.name, "timeout", s.exitTimeout)
		_ = s.cmd.Process.Kill()
		<-s.done
		errs = append(errs, fmt.Errorf("terminal %q did not exit within %s and was killed", s.name, s.exitTimeout))
	}

	select {
	case <-s.outputDone:
	case <-time.After(outputDrainTimeout):
	}
	errs = append(errs, s.closer.Close())

	if onDispose != nil {
		onDispose()
	}
	return errors.Join(errs...)
}

func (s *nativeSession) setOnDispose(fn func()) {
	s.mu.Lock()
	s.onDispose = fn
	s.mu.Unlock()
}

// SPDX-License-Identifier: MPL-2.0

package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/lunescripts/lunescripts/internal/dispatch"

	"github.com/charmbracelet/log"
)

// DefaultExitTimeout bounds how long disposing a native session waits for
// the shell to exit before killing it.
const DefaultExitTimeout = 10 * time.Minute

const (
	// BackendNative runs the user's shell in a pseudo-terminal.
	BackendNative Backend = "native"
	// BackendVirtual interprets lines with the embedded shell.
	BackendVirtual Backend = "virtual"
)

type (
	// Backend selects the session implementation.
	Backend string

	// Options configures every session created by a Registry.
	Options struct {
		Backend Backend
		// Shell overrides $SHELL for native sessions.
		Shell string
		// Dir is the working directory; empty means the current directory.
		Dir string
		// Env is the session environment; nil means os.Environ().
		Env    []string
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		// ForwardInput copies Stdin into native sessions as keyboard input.
		// Leave it off while something else reads Stdin, such as a prompt.
		ForwardInput bool
		// ExitTimeout bounds the wait for a native shell on Dispose; the
		// shell is killed once it elapses. Zero means DefaultExitTimeout.
		ExitTimeout time.Duration
		// Banner renders the header printed the first time a session is shown.
		Banner func(name string) string
		Logger *log.Logger
	}

	// session is the registry's view of a terminal implementation.
	session interface {
		dispatch.Terminal
		setOnDispose(fn func())
	}

	// Registry is the list of live sessions, in creation order.
	Registry struct {
		opts Options

		mu       sync.Mutex
		sessions []session
	}
)

// NewRegistry creates an empty Registry.
func NewRegistry(opts Options) *Registry {
	if opts.Backend == "" {
		opts.Backend = BackendNative
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Env == nil {
		opts.Env = os.Environ()
	}
	if opts.Banner == nil {
		opts.Banner = func(name string) string { return "── " + name + " ──" }
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.ExitTimeout <= 0 {
		opts.ExitTimeout = DefaultExitTimeout
	}
	return &Registry{opts: opts}
}

// Find returns the first live session with the given name.
func (r *Registry) Find(name string) (dispatch.Terminal, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// Create starts a new session and adds it to the registry. Sessions with the
// same name may coexist; Find returns the oldest.
func (r *Registry) Create(name string) (dispatch.Terminal, error) {
	var (
		s   session
		err error
	)
	switch r.opts.Backend {
	case BackendNative:
		s, err = startNative(name, r.opts)
	case BackendVirtual:
		s, err = newVirtual(name, r.opts)
	default:
		return nil, fmt.Errorf("unknown terminal backend %q", r.opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	s.setOnDispose(func() { r.remove(s) })

	r.mu.Lock()
	r.sessions = append(r.sessions, s)
	r.mu.Unlock()

	r.opts.Logger.Debug("terminal session started", "name", name, "backend", r.opts.Backend)
	return s, nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) remove(s session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = slices.DeleteFunc(r.sessions, func(other session) bool { return other == s })
}

// DisposeAll disposes every session. It is called at host shutdown.
func (r *Registry) DisposeAll() error {
	r.mu.Lock()
	sessions := slices.Clone(r.sessions)
	r.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if err := s.Dispose(); err != nil {
			errs = append(errs, fmt.Errorf("dispose %q: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

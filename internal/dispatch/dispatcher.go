// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/lunescripts/lunescripts/internal/issue"

	"github.com/charmbracelet/log"
)

const (
	// MsgUnresolvedScript is shown when no script path can be determined.
	MsgUnresolvedScript = "Could not determine script path to run."
	// MsgInterpreterMissing is shown when the interpreter is not on PATH.
	MsgInterpreterMissing = "Lune is not installed or is not available in your PATH. Please install Lune to run scripts."

	// LanguageLua and LanguageLuau are the editor language identifiers
	// accepted for the active-document fallback.
	LanguageLua  = "lua"
	LanguageLuau = "luau"
)

var (
	// ErrUnresolvedScript is returned when the invocation names no script.
	ErrUnresolvedScript = errors.New("script path could not be determined")
	// ErrInterpreterMissing is returned when the interpreter probe fails.
	ErrInterpreterMissing = errors.New("interpreter not found on PATH")
	// ErrNoTerminal is returned when the script terminal cannot be started.
	ErrNoTerminal = errors.New("script terminal unavailable")
)

type (
	// Document is the document shown in the active editor.
	Document struct {
		Path       string
		LanguageID string
	}

	// ActiveEditor exposes the focused document, if any.
	ActiveEditor interface {
		ActiveDocument() (Document, bool)
	}

	// Notifier surfaces error notices to the user.
	Notifier interface {
		Error(msg string)
	}

	// Terminal is a named shell session owned by the host.
	Terminal interface {
		Name() string
		// Exited reports whether the session's process has ended.
		Exited() bool
		// Show brings the session to the foreground.
		Show() error
		// SendText writes one line of input to the session.
		SendText(text string) error
		Dispose() error
	}

	// TerminalHost is the host's list of live terminal sessions.
	TerminalHost interface {
		// Find returns the first session with the given name.
		Find(name string) (Terminal, bool)
		Create(name string) (Terminal, error)
	}

	// Option configures a Dispatcher.
	Option func(*Dispatcher)

	// Dispatcher runs scripts in a single reusable terminal session.
	Dispatcher struct {
		interpreter  string
		terminalName string
		terminals    TerminalHost
		prober       Prober
		editor       ActiveEditor
		notifier     Notifier
		logger       *log.Logger

		mu       sync.Mutex
		terminal Terminal
	}

	noEditor   struct{}
	noNotifier struct{}
)

func (noEditor) ActiveDocument() (Document, bool) { return Document{}, false }
func (noNotifier) Error(string)                   {}

// WithInterpreter sets the interpreter executable. Default "lune".
func WithInterpreter(name string) Option {
	return func(d *Dispatcher) {
		if name != "" {
			d.interpreter = name
		}
	}
}

// WithTerminalName sets the session label. Default "Lune Script Runner".
func WithTerminalName(name string) Option {
	return func(d *Dispatcher) {
		if name != "" {
			d.terminalName = name
		}
	}
}

// WithProber replaces the PATH lookup.
func WithProber(p Prober) Option {
	return func(d *Dispatcher) {
		if p != nil {
			d.prober = p
		}
	}
}

// WithActiveEditor sets the active-document fallback.
func WithActiveEditor(e ActiveEditor) Option {
	return func(d *Dispatcher) {
		if e != nil {
			d.editor = e
		}
	}
}

// WithNotifier sets the error notice sink.
func WithNotifier(n Notifier) Option {
	return func(d *Dispatcher) {
		if n != nil {
			d.notifier = n
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher creates a Dispatcher that opens sessions through terminals.
func NewDispatcher(terminals TerminalHost, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		interpreter:  "lune",
		terminalName: "Lune Script Runner",
		terminals:    terminals,
		prober:       &CommandProber{},
		editor:       noEditor{},
		notifier:     noNotifier{},
		logger:       log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FormatCommand builds the line sent to the terminal.
func FormatCommand(interpreter, path string) string {
	return interpreter + ` run "` + path + `"`
}

// Run resolves the script named by inv and runs it in the script terminal.
func (d *Dispatcher) Run(ctx context.Context, inv Invocation) error {
	path, ok := d.resolvePath(inv)
	if !ok {
		d.notifier.Error(MsgUnresolvedScript)
		return ErrUnresolvedScript
	}
	d.logger.Debug("resolved script", "path", path, "invocation", invocationName(inv))

	if !d.prober.Available(ctx, d.interpreter) {
		d.notifier.Error(MsgInterpreterMissing)
		return ErrInterpreterMissing
	}

	term, err := d.acquireTerminal()
	if err != nil {
		return err
	}

	if err := term.Show(); err != nil {
		return issue.NewErrorContext().
			WithOperation("show script terminal").
			WithResource(term.Name()).
			Wrap(err).
			BuildError()
	}

	line := FormatCommand(d.interpreter, path)
	d.logger.Debug("sending command", "terminal", term.Name(), "line", line)
	if err := term.SendText(line); err != nil {
		return issue.NewErrorContext().
			WithOperation("send command to script terminal").
			WithResource(term.Name()).
			Wrap(err).
			BuildError()
	}
	return nil
}

// resolvePath picks the script path for inv. An empty path in any variant
// falls back to the active editor, which only counts for Lua/Luau documents.
func (d *Dispatcher) resolvePath(inv Invocation) (string, bool) {
	var path string
	switch v := inv.(type) {
	case ResourceInvocation:
		path = v.Path
	case NodeInvocation:
		if v.Node != nil {
			path = v.Node.Path
		}
	case ResourceBearerInvocation:
		path = v.ResourcePath
	case ContextInvocation, nil:
	}
	if path != "" {
		return path, true
	}

	doc, ok := d.editor.ActiveDocument()
	if !ok || doc.Path == "" || !IsScriptLanguage(doc.LanguageID) {
		return "", false
	}
	return doc.Path, true
}

// IsScriptLanguage reports whether an editor language identifier denotes Lua or Luau.
func IsScriptLanguage(id string) bool {
	return id == LanguageLua || id == LanguageLuau
}

func invocationName(inv Invocation) string {
	switch inv.(type) {
	case ResourceInvocation:
		return "resource"
	case NodeInvocation:
		return "node"
	case ResourceBearerInvocation:
		return "resource-bearer"
	default:
		return "context"
	}
}

// acquireTerminal reuses the live session with the configured name or
// creates one, and records it as the dispatcher's current terminal.
func (d *Dispatcher) acquireTerminal() (Terminal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, ok := d.terminals.Find(d.terminalName); ok && !existing.Exited() {
		d.terminal = existing
		return existing, nil
	}

	created, err := d.terminals.Create(d.terminalName)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("start script terminal").
			WithResource(d.terminalName).
			WithSuggestion("Try the built-in shell with --terminal virtual").
			Wrap(fmt.Errorf("%w: %w", ErrNoTerminal, err)).
			BuildError()
	}
	d.logger.Debug("created terminal", "name", d.terminalName)
	d.terminal = created
	return created, nil
}

// Close disposes the current terminal, if any, and forgets it.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	term := d.terminal
	d.terminal = nil
	d.mu.Unlock()

	if term == nil {
		return nil
	}
	return term.Dispose()
}

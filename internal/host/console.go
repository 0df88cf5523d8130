// SPDX-License-Identifier: MPL-2.0

package host

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	infoPrefixStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	errorPrefixStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#EF4444"))
)

// Notice is a message surfaced to the user.
type Notice struct {
	Level log.Level
	Text  string
}

// Console writes notices to the terminal: informational notices to out,
// errors to errOut. Every notice is also kept for later inspection.
type Console struct {
	out    io.Writer
	errOut io.Writer
	logger *log.Logger

	mu      sync.Mutex
	notices []Notice
}

// NewConsole creates a Console. logger may be nil.
func NewConsole(out, errOut io.Writer, logger *log.Logger) *Console {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Console{out: out, errOut: errOut, logger: logger}
}

// Info shows an informational notice.
func (c *Console) Info(msg string) {
	c.record(log.InfoLevel, msg)
	fmt.Fprintln(c.out, infoPrefixStyle.Render("ℹ")+" "+msg)
}

// Error shows an error notice.
func (c *Console) Error(msg string) {
	c.record(log.ErrorLevel, msg)
	fmt.Fprintln(c.errOut, errorPrefixStyle.Render("✗")+" "+msg)
}

// Notices returns the notices shown so far.
func (c *Console) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

func (c *Console) record(level log.Level, msg string) {
	c.mu.Lock()
	c.notices = append(c.notices, Notice{Level: level, Text: msg})
	c.mu.Unlock()
	c.logger.Debug("notice", "level", level, "text", msg)
}

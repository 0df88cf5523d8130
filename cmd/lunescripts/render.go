// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/lunescripts/lunescripts/internal/config"
	"github.com/lunescripts/lunescripts/internal/issue"
)

// formatErrorForDisplay formats an error for user display.
// ActionableErrors use their Format method, which shows the full chain in
// verbose mode.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderIssue prints the help card for id. Rendering failures fall back to
// the raw markdown.
func renderIssue(w io.Writer, id issue.Id, scheme config.ColorScheme) {
	is := issue.Get(id)
	if is == nil {
		return
	}
	rendered, err := is.Render(scheme.GlamourStyle())
	if err != nil {
		rendered = string(is.MarkdownMsg())
	}
	fmt.Fprint(w, rendered)
}

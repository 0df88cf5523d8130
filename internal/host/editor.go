// SPDX-License-Identifier: MPL-2.0

package host

import (
	"path/filepath"
	"strings"

	"github.com/lunescripts/lunescripts/internal/dispatch"
)

// Editor reports the document a caller declares as active, typically from
// an --active-file flag passed by an editor integration.
type Editor struct {
	Path string
	// LanguageID is the editor language identifier. When empty it is
	// inferred from the file extension.
	LanguageID string
}

// ActiveDocument implements dispatch.ActiveEditor.
func (e Editor) ActiveDocument() (dispatch.Document, bool) {
	if e.Path == "" {
		return dispatch.Document{}, false
	}
	path := e.Path
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	lang := e.LanguageID
	if lang == "" {
		lang = LanguageForPath(e.Path)
	}
	return dispatch.Document{Path: path, LanguageID: lang}, true
}

// LanguageForPath infers a language identifier from a file name.
func LanguageForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lua":
		return dispatch.LanguageLua
	case ".luau":
		return dispatch.LanguageLuau
	default:
		return "plaintext"
	}
}

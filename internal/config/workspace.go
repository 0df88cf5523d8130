// SPDX-License-Identifier: MPL-2.0

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// WorkspaceFileName is the per-workspace overlay file.
const WorkspaceFileName = ".lunescripts.toml"

type (
	// workspaceSettings mirrors the subset of Config a workspace may override.
	// Pointer and nil-slice fields distinguish "unset" from zero values.
	workspaceSettings struct {
		ScriptDirectories []string                   `toml:"script_directories"`
		Interpreter       *string                    `toml:"interpreter"`
		ProbeTimeout      *string                    `toml:"probe_timeout"`
		Terminal          *workspaceTerminalSettings `toml:"terminal"`
	}

	workspaceTerminalSettings struct {
		Name        *string `toml:"name"`
		Backend     *string `toml:"backend"`
		Shell       *string `toml:"shell"`
		ExitTimeout *string `toml:"exit_timeout"`
	}
)

// WorkspaceFilePath returns the overlay path for a workspace root.
func WorkspaceFilePath(root string) string {
	return filepath.Join(root, WorkspaceFileName)
}

// readWorkspaceOverlay decodes the overlay file into a Viper-compatible map.
// A missing file yields a nil map and no error.
func readWorkspaceOverlay(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace settings: %w", err)
	}

	var ws workspaceSettings
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ws); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return ws.toMap(), nil
}

func (ws *workspaceSettings) toMap() map[string]any {
	out := make(map[string]any)
	if ws.ScriptDirectories != nil {
		out["script_directories"] = ws.ScriptDirectories
	}
	if ws.Interpreter != nil {
		out["interpreter"] = *ws.Interpreter
	}
	if ws.ProbeTimeout != nil {
		out["probe_timeout"] = *ws.ProbeTimeout
	}
	if ws.Terminal != nil {
		term := make(map[string]any)
		if ws.Terminal.Name != nil {
			term["name"] = *ws.Terminal.Name
		}
		if ws.Terminal.Backend != nil {
			term["backend"] = *ws.Terminal.Backend
		}
		if ws.Terminal.Shell != nil {
			term["shell"] = *ws.Terminal.Shell
		}
		if ws.Terminal.ExitTimeout != nil {
			term["exit_timeout"] = *ws.Terminal.ExitTimeout
		}
		if len(term) > 0 {
			out["terminal"] = term
		}
	}
	return out
}

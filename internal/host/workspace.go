// SPDX-License-Identifier: MPL-2.0

package host

import (
	"fmt"
	"os"
	"path/filepath"
)

// workspaceMarkers identify a project root when walking up from a directory.
var workspaceMarkers = []string{
	".lunescripts.toml",
	".git",
	".luaurc",
	".vscode",
	"rokit.toml",
	"aftman.toml",
	"foreman.toml",
}

// DetectWorkspace returns the workspace root. An explicit path wins and must
// be an existing directory. Otherwise the nearest ancestor of start (start
// included) holding a workspace marker is returned, or "" when there is none.
func DetectWorkspace(explicit, start string) (string, error) {
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return "", fmt.Errorf("resolve workspace %q: %w", explicit, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("workspace %q: %w", explicit, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("workspace %q is not a directory", explicit)
		}
		return abs, nil
	}

	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", start, err)
	}
	for {
		for _, marker := range workspaceMarkers {
			if _, err := os.Lstat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

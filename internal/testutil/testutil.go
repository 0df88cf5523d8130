// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ScriptBody is the content written by WriteScripts.
const ScriptBody = "print('hi')\n"

// MustMkdirAll creates a directory along with any necessary parents.
// The test fails immediately if the operation fails.
func MustMkdirAll(t testing.TB, path string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(path, perm); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// MustWriteFile writes content to path, creating parent directories.
// The test fails immediately if the operation fails.
func MustWriteFile(t testing.TB, path, content string) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path), 0o755)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// WriteScripts creates each slash-separated relative path under root with a
// one-line script body.
func WriteScripts(t testing.TB, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		MustWriteFile(t, filepath.Join(root, filepath.FromSlash(f)), ScriptBody)
	}
}

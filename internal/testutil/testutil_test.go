// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestWriteScripts_CreatesParents(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	WriteScripts(t, root, "lune/a.lua", "lune/nested/b.luau")

	for _, rel := range []string{"lune/a.lua", "lune/nested/b.luau"} {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatalf("ReadFile(%s) error: %v", rel, err)
		}
		if string(data) != ScriptBody {
			t.Errorf("%s = %q, want %q", rel, data, ScriptBody)
		}
	}
}

func TestSyncBuffer_ConcurrentWrites(t *testing.T) {
	t.Parallel()

	var (
		buf SyncBuffer
		wg  sync.WaitGroup
	)
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fmt.Fprintf(&buf, "line %d\n", i)
		}()
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 8 {
		t.Errorf("buffer has %d lines, want 8", got)
	}
}

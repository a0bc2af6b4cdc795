// Package testutil provides shared test helpers for setting up score
// libraries.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/calloway/segno/internal/storage"
)

// Ext is the file extension used by test libraries.
const Ext = ".gen"

// TestLibrary creates a temporary library directory populated with the
// given files (relative slash path → content) and returns its path and
// a storage.Provider over it.
func TestLibrary(t *testing.T, files map[string]string) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		WriteFile(t, dir, rel, content)
	}
	store, err := storage.NewFS(dir, Ext)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// WriteFile writes content to rel under dir, creating parent directories.
func WriteFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	abs := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// ScoreDoc builds a score document from a notation body and metadata
// lines, in the canonical body + trailing block layout.
func ScoreDoc(notation string, metaLines ...string) string {
	doc := notation + "\n---\n"
	for _, l := range metaLines {
		doc += l + "\n"
	}
	return doc + "---\n"
}

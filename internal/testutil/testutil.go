// Package testutil provides shared test helpers for setting up vaults and
// storage engines.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/halvard/munin/internal/store"
	"github.com/halvard/munin/internal/vault"
)

// ArchiveFolder is the archive folder name used by test engines.
const ArchiveFolder = "Archive"

// SQLiteEngine creates a temporary SQLite-backed engine that is cleaned up
// with the test.
func SQLiteEngine(t *testing.T) store.Engine {
	t.Helper()
	dbFile, err := os.CreateTemp("", "munin-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	engine, err := store.OpenSQLite(dbFile.Name(), ArchiveFolder)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { engine.Close() })
	if err := engine.Initialize(); err != nil {
		t.Fatal(err)
	}
	return engine
}

// MemoryEngine creates an in-memory engine.
func MemoryEngine(t *testing.T) store.Engine {
	t.Helper()
	engine := store.NewMemory(ArchiveFolder)
	if err := engine.Initialize(); err != nil {
		t.Fatal(err)
	}
	return engine
}

// BothEngines runs fn once per backend, so contract tests cover the
// structural-filter parity requirement.
func BothEngines(t *testing.T, fn func(t *testing.T, engine store.Engine)) {
	t.Run("sqlite", func(t *testing.T) {
		fn(t, SQLiteEngine(t))
	})
	t.Run("memory", func(t *testing.T) {
		fn(t, MemoryEngine(t))
	})
}

// TestVault creates a temporary vault directory populated with the given
// files (vault-relative path to content) and returns its FS.
func TestVault(t *testing.T, files map[string]string) *vault.FS {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		abs := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	fs, err := vault.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return fs
}

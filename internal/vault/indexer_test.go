package vault_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/halvard/munin/internal/apperr"
	"github.com/halvard/munin/internal/testutil"
	"github.com/halvard/munin/internal/vault"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestFSRejectsEscapes(t *testing.T) {
	fs := testutil.TestVault(t, map[string]string{"a.md": "hello"})

	for _, rel := range []string{"../outside.md", "sub/../../outside.md", "/etc/passwd"} {
		if _, err := fs.Read(rel); !errors.Is(err, apperr.ErrPathOutsideVault) {
			t.Errorf("Read(%q) err = %v, want ErrPathOutsideVault", rel, err)
		}
	}

	if _, err := fs.Read("a.md"); err != nil {
		t.Errorf("Read(a.md): %v", err)
	}
}

func TestIndexerFullPass(t *testing.T) {
	fs := testutil.TestVault(t, map[string]string{
		"Work/plan.md":           "---\ntitle: Quarterly Plan\ntags: [work]\n---\nThe plan body.",
		"untitled.md":            "no frontmatter, no heading",
		"notes.txt":              "not markdown",
		".obsidian/workspace.md": "editor state",
	})
	engine := testutil.MemoryEngine(t)

	ix := vault.NewIndexer(fs, engine, vault.IndexerConfig{
		Exclude: []string{".obsidian/**"},
	}, testLogger())

	docs, failures, err := ix.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("failures = %v", failures)
	}
	if len(docs) != 2 {
		t.Fatalf("indexed %d documents, want 2", len(docs))
	}

	plan, err := engine.Get("Work/plan.md")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if plan.Title != "Quarterly Plan" {
		t.Errorf("title = %q", plan.Title)
	}
	if len(plan.Meta.Tags) != 1 || plan.Meta.Tags[0] != "work" {
		t.Errorf("tags = %v", plan.Meta.Tags)
	}

	// No title in frontmatter or heading: the filename stem stands in.
	untitled, err := engine.Get("untitled.md")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if untitled.Title != "untitled" {
		t.Errorf("title = %q, want filename stem", untitled.Title)
	}

	if _, err := engine.Get("notes.txt"); !errors.Is(err, apperr.ErrNotFound) {
		t.Error("non-markdown file was indexed")
	}
	if _, err := engine.Get(".obsidian/workspace.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Error("excluded file was indexed")
	}
}

func TestIndexerOversizeFileIsRecordedNotFatal(t *testing.T) {
	fs := testutil.TestVault(t, map[string]string{
		"small.md": "fine",
		"big.md":   strings.Repeat("x", 512),
	})
	engine := testutil.MemoryEngine(t)

	ix := vault.NewIndexer(fs, engine, vault.IndexerConfig{MaxFileSize: 100}, testLogger())

	docs, failures, err := ix.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(docs) != 1 || docs[0].Path != "small.md" {
		t.Errorf("docs = %v", docs)
	}
	if len(failures) != 1 || failures[0].Path != "big.md" {
		t.Fatalf("failures = %v, want exactly big.md", failures)
	}
	if _, err := engine.Get("big.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Error("oversize file reached the store")
	}
}

func TestIndexerRerunIsIdempotent(t *testing.T) {
	fs := testutil.TestVault(t, map[string]string{"a.md": "body"})
	engine := testutil.MemoryEngine(t)
	ix := vault.NewIndexer(fs, engine, vault.IndexerConfig{}, testLogger())

	for i := 0; i < 2; i++ {
		if _, _, err := ix.Run(context.Background()); err != nil {
			t.Fatalf("Run #%d: %v", i+1, err)
		}
	}
	all, err := engine.GetAll()
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("GetAll len = %d after rerun, want 1", len(all))
	}
}

func TestIndexerCancelledContext(t *testing.T) {
	fs := testutil.TestVault(t, map[string]string{"a.md": "body"})
	engine := testutil.MemoryEngine(t)
	ix := vault.NewIndexer(fs, engine, vault.IndexerConfig{}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := ix.Run(ctx); err == nil {
		t.Error("expected error from cancelled context")
	}
}

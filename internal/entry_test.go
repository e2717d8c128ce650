package internal

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunRequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Error("expected error when no config is given")
	}
}

func TestRunOneShotWithInjectedLogger(t *testing.T) {
	vaultDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(vaultDir, "note.md"), []byte("# Hello\nBody."), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	cfg.Vault.Path = vaultDir
	cfg.Storage.Backend = "memory"
	cfg.App.HTTP.Enabled = false

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	// Neither HTTP nor MCP enabled: index once and return.
	if err := Run(context.Background(), WithConfig(cfg), WithLogger(logger)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(buf.String(), "vault indexed") {
		t.Errorf("log output missing index report: %s", buf.String())
	}
}

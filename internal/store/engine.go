// Package store provides the storage/query abstraction: one Engine
// contract with two conforming backends, a persistent SQLite store with
// full-text search and an in-memory fuzzy-match store. Both apply
// identical structural filter semantics; only text relevance differs.
package store

import (
	"fmt"

	"github.com/halvard/munin/internal/models"
)

// Backend names accepted by New.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Engine is the storage contract shared by both backends. Get returns
// apperr.ErrNotFound for an absent path. Search applies structural filters
// conjunctively on top of the backend's own text relevance and truncates to
// the query limit. UpsertBatch is end-state equivalent to sequential
// Upsert calls.
type Engine interface {
	Initialize() error
	Upsert(doc models.Document) error
	UpsertBatch(docs []models.Document) error
	Get(path string) (*models.Document, error)
	GetAll() ([]models.Document, error)
	Search(q models.Query) ([]models.Document, error)
	GetByTag(tag string) ([]models.Document, error)
	GetRecent(limit int) ([]models.Document, error)
	Clear() error
	Close() error
}

// Verify both backends satisfy Engine at compile time.
var (
	_ Engine = (*SQLiteStore)(nil)
	_ Engine = (*MemoryStore)(nil)
)

// Options configures engine construction.
type Options struct {
	// Backend selects the implementation: BackendSQLite or BackendMemory.
	Backend string
	// SQLitePath is the database file path (sqlite backend only).
	SQLitePath string
	// ArchiveFolder is the vault folder whose documents are excluded from
	// results unless a query opts in.
	ArchiveFolder string
}

// New selects and constructs a storage engine. An unknown backend or an
// unopenable database is a fatal startup error.
func New(opts Options) (Engine, error) {
	switch opts.Backend {
	case BackendSQLite:
		return OpenSQLite(opts.SQLitePath, opts.ArchiveFolder)
	case BackendMemory:
		return NewMemory(opts.ArchiveFolder), nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q", opts.Backend)
	}
}

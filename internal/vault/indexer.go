package vault

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/halvard/munin/internal/apperr"
	"github.com/halvard/munin/internal/models"
	"github.com/halvard/munin/internal/parser"
	"github.com/halvard/munin/internal/store"
)

// Indexer performs one full pass over the vault: candidate selection by
// inclusion/exclusion globs, size checks, parsing, and a single batch
// upsert into the storage engine. Per-file failures are collected, never
// fatal.
type Indexer struct {
	fs          *FS
	engine      store.Engine
	include     []string
	exclude     []string
	maxFileSize int64
	workers     int64
	logger      *slog.Logger
}

// IndexerConfig configures an indexing pass.
type IndexerConfig struct {
	// Include lists glob patterns for candidate files. Empty means
	// "**/*.md".
	Include []string
	// Exclude lists glob patterns removed from the candidate set.
	Exclude []string
	// MaxFileSize in bytes; larger files are recorded as errors and never
	// materialized. Zero means no limit.
	MaxFileSize int64
	// Workers bounds the concurrent file reads. Zero picks a default.
	Workers int
}

// NewIndexer creates an indexer over fs writing into engine.
func NewIndexer(fs *FS, engine store.Engine, cfg IndexerConfig, logger *slog.Logger) *Indexer {
	include := cfg.Include
	if len(include) == 0 {
		include = []string{"**/*.md"}
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = min(8, runtime.NumCPU())
	}
	return &Indexer{
		fs:          fs,
		engine:      engine,
		include:     include,
		exclude:     cfg.Exclude,
		maxFileSize: cfg.MaxFileSize,
		workers:     int64(workers),
		logger:      logger,
	}
}

// Run executes one indexing pass and returns the documents that made it
// into the engine plus the per-file failures. Only listing the vault or
// writing the batch can fail the pass as a whole.
func (ix *Indexer) Run(ctx context.Context) ([]models.Document, []apperr.IndexError, error) {
	entries, err := ix.fs.ListAll()
	if err != nil {
		return nil, nil, err
	}

	var candidates []FileEntry
	for _, entry := range entries {
		if !matchAny(ix.include, entry.Path) {
			continue
		}
		if matchAny(ix.exclude, entry.Path) {
			continue
		}
		candidates = append(candidates, entry)
	}

	var (
		mu       sync.Mutex
		docs     []models.Document
		failures []apperr.IndexError
	)
	record := func(doc *models.Document, fail *apperr.IndexError) {
		mu.Lock()
		defer mu.Unlock()
		if doc != nil {
			docs = append(docs, *doc)
		}
		if fail != nil {
			failures = append(failures, *fail)
		}
	}

	sem := semaphore.NewWeighted(ix.workers)
	for _, entry := range candidates {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, nil, fmt.Errorf("vault: index pass interrupted: %w", err)
		}
		go func(entry FileEntry) {
			defer sem.Release(1)
			doc, fail := ix.indexFile(entry)
			record(doc, fail)
		}(entry)
	}
	if err := sem.Acquire(ctx, ix.workers); err != nil {
		return nil, nil, fmt.Errorf("vault: index pass interrupted: %w", err)
	}

	if err := ix.engine.UpsertBatch(docs); err != nil {
		return nil, nil, fmt.Errorf("vault: store batch: %w", err)
	}

	ix.logger.Info("index pass complete",
		slog.Int("documents", len(docs)),
		slog.Int("errors", len(failures)))
	return docs, failures, nil
}

// indexFile turns one candidate file into a document, or into a recorded
// failure.
func (ix *Indexer) indexFile(entry FileEntry) (*models.Document, *apperr.IndexError) {
	if ix.maxFileSize > 0 && entry.Size > ix.maxFileSize {
		ix.logger.Warn("file exceeds size limit",
			slog.String("path", entry.Path), slog.Int64("size", entry.Size))
		return nil, &apperr.IndexError{
			Path:   entry.Path,
			Reason: fmt.Sprintf("exceeds max file size (%d > %d bytes)", entry.Size, ix.maxFileSize),
		}
	}

	data, err := ix.fs.Read(entry.Path)
	if err != nil {
		ix.logger.Warn("read failed",
			slog.String("path", entry.Path), slog.String("error", err.Error()))
		return nil, &apperr.IndexError{Path: entry.Path, Reason: "unreadable: " + err.Error()}
	}

	res, err := parser.Parse(data)
	if err != nil {
		ix.logger.Warn("parse failed",
			slog.String("path", entry.Path), slog.String("error", err.Error()))
		return nil, &apperr.IndexError{Path: entry.Path, Reason: "unparsable: " + err.Error()}
	}

	title := res.Title
	if title == "" {
		title = strings.TrimSuffix(path.Base(entry.Path), path.Ext(entry.Path))
	}

	ix.logger.Debug("indexed", slog.String("path", entry.Path))
	return &models.Document{
		Path:    entry.Path,
		Title:   title,
		Body:    res.Body,
		Excerpt: parser.Excerpt(res.Body),
		Meta:    res.Meta,
	}, nil
}

// Package service exposes the core call surface consumed by the protocol
// layers: search, lookups, tag listing, and vault summaries. It validates
// queries and returns plain document collections; wire encoding is the
// caller's problem.
package service

import (
	"sort"
	"strings"

	"github.com/halvard/munin/internal/models"
	"github.com/halvard/munin/internal/store"
)

// summaryScanLimit is the result cap used when a summary needs the whole
// filtered set rather than a page.
const summaryScanLimit = 1 << 20

// recentSubsetSize is how many most-recent documents a summary includes.
const recentSubsetSize = 5

// Service answers queries against whichever storage engine is active.
type Service struct {
	engine store.Engine
}

// New creates a Service over engine.
func New(engine store.Engine) *Service {
	return &Service{engine: engine}
}

// Search validates q and delegates to the engine.
func (s *Service) Search(q models.Query) ([]models.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return s.engine.Search(q)
}

// GetByPath returns the document stored at path.
func (s *Service) GetByPath(path string) (*models.Document, error) {
	return s.engine.Get(path)
}

// GetByTag returns documents matching tag hierarchically, newest first.
func (s *Service) GetByTag(tag string) ([]models.Document, error) {
	return s.engine.GetByTag(tag)
}

// GetRecent returns up to limit documents, newest first.
func (s *Service) GetRecent(limit int) ([]models.Document, error) {
	return s.engine.GetRecent(limit)
}

// ListTags returns every distinct tag in the vault, sorted. Case is
// deduplicated case-insensitively with the first-seen spelling kept.
func (s *Service) ListTags() ([]string, error) {
	docs, err := s.engine.GetAll()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]string)
	for _, doc := range docs {
		for _, tag := range doc.Meta.Tags {
			key := strings.ToLower(tag)
			if _, ok := seen[key]; !ok {
				seen[key] = tag
			}
		}
	}
	out := make([]string, 0, len(seen))
	for _, tag := range seen {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out, nil
}

// Summarize returns counts grouped by type, status, and category over the
// filtered document set, plus the most recently modified subset. The
// query's free text and limit are ignored; its structural filters apply.
func (s *Service) Summarize(q models.Query) (*models.Summary, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	scan := q
	scan.Text = ""
	scan.Limit = summaryScanLimit

	docs, err := s.engine.Search(scan)
	if err != nil {
		return nil, err
	}

	summary := &models.Summary{
		Total:      len(docs),
		ByType:     make(map[string]int),
		ByStatus:   make(map[string]int),
		ByCategory: make(map[string]int),
	}
	for _, doc := range docs {
		summary.ByType[doc.Meta.Type]++
		summary.ByStatus[doc.Meta.Status]++
		summary.ByCategory[doc.Meta.Category]++
	}

	// Search orders by recency when no text is given, so the head of the
	// result is the recent subset.
	recent := docs
	if len(recent) > recentSubsetSize {
		recent = recent[:recentSubsetSize]
	}
	summary.Recent = recent

	return summary, nil
}

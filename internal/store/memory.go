package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/halvard/munin/internal/apperr"
	"github.com/halvard/munin/internal/models"
	"github.com/halvard/munin/internal/tagmatch"
)

// fuzzyBodyCap bounds how much body text feeds the fuzzy index per
// document. Matching against whole bodies would make every query scale
// with vault size in bytes rather than document count.
const fuzzyBodyCap = 2048

// Fuzzy index fields and their match weights. Title hits count most,
// body hits least.
const (
	fieldTitle = iota
	fieldTags
	fieldScalars
	fieldBody
	numFields
)

var fieldWeights = [numFields]float64{
	fieldTitle:   3.0,
	fieldTags:    2.0,
	fieldScalars: 1.5,
	fieldBody:    1.0,
}

// indexEntry holds one document's pre-lowered field texts.
type indexEntry struct {
	path   string
	fields [numFields]string
}

// MemoryStore is the in-memory backend: a document map keyed by path plus
// a fuzzy-match index rebuilt whenever the document set changes. The index
// is private state of the instance, never shared.
type MemoryStore struct {
	mu            sync.RWMutex
	archiveFolder string
	docs          map[string]models.Document
	entries       []indexEntry
}

// NewMemory creates an empty in-memory store.
func NewMemory(archiveFolder string) *MemoryStore {
	return &MemoryStore{
		archiveFolder: archiveFolder,
		docs:          make(map[string]models.Document),
	}
}

// Initialize resets the store. Idempotent.
func (m *MemoryStore) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = make(map[string]models.Document)
	m.entries = nil
	return nil
}

// Upsert replaces the document at doc.Path and rebuilds the fuzzy index.
func (m *MemoryStore) Upsert(doc models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.Path] = doc
	m.rebuild()
	return nil
}

// UpsertBatch replaces all given documents with exactly one index rebuild.
func (m *MemoryStore) UpsertBatch(docs []models.Document) error {
	if len(docs) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range docs {
		m.docs[doc.Path] = doc
	}
	m.rebuild()
	return nil
}

// rebuild recomputes the fuzzy index from the document map. Callers must
// hold the write lock.
func (m *MemoryStore) rebuild() {
	entries := make([]indexEntry, 0, len(m.docs))
	for path, doc := range m.docs {
		body := doc.Body
		if len(body) > fuzzyBodyCap {
			body = body[:fuzzyBodyCap]
		}
		entries = append(entries, indexEntry{
			path: path,
			fields: [numFields]string{
				fieldTitle:   strings.ToLower(doc.Title),
				fieldTags:    strings.ToLower(strings.Join(doc.Meta.Tags, " ")),
				fieldScalars: strings.ToLower(doc.Meta.Type + " " + doc.Meta.Status + " " + doc.Meta.Category),
				fieldBody:    strings.ToLower(body),
			},
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].path < entries[j].path })
	m.entries = entries
}

// fieldSource adapts one field column of the index to fuzzy.Source.
type fieldSource struct {
	entries []indexEntry
	field   int
}

func (s fieldSource) String(i int) string { return s.entries[i].fields[s.field] }
func (s fieldSource) Len() int            { return len(s.entries) }

// Get returns the document at path, or apperr.ErrNotFound.
func (m *MemoryStore) Get(path string) (*models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[path]
	if !ok {
		return nil, fmt.Errorf("store: %s: %w", path, apperr.ErrNotFound)
	}
	return &doc, nil
}

// GetAll returns every stored document with no ordering guarantee.
func (m *MemoryStore) GetAll() ([]models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Document, 0, len(m.docs))
	for _, doc := range m.docs {
		out = append(out, doc)
	}
	return out, nil
}

// Search runs the fuzzy match (or takes the full set when no text is
// given), applies the structural predicates, sorts by recency, and
// truncates to the query limit.
func (m *MemoryStore) Search(q models.Query) ([]models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var candidates []models.Document
	if strings.TrimSpace(q.Text) == "" {
		candidates = make([]models.Document, 0, len(m.docs))
		for _, doc := range m.docs {
			candidates = append(candidates, doc)
		}
	} else {
		for path := range m.fuzzyMatch(q.Text) {
			candidates = append(candidates, m.docs[path])
		}
	}

	var out []models.Document
	for _, doc := range candidates {
		if matchStructural(doc, q, m.archiveFolder) {
			out = append(out, doc)
		}
	}

	sortByRecency(out)
	if limit := q.EffectiveLimit(); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fuzzyMatch returns the paths matched by text in any weighted field,
// with their summed scores.
func (m *MemoryStore) fuzzyMatch(text string) map[string]float64 {
	pattern := strings.ToLower(strings.TrimSpace(text))
	scores := make(map[string]float64)
	for field := 0; field < numFields; field++ {
		matches := fuzzy.FindFrom(pattern, fieldSource{entries: m.entries, field: field})
		for _, match := range matches {
			scores[m.entries[match.Index].path] += fieldWeights[field] * float64(match.Score)
		}
	}
	return scores
}

// GetByTag returns documents carrying the tag or any descendant of it,
// ordered by recency.
func (m *MemoryStore) GetByTag(tag string) ([]models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Document
	for _, doc := range m.docs {
		if tagmatch.MatchesAny(doc.Meta.Tags, []string{tag}) {
			out = append(out, doc)
		}
	}
	sortByRecency(out)
	return out, nil
}

// GetRecent returns up to limit documents ordered by recency.
func (m *MemoryStore) GetRecent(limit int) ([]models.Document, error) {
	if limit <= 0 {
		limit = models.DefaultLimit
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Document, 0, len(m.docs))
	for _, doc := range m.docs {
		out = append(out, doc)
	}
	sortByRecency(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Clear wipes all records and the index.
func (m *MemoryStore) Clear() error {
	return m.Initialize()
}

// Close releases nothing; the store lives and dies with the process.
func (m *MemoryStore) Close() error {
	return nil
}

// sortByRecency orders newest first, with path as a deterministic
// tie-break.
func sortByRecency(docs []models.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		ri, rj := docs[i].Recency(), docs[j].Recency()
		if ri != rj {
			return ri > rj
		}
		return docs[i].Path < docs[j].Path
	})
}

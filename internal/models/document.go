// Package models defines the domain types for Munin.
package models

// Document type values.
const (
	TypeNote    = "note"
	TypeProject = "project"
	TypeTask    = "task"
	TypeDaily   = "daily"
	TypeMeeting = "meeting"
)

// Document status values.
const (
	StatusActive    = "active"
	StatusArchived  = "archived"
	StatusIdea      = "idea"
	StatusCompleted = "completed"
)

// Document category values.
const (
	CategoryWork      = "work"
	CategoryPersonal  = "personal"
	CategoryKnowledge = "knowledge"
	CategoryLife      = "life"
	CategoryDailies   = "dailies"
)

// Defaults applied when a frontmatter field is missing or carries an
// unrecognized value. Documents are never rejected over bad metadata.
const (
	DefaultType     = TypeNote
	DefaultStatus   = StatusActive
	DefaultCategory = CategoryPersonal
)

var (
	validTypes = map[string]struct{}{
		TypeNote: {}, TypeProject: {}, TypeTask: {}, TypeDaily: {}, TypeMeeting: {},
	}
	validStatuses = map[string]struct{}{
		StatusActive: {}, StatusArchived: {}, StatusIdea: {}, StatusCompleted: {},
	}
	validCategories = map[string]struct{}{
		CategoryWork: {}, CategoryPersonal: {}, CategoryKnowledge: {}, CategoryLife: {}, CategoryDailies: {},
	}
)

// NormalizeType returns s when it is a recognized document type, DefaultType otherwise.
func NormalizeType(s string) string {
	if _, ok := validTypes[s]; ok {
		return s
	}
	return DefaultType
}

// NormalizeStatus returns s when it is a recognized status, DefaultStatus otherwise.
func NormalizeStatus(s string) string {
	if _, ok := validStatuses[s]; ok {
		return s
	}
	return DefaultStatus
}

// NormalizeCategory returns s when it is a recognized category, DefaultCategory otherwise.
func NormalizeCategory(s string) string {
	if _, ok := validCategories[s]; ok {
		return s
	}
	return DefaultCategory
}

// Metadata holds the structured frontmatter of a document. Created and
// Modified are kept as date strings (YYYY-MM-DD or ISO datetime) so they
// compare lexically; Extra preserves caller-defined keys verbatim.
type Metadata struct {
	Created  string         `json:"created,omitempty"`
	Modified string         `json:"modified,omitempty"`
	Tags     []string       `json:"tags"`
	Type     string         `json:"type"`
	Status   string         `json:"status"`
	Category string         `json:"category"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// Document is the indexed unit: one vault file, parsed.
type Document struct {
	Path    string   `json:"path"`
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	Excerpt string   `json:"excerpt"`
	Meta    Metadata `json:"metadata"`
}

// Recency returns the sort key used by recency ordering: the modified date,
// falling back to the created date when modified is empty.
func (d Document) Recency() string {
	if d.Meta.Modified != "" {
		return d.Meta.Modified
	}
	return d.Meta.Created
}

// Summary aggregates the vault: counts grouped by type, status, and
// category, plus the most recently modified documents.
type Summary struct {
	Total      int            `json:"total"`
	ByType     map[string]int `json:"by_type"`
	ByStatus   map[string]int `json:"by_status"`
	ByCategory map[string]int `json:"by_category"`
	Recent     []Document     `json:"recent"`
}

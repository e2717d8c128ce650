package store

import (
	"strings"

	"github.com/halvard/munin/internal/models"
	"github.com/halvard/munin/internal/tagmatch"
)

// recursiveSuffix marks a path pattern as a recursive prefix match.
const recursiveSuffix = "**"

// MatchPath applies the path-pattern filter: a pattern ending in the
// recursive-suffix marker is a case-insensitive prefix match on everything
// before the marker; any other pattern is a case-insensitive substring
// match. Deliberately simpler than glob semantics; both backends depend on
// these exact rules.
func MatchPath(path, pattern string) bool {
	if pattern == "" {
		return true
	}
	lowerPath := strings.ToLower(path)
	if strings.HasSuffix(pattern, recursiveSuffix) {
		prefix := strings.ToLower(strings.TrimSuffix(pattern, recursiveSuffix))
		return strings.HasPrefix(lowerPath, prefix)
	}
	return strings.Contains(lowerPath, strings.ToLower(pattern))
}

// UnderArchive reports whether path falls under the archive folder,
// compared case-insensitively.
func UnderArchive(path, archiveFolder string) bool {
	if archiveFolder == "" {
		return false
	}
	prefix := strings.ToLower(archiveFolder)
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return strings.HasPrefix(strings.ToLower(path), prefix)
}

// matchStructural applies every non-text predicate of q to d. Both
// backends share these semantics: the SQLite store mirrors them in SQL,
// and the parity tests hold the two together.
func matchStructural(d models.Document, q models.Query, archiveFolder string) bool {
	if len(q.Tags) > 0 && !tagmatch.MatchesAny(d.Meta.Tags, q.Tags) {
		return false
	}
	if q.Type != "" && d.Meta.Type != q.Type {
		return false
	}
	if q.Status != "" && d.Meta.Status != q.Status {
		return false
	}
	if q.Category != "" && d.Meta.Category != q.Category {
		return false
	}
	if q.PathPattern != "" && !MatchPath(d.Path, q.PathPattern) {
		return false
	}
	if !q.IncludeArchive && UnderArchive(d.Path, archiveFolder) {
		return false
	}
	if q.DateFrom != "" && d.Meta.Modified < q.DateFrom {
		return false
	}
	if q.DateTo != "" && d.Meta.Modified > q.DateTo {
		return false
	}
	return true
}

// Package tagmatch implements hierarchical tag matching. Tags are
// /-delimited strings; a search tag matches a note tag when they are equal
// or when the note tag is a more specific descendant (searching "work"
// matches "work/puppet" but never "homework").
package tagmatch

import "strings"

// Matches reports whether noteTag satisfies searchTag. Comparison is
// case-insensitive; stored tags keep their original case.
func Matches(noteTag, searchTag string) bool {
	note := strings.ToLower(noteTag)
	search := strings.ToLower(searchTag)
	if note == search {
		return true
	}
	return strings.HasPrefix(note, search+"/")
}

// MatchesAny reports whether any of noteTags satisfies any of searchTags.
// An empty searchTags set matches nothing.
func MatchesAny(noteTags, searchTags []string) bool {
	for _, nt := range noteTags {
		for _, st := range searchTags {
			if Matches(nt, st) {
				return true
			}
		}
	}
	return false
}

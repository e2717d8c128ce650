package tagmatch

import "testing"

func TestMatches(t *testing.T) {
	cases := []struct {
		noteTag   string
		searchTag string
		want      bool
	}{
		{"work", "work", true},
		{"Work", "work", true},
		{"work", "WORK", true},
		{"work/puppet", "work", true},
		{"work/puppet/manifests", "work", true},
		{"Work/Puppet", "work", true},
		{"work", "work/puppet", false},
		{"homework", "work", false},
		{"work-notes", "work", false},
		{"personal", "work", false},
		{"", "", true},
	}
	for _, tc := range cases {
		if got := Matches(tc.noteTag, tc.searchTag); got != tc.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tc.noteTag, tc.searchTag, got, tc.want)
		}
	}
}

func TestMatchesAny(t *testing.T) {
	noteTags := []string{"work/puppet", "personal"}

	if !MatchesAny(noteTags, []string{"nope", "work"}) {
		t.Error("expected match via work ancestor")
	}
	if MatchesAny(noteTags, []string{"life", "dailies"}) {
		t.Error("unexpected match")
	}
	if MatchesAny(noteTags, nil) {
		t.Error("empty search tags must match nothing")
	}
	if MatchesAny(nil, []string{"work"}) {
		t.Error("untagged note must not match")
	}
}

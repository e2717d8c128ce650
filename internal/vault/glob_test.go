package vault

import "testing"

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"**/*.md", "note.md", true},
		{"**/*.md", "Work/sub/note.md", true},
		{"**/*.md", "Work/sub/image.png", false},
		{"*.md", "note.md", true},
		{"*.md", "Work/note.md", false},
		{"Work/*.md", "Work/note.md", true},
		{"Work/*.md", "Work/sub/note.md", false},
		{"Work/**", "Work/sub/deep/note.md", true},
		{"Work/**", "Personal/note.md", false},
		{".obsidian/**", ".obsidian/workspace.json", true},
		{"**/.trash/**", "a/.trash/b.md", true},
		{"**/.trash/**", "a/trash/b.md", false},
	}
	for _, tc := range tests {
		if got := matchGlob(tc.pattern, tc.path); got != tc.want {
			t.Errorf("matchGlob(%q, %q) = %v, want %v", tc.pattern, tc.path, got, tc.want)
		}
	}
}

func TestMatchAny(t *testing.T) {
	patterns := []string{".git/**", ".obsidian/**"}
	if !matchAny(patterns, ".git/config") {
		t.Error("expected .git/config to match exclusions")
	}
	if matchAny(patterns, "notes/a.md") {
		t.Error("notes/a.md must not match exclusions")
	}
	if matchAny(nil, "anything") {
		t.Error("empty pattern list matches nothing")
	}
}

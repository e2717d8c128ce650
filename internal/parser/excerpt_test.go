package parser

import (
	"strings"
	"testing"
)

func TestExcerpt_StripsMarkup(t *testing.T) {
	body := "# Heading\n\n" +
		"Some **bold** and _emphasis_ text.\n\n" +
		"```go\nfunc secret() {}\n```\n\n" +
		"Inline `code span` here.\n\n" +
		"![alt text](img.png)\n\n" +
		"A [link text](https://example.com) and a [[Target/Sub|alias]].\n\n" +
		"> quoted line\n\n" +
		"---\n\n" +
		"- list item\n" +
		"1. numbered item\n"

	got := Excerpt(body)

	for _, banned := range []string{"#", "*", "_", "`", "```", ">", "![", "](", "[[", "secret", "img.png", "https://example.com"} {
		if strings.Contains(got, banned) {
			t.Errorf("excerpt still contains %q: %q", banned, got)
		}
	}
	for _, want := range []string{"Heading", "bold", "emphasis", "link text", "Target/Sub", "quoted line", "list item", "numbered item"} {
		if !strings.Contains(got, want) {
			t.Errorf("excerpt missing %q: %q", want, got)
		}
	}
}

func TestExcerpt_Deterministic(t *testing.T) {
	body := strings.Repeat("# Title\nSome *styled* text with [a link](x md).\n", 200)
	first := Excerpt(body)
	for i := 0; i < 5; i++ {
		if got := Excerpt(body); got != first {
			t.Fatalf("run %d differs:\n%q\nvs\n%q", i, got, first)
		}
	}
}

func TestExcerpt_TruncatesWithEllipsis(t *testing.T) {
	body := strings.Repeat("word ", 100)
	got := Excerpt(body)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis, got %q", got)
	}
	if n := len([]rune(strings.TrimSuffix(got, "..."))); n > ExcerptLength {
		t.Errorf("excerpt body is %d runes, want <= %d", n, ExcerptLength)
	}
}

func TestExcerpt_ShortBodyUntouched(t *testing.T) {
	got := Excerpt("A short note.")
	if got != "A short note." {
		t.Errorf("got %q", got)
	}
	if strings.HasSuffix(got, "...") {
		t.Error("no ellipsis expected when nothing was truncated")
	}
}

func TestExcerpt_CollapsesWhitespace(t *testing.T) {
	got := Excerpt("first\n\n\n\nsecond   third")
	if got != "first second third" {
		t.Errorf("got %q", got)
	}
}

func TestExcerpt_InvalidByteDoesNotEatBody(t *testing.T) {
	// A stray invalid byte early in an oversized body must not shrink the
	// excerpt; only a rune split at the truncation point gets repaired.
	body := "start \xff " + strings.Repeat("word ", 1000)
	got := Excerpt(body)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected a full-length truncated excerpt, got %q", got)
	}
	if n := len([]rune(got)); n < ExcerptLength {
		t.Errorf("excerpt is %d runes, want at least %d", n, ExcerptLength)
	}
}

func TestExcerpt_SplitRuneAtCapRepaired(t *testing.T) {
	// é is two bytes; the leading ASCII byte makes the cap land mid-rune,
	// and only the partial rune gets trimmed.
	body := "a" + strings.Repeat("é", inputCap)
	got := Excerpt(body)
	if strings.ContainsRune(got, '�') {
		t.Errorf("excerpt contains a replacement rune: %q", got[:20])
	}
	if n := len([]rune(strings.TrimSuffix(got, "..."))); n != ExcerptLength {
		t.Errorf("excerpt body is %d runes, want %d", n, ExcerptLength)
	}
}

func TestExcerpt_BoundsHugeInput(t *testing.T) {
	body := strings.Repeat("x", 10<<20)
	got := Excerpt(body)
	if len(got) > ExcerptLength*4+3 {
		t.Errorf("excerpt too long: %d bytes", len(got))
	}
}

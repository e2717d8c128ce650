package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ExcerptLength is the maximum excerpt size in runes, before the ellipsis.
const ExcerptLength = 200

// inputCap bounds how much body the strip pipeline ever sees. Running the
// regexes over a multi-megabyte body would dominate indexing time for no
// gain, so the input is pre-truncated to a multiple of the target length.
const inputCap = ExcerptLength * 10

var (
	fencedCodeRe = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe = regexp.MustCompile("`[^`\n]*`")
	imageRe      = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	wikilinkRe   = regexp.MustCompile(`\[\[([^\]|]*)(?:\|[^\]]*)?\]\]`)
	headingRe    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasisRe   = regexp.MustCompile(`[*_]{1,3}`)
	blockquoteRe = regexp.MustCompile(`(?m)^\s*>\s?`)
	hrRe         = regexp.MustCompile(`(?m)^\s*(?:-{3,}|\*{3,}|_{3,})\s*$`)
	listRe       = regexp.MustCompile(`(?m)^\s*(?:[-+*]|\d+\.)\s+`)
	blankRe      = regexp.MustCompile(`\n{2,}`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

// Excerpt derives a plain-text, length-bounded preview of a Markdown body.
// The pipeline is deterministic: identical input always yields identical
// output.
func Excerpt(body string) string {
	s := body
	if len(s) > inputCap {
		s = s[:inputCap]
		// Repair only the cut boundary: a rune is at most UTFMax bytes, so
		// trim at most one partial rune's worth of trailing bytes.
		for i := 0; i < utf8.UTFMax-1 && len(s) > 0; i++ {
			r, size := utf8.DecodeLastRuneInString(s)
			if r != utf8.RuneError || size > 1 {
				break
			}
			s = s[:len(s)-1]
		}
	}

	s = fencedCodeRe.ReplaceAllString(s, " ")
	s = inlineCodeRe.ReplaceAllString(s, " ")
	s = imageRe.ReplaceAllString(s, "")
	s = linkRe.ReplaceAllString(s, "$1")
	s = wikilinkRe.ReplaceAllString(s, "$1")
	s = headingRe.ReplaceAllString(s, "")
	s = emphasisRe.ReplaceAllString(s, "")
	s = blockquoteRe.ReplaceAllString(s, "")
	s = hrRe.ReplaceAllString(s, "")
	s = listRe.ReplaceAllString(s, "")
	s = blankRe.ReplaceAllString(s, "\n")
	s = spaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	runes := []rune(s)
	if len(runes) > ExcerptLength {
		return strings.TrimSpace(string(runes[:ExcerptLength])) + "..."
	}
	return s
}

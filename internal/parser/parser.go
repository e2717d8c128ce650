// Package parser turns raw vault file bytes into structured documents:
// YAML frontmatter extraction, metadata normalization, and excerpt
// derivation.
package parser

import (
	"bytes"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/halvard/munin/internal/models"
)

// Result holds the output of parsing one vault file.
type Result struct {
	Title string
	Body  string
	Meta  models.Metadata
}

// Parse extracts frontmatter and body from raw Markdown bytes and
// normalizes the recognized metadata keys. Invalid YAML is never an error:
// the whole input becomes the body and defaults apply.
func Parse(data []byte) (*Result, error) {
	fm, body := splitFrontmatter(data)
	meta := normalizeMeta(fm)

	return &Result{
		Title: deriveTitle(fm, body),
		Body:  body,
		Meta:  meta,
	}, nil
}

// splitFrontmatter separates YAML frontmatter (between leading --- fences)
// from the Markdown body. Missing or unparsable frontmatter yields a nil
// map and the full input as body.
func splitFrontmatter(data []byte) (map[string]any, string) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data)
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, string(data)
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]any
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		return nil, string(data)
	}

	return fm, body
}

// Recognized frontmatter keys. Everything else is preserved in Meta.Extra.
var knownKeys = map[string]struct{}{
	"title": {}, "created": {}, "modified": {},
	"tags": {}, "type": {}, "status": {}, "category": {},
}

// normalizeMeta coerces recognized keys to their canonical forms and
// applies the documented defaults. Bad values never reject a document.
func normalizeMeta(fm map[string]any) models.Metadata {
	meta := models.Metadata{
		Tags:     []string{},
		Type:     models.DefaultType,
		Status:   models.DefaultStatus,
		Category: models.DefaultCategory,
	}
	if fm == nil {
		return meta
	}

	meta.Created = coerceDate(fm["created"])
	meta.Modified = coerceDate(fm["modified"])
	meta.Tags = coerceTags(fm["tags"])
	meta.Type = models.NormalizeType(coerceEnum(fm["type"]))
	meta.Status = models.NormalizeStatus(coerceEnum(fm["status"]))
	meta.Category = models.NormalizeCategory(coerceEnum(fm["category"]))

	for k, v := range fm {
		if _, ok := knownKeys[k]; ok {
			continue
		}
		if meta.Extra == nil {
			meta.Extra = make(map[string]any)
		}
		meta.Extra[k] = v
	}

	return meta
}

// coerceDate renders a frontmatter date value as YYYY-MM-DD. YAML may hand
// us a time.Time (unquoted dates) or a string; anything else falls back to
// its plain string form.
func coerceDate(v any) string {
	if v == nil {
		return ""
	}
	if t, err := cast.ToTimeE(v); err == nil {
		return t.Format(models.DateLayout)
	}
	return strings.TrimSpace(cast.ToString(v))
}

// coerceTags accepts a YAML list or a single scalar and returns an ordered,
// deduplicated tag set. Tag case is preserved; matching is the tag
// matcher's concern.
func coerceTags(v any) []string {
	if v == nil {
		return []string{}
	}
	raw, err := cast.ToStringSliceE(v)
	if err != nil {
		raw = []string{cast.ToString(v)}
	}
	seen := make(map[string]struct{}, len(raw))
	out := []string{}
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func coerceEnum(v any) string {
	return strings.ToLower(strings.TrimSpace(cast.ToString(v)))
}

// deriveTitle returns the frontmatter "title" if present, otherwise the
// first H1 heading, otherwise empty string (the indexer falls back to the
// filename stem).
func deriveTitle(fm map[string]any, body string) string {
	if fm != nil {
		if s := strings.TrimSpace(cast.ToString(fm["title"])); s != "" {
			return s
		}
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

package mcpserver

// FrontmatterFormat describes the metadata header Munin recognizes when
// indexing vault documents. Served as an MCP resource so LLM consumers can
// interpret query results correctly.
const FrontmatterFormat = `# Munin Frontmatter Format

Munin indexes plain-text Markdown files with an optional YAML metadata
header between leading ` + "```" + `---` + "```" + ` fences.

## Recognized keys

` + "```" + `markdown
---
title: Human-readable title         # optional - falls back to the first H1, then the filename
created: 2025-01-10                 # optional - YYYY-MM-DD
modified: 2025-01-15                # optional - YYYY-MM-DD; drives recency ordering
tags:                               # optional - hierarchical, /-delimited
  - work/puppet
  - project-x
type: note                          # note | project | task | daily | meeting
status: active                      # active | archived | idea | completed
category: personal                  # work | personal | knowledge | life | dailies
---

Body text in standard Markdown.
` + "```" + `

## Rules

1. Every key is optional. Missing or unrecognized ` + "`" + `type` + "`" + `, ` + "`" + `status` + "`" + `, and
   ` + "`" + `category` + "`" + ` values fall back to ` + "`" + `note` + "`" + `, ` + "`" + `active` + "`" + `, and ` + "`" + `personal` + "`" + `.
   A document is never rejected over its metadata.
2. Tags are hierarchical: ` + "`" + `work` + "`" + ` is an ancestor of ` + "`" + `work/puppet` + "`" + `. Searching
   an ancestor finds its descendants. Tag matching ignores case.
3. Any additional keys are preserved verbatim and searchable as custom
   metadata.
4. Documents under the archive folder are excluded from results unless a
   query sets ` + "`" + `include_archive` + "`" + `.
`

//go:build !sqlite_fts5

package store

import (
	"database/sql"
	"strings"

	"github.com/halvard/munin/internal/models"
)

// Fallback when FTS5 is not compiled in: free text becomes a LIKE match
// over title, body, tags, and scalar metadata. No relevance ranking, so
// results order by recency alone.

func ftsInit(_ *sql.DB) error {
	return nil
}

func ftsUpsert(_ *sql.Tx, _ models.Document) error {
	// Title, body, and metadata already live in the base tables.
	return nil
}

func ftsDelete(_ *sql.Tx, _ string) {}

func ftsClear(_ *sql.Tx) {}

func textClause(text string) (join, where, orderBy string, args []any) {
	if strings.TrimSpace(text) == "" {
		return "", "", recencyExpr + " DESC, d.path", nil
	}
	like := "%" + text + "%"
	where = `(d.title LIKE ? OR d.body LIKE ? OR d.doc_type LIKE ? OR d.status LIKE ? OR d.category LIKE ?
		OR EXISTS (SELECT 1 FROM document_tags ft WHERE ft.path = d.path AND ft.tag LIKE ?)
		OR EXISTS (SELECT 1 FROM document_meta fm WHERE fm.path = d.path AND fm.value LIKE ?))`
	args = []any{like, like, like, like, like, like, like}
	return "", where, recencyExpr + " DESC, d.path", args
}

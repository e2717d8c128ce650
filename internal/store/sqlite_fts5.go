//go:build sqlite_fts5

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/halvard/munin/internal/models"
)

func ftsInit(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
			path UNINDEXED,
			title,
			body,
			tags,
			meta,
			tokenize = 'porter unicode61'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, doc models.Document) error {
	_, err := tx.Exec(`INSERT INTO documents_fts (path, title, body, tags, meta) VALUES (?, ?, ?, ?, ?)`,
		doc.Path, doc.Title, doc.Body, strings.Join(doc.Meta.Tags, " "), metaText(doc.Meta))
	if err != nil {
		return fmt.Errorf("store: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, path string) {
	_, _ = tx.Exec(`DELETE FROM documents_fts WHERE path = ?`, path)
}

func ftsClear(tx *sql.Tx) {
	_, _ = tx.Exec(`DELETE FROM documents_fts`)
}

// textClause builds the free-text part of a search query: the FTS join,
// its MATCH predicate, and relevance-rank ordering with recency as the
// tie-break. Without text, ordering is recency only.
func textClause(text string) (join, where, orderBy string, args []any) {
	if strings.TrimSpace(text) == "" {
		return "", "", recencyExpr + " DESC, d.path", nil
	}
	return " JOIN documents_fts f ON f.path = d.path",
		"documents_fts MATCH ?",
		"f.rank, " + recencyExpr + " DESC, d.path",
		[]any{matchExpr(text)}
}

// matchExpr quotes each term so user input can never produce FTS5 query
// syntax errors. Adjacent quoted terms are an implicit AND.
func matchExpr(text string) string {
	fields := strings.Fields(text)
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		quoted = append(quoted, `"`+strings.ReplaceAll(f, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " ")
}

// metaText flattens scalar fields and custom metadata into one searchable
// string.
func metaText(meta models.Metadata) string {
	parts := []string{meta.Type, meta.Status, meta.Category}
	for _, v := range meta.Extra {
		if s, ok := v.(string); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

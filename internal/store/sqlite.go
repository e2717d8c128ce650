package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/halvard/munin/internal/apperr"
	"github.com/halvard/munin/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	path     TEXT PRIMARY KEY,
	title    TEXT NOT NULL DEFAULT '',
	body     TEXT NOT NULL DEFAULT '',
	excerpt  TEXT NOT NULL DEFAULT '',
	created  TEXT NOT NULL DEFAULT '',
	modified TEXT NOT NULL DEFAULT '',
	doc_type TEXT NOT NULL DEFAULT 'note',
	status   TEXT NOT NULL DEFAULT 'active',
	category TEXT NOT NULL DEFAULT 'personal'
);

CREATE TABLE IF NOT EXISTS document_tags (
	path TEXT NOT NULL,
	tag  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS document_meta (
	path  TEXT NOT NULL,
	key   TEXT NOT NULL,
	value TEXT NOT NULL DEFAULT 'null'
);

CREATE INDEX IF NOT EXISTS idx_documents_modified ON documents(modified);
CREATE INDEX IF NOT EXISTS idx_documents_type     ON documents(doc_type);
CREATE INDEX IF NOT EXISTS idx_documents_status   ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_category ON documents(category);
CREATE INDEX IF NOT EXISTS idx_tags_path          ON document_tags(path);
CREATE INDEX IF NOT EXISTS idx_tags_tag           ON document_tags(tag);
CREATE INDEX IF NOT EXISTS idx_meta_path          ON document_meta(path);
`

// recencyExpr orders by modified date, falling back to created when a
// document never recorded a modified date.
const recencyExpr = `CASE WHEN d.modified <> '' THEN d.modified ELSE d.created END`

const docColumns = `d.path, d.title, d.body, d.excerpt, d.created, d.modified, d.doc_type, d.status, d.category`

// SQLiteStore is the persistent backend: a relational schema plus a
// full-text shadow table, durable across restarts.
type SQLiteStore struct {
	conn          *sql.DB
	archiveFolder string
}

// OpenSQLite opens (or creates) the database file. Schema creation happens
// in Initialize.
func OpenSQLite(path, archiveFolder string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &SQLiteStore{conn: conn, archiveFolder: archiveFolder}, nil
}

// Initialize applies the schema. Safe to call more than once.
func (s *SQLiteStore) Initialize() error {
	if _, err := s.conn.Exec(schemaSQL); err != nil {
		return fmt.Errorf("store: apply schema: %w", err)
	}
	if err := ftsInit(s.conn); err != nil {
		return fmt.Errorf("store: apply fts schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// Upsert replaces the document at doc.Path in full: scalar row, tag rows,
// metadata rows, and full-text row, all within one transaction.
func (s *SQLiteStore) Upsert(doc models.Document) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if err := upsertTx(tx, doc); err != nil {
		return err
	}
	return tx.Commit()
}

// UpsertBatch upserts all documents within a single transaction, so a
// reader never observes a half-applied batch.
func (s *SQLiteStore) UpsertBatch(docs []models.Document) error {
	if len(docs) == 0 {
		return nil
	}
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, doc := range docs {
		if err := upsertTx(tx, doc); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func upsertTx(tx *sql.Tx, doc models.Document) error {
	_, _ = tx.Exec(`DELETE FROM document_tags WHERE path = ?`, doc.Path)
	_, _ = tx.Exec(`DELETE FROM document_meta WHERE path = ?`, doc.Path)
	ftsDelete(tx, doc.Path)

	_, err := tx.Exec(`
		INSERT INTO documents (path, title, body, excerpt, created, modified, doc_type, status, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title    = excluded.title,
			body     = excluded.body,
			excerpt  = excluded.excerpt,
			created  = excluded.created,
			modified = excluded.modified,
			doc_type = excluded.doc_type,
			status   = excluded.status,
			category = excluded.category
	`, doc.Path, doc.Title, doc.Body, doc.Excerpt,
		doc.Meta.Created, doc.Meta.Modified, doc.Meta.Type, doc.Meta.Status, doc.Meta.Category)
	if err != nil {
		return fmt.Errorf("store: upsert document: %w", err)
	}

	for _, tag := range doc.Meta.Tags {
		if _, err := tx.Exec(`INSERT INTO document_tags (path, tag) VALUES (?, ?)`, doc.Path, tag); err != nil {
			return fmt.Errorf("store: insert tag: %w", err)
		}
	}

	for key, value := range doc.Meta.Extra {
		encoded, err := json.Marshal(value)
		if err != nil {
			encoded = []byte("null")
		}
		if _, err := tx.Exec(`INSERT INTO document_meta (path, key, value) VALUES (?, ?, ?)`,
			doc.Path, key, string(encoded)); err != nil {
			return fmt.Errorf("store: insert meta: %w", err)
		}
	}

	return ftsUpsert(tx, doc)
}

// Get returns the document at path, or apperr.ErrNotFound.
func (s *SQLiteStore) Get(path string) (*models.Document, error) {
	row := s.conn.QueryRow(`SELECT `+docColumns+` FROM documents d WHERE d.path = ?`, path)
	doc, err := scanDoc(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: %s: %w", path, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", path, err)
	}
	if err := s.loadChildren(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetAll returns every stored document with no ordering guarantee.
func (s *SQLiteStore) GetAll() ([]models.Document, error) {
	return s.queryDocs(`SELECT `+docColumns+` FROM documents d`, nil)
}

// likeEscape neutralizes LIKE metacharacters in user-derived values so a
// literal % or _ filters as itself. Every LIKE built from user input pairs
// with ESCAPE '\'; without this the SQL predicates drift from the
// in-memory backend's plain string comparisons.
func likeEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// GetByTag returns documents carrying the tag or any descendant of it,
// ordered by recency.
func (s *SQLiteStore) GetByTag(tag string) ([]models.Document, error) {
	lower := strings.ToLower(tag)
	return s.queryDocs(`
		SELECT `+docColumns+` FROM documents d
		WHERE EXISTS (
			SELECT 1 FROM document_tags t
			WHERE t.path = d.path AND (lower(t.tag) = ? OR lower(t.tag) LIKE ? ESCAPE '\')
		)
		ORDER BY `+recencyExpr+` DESC, d.path`,
		[]any{lower, likeEscape(lower) + "/%"})
}

// GetRecent returns up to limit documents ordered by recency.
func (s *SQLiteStore) GetRecent(limit int) ([]models.Document, error) {
	if limit <= 0 {
		limit = models.DefaultLimit
	}
	return s.queryDocs(`
		SELECT `+docColumns+` FROM documents d
		ORDER BY `+recencyExpr+` DESC, d.path
		LIMIT ?`,
		[]any{limit})
}

// Search runs the free-text match (when present) and layers the structural
// filters on top as conjunctive SQL predicates.
func (s *SQLiteStore) Search(q models.Query) ([]models.Document, error) {
	join, textWhere, orderBy, args := textClause(q.Text)

	where := []string{}
	if textWhere != "" {
		where = append(where, textWhere)
	}

	if len(q.Tags) > 0 {
		// Hierarchical match, OR'd across requested tags.
		terms := make([]string, 0, len(q.Tags))
		for _, tag := range q.Tags {
			lower := strings.ToLower(tag)
			terms = append(terms, `(lower(t.tag) = ? OR lower(t.tag) LIKE ? ESCAPE '\')`)
			args = append(args, lower, likeEscape(lower)+"/%")
		}
		where = append(where, `EXISTS (SELECT 1 FROM document_tags t WHERE t.path = d.path AND (`+
			strings.Join(terms, " OR ")+`))`)
	}

	if q.Type != "" {
		where = append(where, `d.doc_type = ?`)
		args = append(args, q.Type)
	}
	if q.Status != "" {
		where = append(where, `d.status = ?`)
		args = append(args, q.Status)
	}
	if q.Category != "" {
		where = append(where, `d.category = ?`)
		args = append(args, q.Category)
	}

	if q.PathPattern != "" {
		if strings.HasSuffix(q.PathPattern, recursiveSuffix) {
			prefix := strings.ToLower(strings.TrimSuffix(q.PathPattern, recursiveSuffix))
			where = append(where, `lower(d.path) LIKE ? ESCAPE '\'`)
			args = append(args, likeEscape(prefix)+"%")
		} else {
			where = append(where, `lower(d.path) LIKE ? ESCAPE '\'`)
			args = append(args, "%"+likeEscape(strings.ToLower(q.PathPattern))+"%")
		}
	}

	if !q.IncludeArchive && s.archiveFolder != "" {
		prefix := strings.ToLower(s.archiveFolder)
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		where = append(where, `lower(d.path) NOT LIKE ? ESCAPE '\'`)
		args = append(args, likeEscape(prefix)+"%")
	}

	if q.DateFrom != "" {
		where = append(where, `d.modified >= ?`)
		args = append(args, q.DateFrom)
	}
	if q.DateTo != "" {
		where = append(where, `d.modified <= ?`)
		args = append(args, q.DateTo)
	}

	query := `SELECT ` + docColumns + ` FROM documents d` + join
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY ` + orderBy + ` LIMIT ?`
	args = append(args, q.EffectiveLimit())

	return s.queryDocs(query, args)
}

// Clear wipes all records.
func (s *SQLiteStore) Clear() error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, _ = tx.Exec(`DELETE FROM document_tags`)
	_, _ = tx.Exec(`DELETE FROM document_meta`)
	_, _ = tx.Exec(`DELETE FROM documents`)
	ftsClear(tx)

	return tx.Commit()
}

func (s *SQLiteStore) queryDocs(query string, args []any) ([]models.Document, error) {
	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query: %w", err)
	}
	defer rows.Close()

	var out []models.Document
	for rows.Next() {
		doc, err := scanDoc(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: rows: %w", err)
	}
	for i := range out {
		if err := s.loadChildren(&out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func scanDoc(scan func(...any) error) (models.Document, error) {
	var doc models.Document
	err := scan(&doc.Path, &doc.Title, &doc.Body, &doc.Excerpt,
		&doc.Meta.Created, &doc.Meta.Modified, &doc.Meta.Type, &doc.Meta.Status, &doc.Meta.Category)
	return doc, err
}

// loadChildren fills tag and custom-metadata associations for one document.
func (s *SQLiteStore) loadChildren(doc *models.Document) error {
	rows, err := s.conn.Query(`SELECT tag FROM document_tags WHERE path = ? ORDER BY rowid`, doc.Path)
	if err != nil {
		return fmt.Errorf("store: load tags: %w", err)
	}
	defer rows.Close()

	doc.Meta.Tags = []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return err
		}
		doc.Meta.Tags = append(doc.Meta.Tags, tag)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	metaRows, err := s.conn.Query(`SELECT key, value FROM document_meta WHERE path = ?`, doc.Path)
	if err != nil {
		return fmt.Errorf("store: load meta: %w", err)
	}
	defer metaRows.Close()

	for metaRows.Next() {
		var key, raw string
		if err := metaRows.Scan(&key, &raw); err != nil {
			return err
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		if doc.Meta.Extra == nil {
			doc.Meta.Extra = make(map[string]any)
		}
		doc.Meta.Extra[key] = value
	}
	return metaRows.Err()
}

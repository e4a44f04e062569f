package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/seobright/careers/internal/db"
)

// Store persists schemaless documents grouped by collection name. One table
// backs every collection; documents keep insertion order through the seq
// column.
type Store struct {
	conn *db.DB
}

// New prepares the documents table and returns a ready Store.
func New(ctx context.Context, conn *db.DB) (*Store, error) {
	s := &Store{conn: conn}
	if err := s.migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			id         TEXT NOT NULL,
			collection TEXT NOT NULL,
			body       TEXT NOT NULL,
			created    INTEGER NOT NULL,
			UNIQUE(collection, id)
		);
		CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection);
	`)
	return err
}

// Insert assigns a new identifier, persists the document and returns the id.
// No field of the document is dropped; a caller-supplied _id is replaced by
// the assigned one.
func (s *Store) Insert(ctx context.Context, collection string, doc Document) (DocID, error) {
	if collection == "" {
		return "", fmt.Errorf("collection is required")
	}
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}

	body := make(Document, len(doc))
	for k, v := range doc {
		if k == FieldID {
			continue
		}
		body[k] = v
	}

	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	id := NewDocID()
	if _, err := s.conn.Exec(ctx,
		`INSERT INTO documents (id, collection, body, created) VALUES (?, ?, ?, ?)`,
		id.String(), collection, string(b), now(),
	); err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}

	return id, nil
}

// Find returns the documents of a collection in insertion order. A non-empty
// filter keeps only documents whose top-level fields equal the given values;
// limit <= 0 means unbounded.
func (s *Store) Find(ctx context.Context, collection string, filter Document, limit int) ([]Document, error) {
	query := `SELECT id, body FROM documents WHERE collection = ? ORDER BY seq ASC`
	args := []any{collection}
	if limit > 0 && len(filter) == 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("find in %s: %w", collection, err)
		}

		if !matches(doc, filter) {
			continue
		}
		out = append(out, doc)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}

	return out, nil
}

// FindOne looks a document up by id. A miss returns (nil, nil); malformed ids
// are the caller's concern (ParseDocID) and never reach this method.
func (s *Store) FindOne(ctx context.Context, collection string, id DocID) (Document, error) {
	row := s.conn.QueryRow(ctx,
		`SELECT id, body FROM documents WHERE collection = ? AND id = ?`,
		collection, id.String(),
	)

	var idText, body string
	if err := row.Scan(&idText, &body); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("find one in %s: %w", collection, err)
	}

	return decodeDocument(idText, body)
}

// Count returns the total number of documents in a collection.
func (s *Store) Count(ctx context.Context, collection string) (int64, error) {
	row := s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM documents WHERE collection = ?`, collection)
	var cnt int64
	if err := row.Scan(&cnt); err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}

	return cnt, nil
}

// Collections lists the distinct collection names currently stored.
func (s *Store) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryRows(ctx, `SELECT DISTINCT collection FROM documents ORDER BY collection`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list collections: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	return names, nil
}

func scanDocument(rows *sql.Rows) (Document, error) {
	var idText, body string
	if err := rows.Scan(&idText, &body); err != nil {
		return nil, err
	}

	return decodeDocument(idText, body)
}

func decodeDocument(idText, body string) (Document, error) {
	var doc Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", idText, err)
	}

	doc[FieldID] = DocID(idText)
	return doc, nil
}

func matches(doc Document, filter Document) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}

	return true
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

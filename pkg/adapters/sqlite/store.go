package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/pipewright/pkg/domain"
	_ "modernc.org/sqlite"
)

// Store implements ports.DocumentStore on a single SQLite database file.
type Store struct {
	conn *sql.DB
}

// Open creates the database directory if needed, opens the file and applies
// pending migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory %q: %w", dir, err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &Store{conn: conn}, nil
}

// SQL exposes the underlying connection pool.
func (s *Store) SQL() *sql.DB {
	return s.conn
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// Save upserts the document row.
func (s *Store) Save(ctx context.Context, name string, doc *domain.Document) error {
	if name == "" {
		return fmt.Errorf("document name cannot be empty")
	}

	pipeline, err := json.Marshal(doc.Pipeline)
	if err != nil {
		return fmt.Errorf("failed to marshal pipeline: %w", err)
	}

	_, err = s.conn.ExecContext(ctx, `
INSERT INTO documents (name, text, pipeline, compiled_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
	text = excluded.text,
	pipeline = excluded.pipeline,
	compiled_at = excluded.compiled_at
`, name, doc.Text, string(pipeline), doc.CompiledAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save document %q: %w", name, err)
	}
	return nil
}

// Load reads the document row.
func (s *Store) Load(ctx context.Context, name string) (*domain.Document, error) {
	var (
		text       string
		pipeline   string
		compiledAt string
	)
	err := s.conn.QueryRowContext(ctx,
		`SELECT text, pipeline, compiled_at FROM documents WHERE name = ?`, name,
	).Scan(&text, &pipeline, &compiledAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to load document %q: %w", name, err)
	}

	doc := &domain.Document{Name: name, Text: text}
	if err := json.Unmarshal([]byte(pipeline), &doc.Pipeline); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pipeline: %w", err)
	}
	if doc.CompiledAt, err = time.Parse(time.RFC3339Nano, compiledAt); err != nil {
		return nil, fmt.Errorf("invalid compiled_at %q: %w", compiledAt, err)
	}
	return doc, nil
}

// Delete removes the document row.
func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM documents WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete document %q: %w", name, err)
	}
	return nil
}

// List returns document names in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT name FROM documents ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan document name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

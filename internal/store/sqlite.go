package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/alkime/notes/internal/note"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    content TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS notes_created_at ON notes (created_at);`

// SQLite is a Store backed by a sqlite database file.
type SQLite struct {
	conn *sql.DB
}

// OpenSQLite opens or creates the database at path and ensures the schema.
// Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	// One connection keeps ":memory:" databases alive and serializes writes.
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Debug("database initialized", "path", path)

	return &SQLite{conn: conn}, nil
}

func (s *SQLite) Add(ctx context.Context, n note.Note) error {
	if n.Content == "" {
		return note.ErrEmptyContent
	}

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO notes (id, content, created_at) VALUES (?, ?, ?)`,
		n.ID.String(), n.Content, n.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert note %s: %w", n.ID, err)
	}

	return nil
}

func (s *SQLite) List(ctx context.Context) ([]note.Note, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, content, created_at FROM notes ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []note.Note

	for rows.Next() {
		var (
			id      string
			n       note.Note
			created int64
		)

		if err := rows.Scan(&id, &n.Content, &created); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}

		n.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid note id %q: %w", id, err)
		}
		n.CreatedAt = time.Unix(0, created).UTC()

		notes = append(notes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}

	return notes, nil
}

func (s *SQLite) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}

	return nil
}

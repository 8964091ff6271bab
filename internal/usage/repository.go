// Package usage provides the append-only usage log. The dispatcher appends
// fire-and-forget on every upload or photo event; the only read path is the
// per-user count behind the status command and the ops server.
package usage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// DB represents a database connection interface.
type DB interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Repository handles usage log records.
type Repository struct {
	db DB
}

// Open opens (creating if needed) the sqlite usage database at path and
// ensures the schema exists.
func Open(path string) (*Repository, func() error, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open usage db: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS usage (
			id TEXT PRIMARY KEY,
			user_id INTEGER,
			command TEXT,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init usage schema: %w", err)
	}

	return &Repository{db: db}, db.Close, nil
}

// NewRepository creates a repository over an existing connection. Tests use
// this with an in-memory database.
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// Append records one usage event.
func (r *Repository) Append(ctx context.Context, userID int64, command string) error {
	query := `INSERT INTO usage (id, user_id, command) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, uuid.New().String(), userID, command)
	if err != nil {
		return fmt.Errorf("append usage record: %w", err)
	}
	return nil
}

// CountByUser returns the number of usage records for one user.
func (r *Repository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM usage WHERE user_id = ?`
	var count int64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count usage records: %w", err)
	}
	return count, nil
}

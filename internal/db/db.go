package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var errNotInitialized = errors.New("database not initialized")

// DB wraps a database connection
type DB struct {
	*sql.DB
}

// Lookup is one completed weather search. Only the query and its outcome are
// kept; weather values are never stored.
type Lookup struct {
	ID        int64     `json:"id"`
	Query     string    `json:"query"`
	Outcome   string    `json:"outcome"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Open opens (creating if needed) the SQLite history database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS lookups (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			outcome TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_lookups_created_at ON lookups (created_at);
	`)
	return err
}

// RecordLookup stores a completed lookup.
func (d *DB) RecordLookup(ctx context.Context, l Lookup) error {
	if d == nil || d.DB == nil {
		return errNotInitialized
	}

	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}

	_, err := d.ExecContext(ctx,
		"INSERT INTO lookups (query, outcome, location, created_at) VALUES (?, ?, ?, ?)",
		l.Query, l.Outcome, l.Location, l.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert lookup %q: %w", l.Query, err)
	}
	return nil
}

// RecentLookups returns up to limit lookups, newest first.
func (d *DB) RecentLookups(ctx context.Context, limit int) ([]Lookup, error) {
	if d == nil || d.DB == nil {
		return nil, errNotInitialized
	}

	rows, err := d.QueryContext(ctx,
		"SELECT id, query, outcome, location, created_at FROM lookups ORDER BY created_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent lookups: %w", err)
	}
	defer rows.Close()

	lookups := []Lookup{}
	for rows.Next() {
		var l Lookup
		if err := rows.Scan(&l.ID, &l.Query, &l.Outcome, &l.Location, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lookup: %w", err)
		}
		lookups = append(lookups, l)
	}
	return lookups, rows.Err()
}

// Ping reports whether the database is reachable.
func (d *DB) Ping() error {
	if d == nil || d.DB == nil {
		return errNotInitialized
	}
	return d.DB.Ping()
}

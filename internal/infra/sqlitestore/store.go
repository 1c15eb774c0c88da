// Package sqlitestore provides a SQLite implementation of
// domain.CompletionOverrides for users who share the cache between
// concurrent dq processes.
package sqlitestore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dailyquest/dq/internal/domain"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

// Store implements domain.CompletionOverrides using SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Ensure Store implements CompletionOverrides.
var _ domain.CompletionOverrides = (*Store)(nil)

// New wraps an open database and applies migrations.
func New(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("sqlitestore: nil db")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

// Open opens (and creates if missing) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store, err := New(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the IDs recorded for date in insertion order.
func (s *Store) Get(date string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT task_id FROM completion_overrides
		WHERE date = ?
		ORDER BY recorded_at, task_id`, date)
	if err != nil {
		return nil, fmt.Errorf("query overrides: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Add records taskID for date.
func (s *Store) Add(date, taskID string) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO completion_overrides (date, task_id, recorded_at)
		VALUES (?, ?, ?)`,
		date, taskID, s.now().UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert override: %w", err)
	}
	return nil
}

// Remove drops taskID from date.
func (s *Store) Remove(date, taskID string) error {
	if _, err := s.db.Exec(`DELETE FROM completion_overrides WHERE date = ? AND task_id = ?`, date, taskID); err != nil {
		return fmt.Errorf("delete override: %w", err)
	}
	return nil
}

// Clear drops every ID recorded for date.
func (s *Store) Clear(date string) error {
	if _, err := s.db.Exec(`DELETE FROM completion_overrides WHERE date = ?`, date); err != nil {
		return fmt.Errorf("clear overrides: %w", err)
	}
	return nil
}

// Prune drops every date before the given one and returns how many dates were dropped.
func (s *Store) Prune(before string) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin prune: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.QueryRow(`SELECT COUNT(DISTINCT date) FROM completion_overrides WHERE date < ?`, before).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stale dates: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM completion_overrides WHERE date < ?`, before); err != nil {
		return 0, fmt.Errorf("prune overrides: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}
	return n, nil
}

// Dates returns every date with recorded IDs, oldest first.
func (s *Store) Dates() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT date FROM completion_overrides ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("query dates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

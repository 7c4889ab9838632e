package save

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a slot has no saved record.
var ErrNotFound = errors.New("save: slot not found")

// Slot describes one stored record.
type Slot struct {
	Name    string
	Level   int
	SavedAt time.Time
}

// Store keeps records in a sqlite database, one row per named slot, along
// with the history of finished runs.
type Store struct {
	db *sql.DB
}

var initStatements = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS saves (
		slot TEXT PRIMARY KEY,
		level INTEGER NOT NULL,
		record TEXT NOT NULL,
		saved_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		level INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		damage_dealt INTEGER NOT NULL,
		damage_taken INTEGER NOT NULL,
		gold INTEGER NOT NULL,
		kills TEXT NOT NULL,
		ended_at INTEGER NOT NULL
	)`,
}

// Open opens or creates the store at path. Missing parent directories are
// created.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create save directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open save database: %w", err)
	}
	for _, stmt := range initStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init save database: %w", err)
		}
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate save database: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes rec to slot, replacing any previous record there.
func (s *Store) Save(ctx context.Context, slot string, rec *Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO saves (slot, level, record, saved_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET level = excluded.level, record = excluded.record, saved_at = excluded.saved_at`,
		slot, rec.Player.Level, Marshal(rec), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("save slot %q: %w", slot, err)
	}
	return nil
}

// Load reads the record in slot.
func (s *Store) Load(ctx context.Context, slot string) (*Record, error) {
	var text string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM saves WHERE slot = ?`, slot).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load slot %q: %w", slot, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %q: %w", slot, err)
	}
	rec, err := Parse(text)
	if err != nil {
		return nil, fmt.Errorf("load slot %q: %w", slot, err)
	}
	return rec, nil
}

// List returns every slot, most recently saved first.
func (s *Store) List(ctx context.Context) ([]Slot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slot, level, saved_at FROM saves ORDER BY saved_at DESC, slot`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var out []Slot
	for rows.Next() {
		var (
			sl Slot
			ns int64
		)
		if err := rows.Scan(&sl.Name, &sl.Level, &ns); err != nil {
			return nil, fmt.Errorf("list saves: %w", err)
		}
		sl.SavedAt = time.Unix(0, ns)
		out = append(out, sl)
	}
	return out, rows.Err()
}

// Delete removes slot. Deleting an empty slot returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, slot string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, slot)
	if err != nil {
		return fmt.Errorf("delete slot %q: %w", slot, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete slot %q: %w", slot, ErrNotFound)
	}
	return nil
}

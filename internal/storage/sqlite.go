// Package storage provides a SQLite-backed journal of recorded runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/blockfall/internal/replay"
)

// ErrNotFound is returned when a run ID is not in the journal.
var ErrNotFound = errors.New("storage: run not found")

// Store manages the SQLite database connection for the run journal.
type Store struct {
	db *sql.DB
}

// RunEntry summarizes a recorded run without its frames.
type RunEntry struct {
	ID        string
	GameID    string
	Seed      int64
	Score     int
	GameOver  bool
	Ticks     uint64
	TickRate  int
	CreatedAt time.Time
}

// Duration returns the simulated play time of the run.
func (e RunEntry) Duration() time.Duration {
	if e.TickRate <= 0 {
		return 0
	}
	return time.Duration(e.Ticks) * time.Second / time.Duration(e.TickRate)
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			score INTEGER NOT NULL,
			game_over INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL,
			log BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_game_id ON runs(game_id, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun stores a finished run. Saving the same ID twice replaces the entry.
func (s *Store) SaveRun(l *replay.Log) error {
	data, err := replay.Encode(l)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	created := l.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO runs (id, game_id, seed, score, game_over, ticks, tick_rate, log, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.GameID, l.Seed, l.Final.Score, l.Final.GameOver, int64(l.Ticks), l.TickRate, data, //#nosec G115 -- tick counts fit
		created.Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save run: %w", err)
	}
	return nil
}

// RecentRuns returns the newest runs, optionally filtered by game ID.
func (s *Store) RecentRuns(gameID string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, game_id, seed, score, game_over, ticks, tick_rate, created_at FROM runs`
	args := []any{}
	if gameID != "" {
		query += ` WHERE game_id = ?`
		args = append(args, gameID)
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var ticks int64
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Seed, &e.Score, &e.GameOver, &ticks, &e.TickRate, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Ticks = uint64(ticks) //#nosec G115 -- stored from uint64
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// LoadRun returns the full log of a run.
func (s *Store) LoadRun(id string) (*replay.Log, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT log FROM runs WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load run: %w", err)
	}

	l, err := replay.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("storage: run %s: %w", id, err)
	}
	return l, nil
}

// DeleteRun removes a run from the journal.
func (s *Store) DeleteRun(id string) error {
	result, err := s.db.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ClearRuns removes every run of a game, or all runs when gameID is empty.
func (s *Store) ClearRuns(gameID string) error {
	var err error
	if gameID == "" {
		_, err = s.db.Exec(`DELETE FROM runs`)
	} else {
		_, err = s.db.Exec(`DELETE FROM runs WHERE game_id = ?`, gameID)
	}
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

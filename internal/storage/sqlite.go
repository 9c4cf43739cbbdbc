// Package storage provides SQLite-based persistence for finished games.
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

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/session"
)

// timeLayout is how finish times are stored.
const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for game history.
type Store struct {
	db *sql.DB
}

// GameEntry represents a single finished game.
type GameEntry struct {
	ID         int64
	SessionID  string
	MaxTile    int
	Moves      int
	Merges     int
	Spawned    int
	Duration   time.Duration
	EndReason  string
	FinishedAt time.Time
}

// Stats contains aggregated statistics over all recorded games.
type Stats struct {
	GamesCount int
	BestTile   int
	AvgMoves   float64
	TotalMoves int64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := config.ExpandPath(dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	// Create parent directories
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
		CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			max_tile INTEGER NOT NULL,
			moves INTEGER NOT NULL DEFAULT 0,
			merges INTEGER NOT NULL DEFAULT 0,
			spawned INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL,
			finished_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_games_max_tile ON games(max_tile DESC);
		CREATE INDEX IF NOT EXISTS idx_games_finished_at ON games(finished_at DESC);
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

// SaveGame records a finished game.
// Returns the ID of the inserted record.
func (s *Store) SaveGame(e GameEntry) (int64, error) {
	finished := e.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}

	result, err := s.db.Exec(
		`INSERT INTO games
		 (session_id, max_tile, moves, merges, spawned, duration_ms, end_reason, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID,
		e.MaxTile,
		e.Moves,
		e.Merges,
		e.Spawned,
		e.Duration.Milliseconds(),
		e.EndReason,
		finished.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save game: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecordGame implements session.Recorder.
// This adapter lets sessions report finished games without a direct storage dependency.
func (s *Store) RecordGame(rec session.GameRecord) error {
	_, err := s.SaveGame(GameEntry{
		SessionID:  rec.SessionID,
		MaxTile:    rec.MaxTile,
		Moves:      rec.Moves,
		Merges:     rec.Merges,
		Spawned:    rec.Spawned,
		Duration:   rec.Duration,
		EndReason:  string(rec.EndReason),
		FinishedAt: rec.FinishedAt,
	})
	return err
}

// Ensure Store implements Recorder
var _ session.Recorder = (*Store)(nil)

const selectGames = `SELECT id, session_id, max_tile, moves, merges, spawned, duration_ms, end_reason, finished_at FROM games`

// RecentGames retrieves the most recently finished games.
func (s *Store) RecentGames(limit int) ([]GameEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryGames(selectGames+` ORDER BY finished_at DESC, id DESC LIMIT ?`, limit)
}

// TopGames retrieves the games with the highest tile reached.
// Ties are broken by fewer moves.
func (s *Store) TopGames(limit int) ([]GameEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryGames(selectGames+` ORDER BY max_tile DESC, moves ASC, id ASC LIMIT ?`, limit)
}

func (s *Store) queryGames(query string, args ...any) ([]GameEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query games: %w", err)
	}
	defer rows.Close()

	var entries []GameEntry
	for rows.Next() {
		var e GameEntry
		var durationMS int64
		var finishedAt any
		if err := rows.Scan(&e.ID, &e.SessionID, &e.MaxTile, &e.Moves, &e.Merges, &e.Spawned,
			&durationMS, &e.EndReason, &finishedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		e.FinishedAt = parseTime(finishedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// BestTile returns the highest tile ever recorded.
// Returns 0 if no games exist.
func (s *Store) BestTile() (int, error) {
	var best sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(max_tile) FROM games").Scan(&best); err != nil {
		return 0, fmt.Errorf("storage: cannot query best tile: %w", err)
	}
	if !best.Valid {
		return 0, nil
	}
	return int(best.Int64), nil
}

// Stats retrieves aggregated statistics over all games.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(max_tile), 0), COALESCE(AVG(moves), 0), COALESCE(SUM(moves), 0)
		 FROM games`,
	).Scan(&stats.GamesCount, &stats.BestTile, &stats.AvgMoves, &stats.TotalMoves)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(`SELECT finished_at FROM games ORDER BY finished_at DESC LIMIT 1`).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// ClearHistory deletes all recorded games.
func (s *Store) ClearHistory() error {
	if _, err := s.db.Exec("DELETE FROM games"); err != nil {
		return fmt.Errorf("storage: cannot clear history: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string column values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Package storage provides SQLite-based persistence for level progress.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/girder/internal/puzzle"
)

const sqliteTime = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for progress persistence.
type Store struct {
	db *sql.DB
}

// Completion is one solved run of a level.
type Completion struct {
	ID        int64
	PackID    string
	LevelID   string
	Moves     int
	Undos     int
	Duration  time.Duration
	CreatedAt time.Time
}

// Progress summarizes all completions of a single level.
type Progress struct {
	PackID    string
	LevelID   string
	Solves    int
	BestMoves int
	BestTime  time.Duration
	LastSolve time.Time
}

// Suspended is a saved in-progress session that can be resumed later.
type Suspended struct {
	ID        string
	PackID    string
	LevelID   string
	State     puzzle.Snapshot
	Moves     int
	Undos     int
	UpdatedAt time.Time
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
		CREATE TABLE IF NOT EXISTS completions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pack_id TEXT NOT NULL,
			level_id TEXT NOT NULL,
			moves INTEGER NOT NULL,
			undos INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_completions_level ON completions(pack_id, level_id);
		CREATE INDEX IF NOT EXISTS idx_completions_best ON completions(pack_id, level_id, moves, duration_ms);

		CREATE TABLE IF NOT EXISTS suspended (
			id TEXT PRIMARY KEY,
			pack_id TEXT NOT NULL,
			level_id TEXT NOT NULL,
			carrier_x INTEGER NOT NULL,
			carrier_y INTEGER NOT NULL,
			carrier_facing INTEGER NOT NULL,
			carrying INTEGER NOT NULL,
			beam_x INTEGER NOT NULL,
			beam_y INTEGER NOT NULL,
			beam_orientation INTEGER NOT NULL,
			moves INTEGER NOT NULL DEFAULT 0,
			undos INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_suspended_level ON suspended(pack_id, level_id);
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

// RecordCompletion stores a solved run.
// Returns the ID of the inserted record.
func (s *Store) RecordCompletion(c Completion) (int64, error) {
	if c.PackID == "" || c.LevelID == "" {
		return 0, errors.New("storage: completion needs pack and level IDs")
	}
	result, err := s.db.Exec(
		"INSERT INTO completions (pack_id, level_id, moves, undos, duration_ms) VALUES (?, ?, ?, ?, ?)",
		c.PackID, c.LevelID, c.Moves, c.Undos, c.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record completion: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// BestCompletion returns the fewest-moves run of a level, ties broken by time.
// Returns nil if the level was never solved.
func (s *Store) BestCompletion(packID, levelID string) (*Completion, error) {
	var c Completion
	var durMS int64
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, pack_id, level_id, moves, undos, duration_ms, created_at
		 FROM completions
		 WHERE pack_id = ? AND level_id = ?
		 ORDER BY moves ASC, duration_ms ASC, id ASC
		 LIMIT 1`,
		packID, levelID,
	).Scan(&c.ID, &c.PackID, &c.LevelID, &c.Moves, &c.Undos, &durMS, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best completion: %w", err)
	}

	c.Duration = time.Duration(durMS) * time.Millisecond
	c.CreatedAt = parseTime(createdAt)
	return &c, nil
}

// Completions retrieves the most recent runs of a level, newest first.
func (s *Store) Completions(packID, levelID string, limit int) ([]Completion, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, pack_id, level_id, moves, undos, duration_ms, created_at
		 FROM completions
		 WHERE pack_id = ? AND level_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		packID, levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query completions: %w", err)
	}
	defer rows.Close()

	var entries []Completion
	for rows.Next() {
		var c Completion
		var durMS int64
		var createdAt any
		if err := rows.Scan(&c.ID, &c.PackID, &c.LevelID, &c.Moves, &c.Undos, &durMS, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		c.Duration = time.Duration(durMS) * time.Millisecond
		c.CreatedAt = parseTime(createdAt)
		entries = append(entries, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// AllProgress summarizes every solved level, ordered by pack then level.
func (s *Store) AllProgress() ([]Progress, error) {
	rows, err := s.db.Query(
		`SELECT pack_id, level_id, COUNT(*), MIN(moves), MIN(duration_ms), MAX(created_at)
		 FROM completions
		 GROUP BY pack_id, level_id
		 ORDER BY pack_id, level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query progress: %w", err)
	}
	defer rows.Close()

	var out []Progress
	for rows.Next() {
		var p Progress
		var bestMS int64
		var last any
		if err := rows.Scan(&p.PackID, &p.LevelID, &p.Solves, &p.BestMoves, &bestMS, &last); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		p.BestTime = time.Duration(bestMS) * time.Millisecond
		p.LastSolve = parseTime(last)
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// ClearProgress deletes all completions of a pack.
func (s *Store) ClearProgress(packID string) error {
	_, err := s.db.Exec("DELETE FROM completions WHERE pack_id = ?", packID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear progress: %w", err)
	}
	return nil
}

// SaveSuspended stores an in-progress session, replacing any earlier save
// of the same level. Returns the row ID, generated when sus.ID is empty.
func (s *Store) SaveSuspended(sus Suspended) (string, error) {
	if sus.PackID == "" || sus.LevelID == "" {
		return "", errors.New("storage: suspended session needs pack and level IDs")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if sus.ID == "" {
		var existing string
		err := tx.QueryRow(
			"SELECT id FROM suspended WHERE pack_id = ? AND level_id = ?",
			sus.PackID, sus.LevelID,
		).Scan(&existing)
		switch {
		case err == nil:
			sus.ID = existing
		case errors.Is(err, sql.ErrNoRows):
			sus.ID = uuid.NewString()
		default:
			return "", fmt.Errorf("storage: cannot query suspended session: %w", err)
		}
	}

	st := sus.State
	_, err = tx.Exec(
		`INSERT INTO suspended
		 (id, pack_id, level_id, carrier_x, carrier_y, carrier_facing, carrying,
		  beam_x, beam_y, beam_orientation, moves, undos, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(pack_id, level_id) DO UPDATE SET
		  id = excluded.id,
		  carrier_x = excluded.carrier_x,
		  carrier_y = excluded.carrier_y,
		  carrier_facing = excluded.carrier_facing,
		  carrying = excluded.carrying,
		  beam_x = excluded.beam_x,
		  beam_y = excluded.beam_y,
		  beam_orientation = excluded.beam_orientation,
		  moves = excluded.moves,
		  undos = excluded.undos,
		  updated_at = CURRENT_TIMESTAMP`,
		sus.ID, sus.PackID, sus.LevelID,
		st.CarrierPos.X, st.CarrierPos.Y, int(st.CarrierFacing), st.Carrying,
		st.BeamRoot.X, st.BeamRoot.Y, int(st.BeamOrientation),
		sus.Moves, sus.Undos,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save suspended session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit suspended session: %w", err)
	}
	return sus.ID, nil
}

// LoadSuspended returns the saved session of a level.
// Returns nil if none exists.
func (s *Store) LoadSuspended(packID, levelID string) (*Suspended, error) {
	row := s.db.QueryRow(
		`SELECT id, pack_id, level_id, carrier_x, carrier_y, carrier_facing, carrying,
		        beam_x, beam_y, beam_orientation, moves, undos, updated_at
		 FROM suspended
		 WHERE pack_id = ? AND level_id = ?`,
		packID, levelID,
	)
	sus, err := scanSuspended(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query suspended session: %w", err)
	}
	return sus, nil
}

// ListSuspended returns every saved session, most recently updated first.
func (s *Store) ListSuspended() ([]Suspended, error) {
	rows, err := s.db.Query(
		`SELECT id, pack_id, level_id, carrier_x, carrier_y, carrier_facing, carrying,
		        beam_x, beam_y, beam_orientation, moves, undos, updated_at
		 FROM suspended
		 ORDER BY updated_at DESC, pack_id, level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query suspended sessions: %w", err)
	}
	defer rows.Close()

	var out []Suspended
	for rows.Next() {
		sus, err := scanSuspended(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, *sus)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// DeleteSuspended removes the saved session of a level, if any.
func (s *Store) DeleteSuspended(packID, levelID string) error {
	_, err := s.db.Exec("DELETE FROM suspended WHERE pack_id = ? AND level_id = ?", packID, levelID)
	if err != nil {
		return fmt.Errorf("storage: cannot delete suspended session: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSuspended(r scanner) (*Suspended, error) {
	var sus Suspended
	var facing, orient int
	var updatedAt any
	st := &sus.State
	if err := r.Scan(
		&sus.ID, &sus.PackID, &sus.LevelID,
		&st.CarrierPos.X, &st.CarrierPos.Y, &facing, &st.Carrying,
		&st.BeamRoot.X, &st.BeamRoot.Y, &orient,
		&sus.Moves, &sus.Undos, &updatedAt,
	); err != nil {
		return nil, err
	}
	st.CarrierFacing = puzzle.Direction(facing)
	st.BeamOrientation = puzzle.Direction(orient)
	sus.UpdatedAt = parseTime(updatedAt)
	return &sus, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTime, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

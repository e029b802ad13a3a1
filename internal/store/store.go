// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/speedforce/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session history and the best score.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// The TUI writes from the observer goroutine while the main loop reads.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			uuid TEXT NOT NULL UNIQUE,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			time_limit INTEGER NOT NULL,
			word_count INTEGER NOT NULL,
			difficulty TEXT NOT NULL,
			wpm INTEGER NOT NULL,
			raw_wpm INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			correct_chars INTEGER NOT NULL,
			incorrect_chars INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS best_score (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			wpm INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_mode ON sessions(mode);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a finished session. A random UUID is assigned when
// the record has none.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord) (int64, error) {
	if rec.UUID == "" {
		rec.UUID = uuid.NewString()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (uuid, started_at, ended_at, mode, time_limit, word_count, difficulty,
			wpm, raw_wpm, accuracy, correct_chars, incorrect_chars, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.UUID,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		string(rec.Mode),
		rec.TimeLimit,
		rec.WordCount,
		string(rec.Difficulty),
		rec.WPM,
		rec.RawWPM,
		rec.Accuracy,
		rec.CorrectChars,
		rec.IncorrectChars,
		rec.DurationMs,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert session: %w", err)
	}
	return res.LastInsertId()
}

// ListSessions returns sessions filtered by stats config, oldest first.
// A positive Last keeps only the most recent sessions.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, string(cfg.Mode))
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	limit := -1
	if cfg.Last > 0 {
		limit = cfg.Last
	}
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT * FROM (
			SELECT id, uuid, started_at, ended_at, mode, time_limit, word_count, difficulty,
				wpm, raw_wpm, accuracy, correct_chars, incorrect_chars, duration_ms
			FROM sessions
			WHERE %s
			ORDER BY ended_at DESC, id DESC
			LIMIT ?
		) ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionRecord
	for rows.Next() {
		var rec model.SessionRecord
		var startedAt, endedAt, mode, difficulty string
		if err := rows.Scan(&rec.ID, &rec.UUID, &startedAt, &endedAt, &mode, &rec.TimeLimit, &rec.WordCount,
			&difficulty, &rec.WPM, &rec.RawWPM, &rec.Accuracy, &rec.CorrectChars, &rec.IncorrectChars, &rec.DurationMs); err != nil {
			return nil, err
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if rec.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		rec.Mode = model.Mode(mode)
		rec.Difficulty = model.Difficulty(difficulty)
		sessions = append(sessions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetBest returns the stored best WPM, or 0 when none has been recorded.
func (s *Store) GetBest(ctx context.Context) (int, error) {
	var wpm int
	err := s.db.QueryRowContext(ctx, `SELECT wpm FROM best_score WHERE id = 1`).Scan(&wpm)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read best score: %w", err)
	}
	return wpm, nil
}

// SetBest overwrites the stored best WPM.
func (s *Store) SetBest(ctx context.Context, wpm int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO best_score (id, wpm, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET wpm = excluded.wpm, updated_at = excluded.updated_at`,
		wpm, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to write best score: %w", err)
	}
	return nil
}

// ResetBest forgets the stored best WPM.
func (s *Store) ResetBest(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM best_score`); err != nil {
		return fmt.Errorf("failed to reset best score: %w", err)
	}
	return nil
}

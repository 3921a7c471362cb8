// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mgalan/lince/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for training data.
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
		`CREATE TABLE IF NOT EXISTS user_game_state (
			user TEXT NOT NULL,
			game_code TEXT NOT NULL,
			last_level INTEGER NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (user, game_code)
		);`,
		`CREATE TABLE IF NOT EXISTS game_runs (
			id INTEGER PRIMARY KEY,
			user TEXT NOT NULL,
			game_code TEXT NOT NULL,
			level INTEGER NOT NULL,
			score INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			duration_sec REAL NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			params_json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS xp_ledger (
			id INTEGER PRIMARY KEY,
			user TEXT NOT NULL,
			source TEXT NOT NULL,
			delta INTEGER NOT NULL,
			meta_json TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY,
			user TEXT NOT NULL,
			type TEXT NOT NULL,
			meta_json TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_game_runs_ended_at ON game_runs(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_game_runs_user_game ON game_runs(user, game_code);`,
		`CREATE INDEX IF NOT EXISTS idx_xp_ledger_user ON xp_ledger(user);`,
		`CREATE INDEX IF NOT EXISTS idx_events_user_type ON events(user, type);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// LoadLastLevel returns the saved difficulty level for a user/game pair.
// The second result reports whether a saved level exists.
func (s *Store) LoadLastLevel(user, gameCode string) (int, bool, error) {
	var level int
	err := s.db.QueryRow(
		`SELECT last_level FROM user_game_state WHERE user = ? AND game_code = ?`,
		user, gameCode,
	).Scan(&level)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return level, true, nil
}

// SaveLevel upserts the last difficulty level for a user/game pair.
func (s *Store) SaveLevel(user, gameCode string, level int) error {
	_, err := s.db.Exec(
		`INSERT INTO user_game_state (user, game_code, last_level, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user, game_code) DO UPDATE SET last_level = excluded.last_level, updated_at = excluded.updated_at`,
		user, gameCode, level, time.Now().Format(time.RFC3339Nano),
	)
	return err
}

// RecordRun stores one completed mini-game run.
func (s *Store) RecordRun(run model.RunStats) (int64, error) {
	params, err := marshalMeta(run.Params)
	if err != nil {
		return 0, err
	}
	res, err := s.db.Exec(
		`INSERT INTO game_runs (user, game_code, level, score, accuracy, duration_sec, started_at, ended_at, params_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.User,
		run.GameCode,
		run.Level,
		run.Score,
		run.Accuracy,
		run.DurationSec,
		run.StartedAt.Format(time.RFC3339Nano),
		run.EndedAt.Format(time.RFC3339Nano),
		params,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// AppendXP appends one XP ledger row.
func (s *Store) AppendXP(entry model.XPEntry) error {
	meta, err := marshalMeta(entry.Meta)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO xp_ledger (user, source, delta, meta_json, created_at) VALUES (?, ?, ?, ?, ?)`,
		entry.User, entry.Source, entry.Delta, meta, time.Now().Format(time.RFC3339Nano),
	)
	return err
}

// AppendEvent stores one telemetry event.
func (s *Store) AppendEvent(ctx context.Context, event model.Event) error {
	meta, err := marshalMeta(event.Meta)
	if err != nil {
		return err
	}
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO events (user, type, meta_json, created_at) VALUES (?, ?, ?, ?)`,
		event.User, string(event.Type), meta, ts.Format(time.RFC3339Nano),
	)
	return err
}

// TotalXP sums the XP ledger for a user.
func (s *Store) TotalXP(user string) (int, error) {
	var total sql.NullInt64
	err := s.db.QueryRow(`SELECT SUM(delta) FROM xp_ledger WHERE user = ?`, user).Scan(&total)
	if err != nil {
		return 0, err
	}
	return int(total.Int64), nil
}

// ListRuns returns run aggregates filtered by stats config, oldest first.
func (s *Store) ListRuns(ctx context.Context, cfg model.StatsConfig) ([]model.RunAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.User != "" {
		clauses = append(clauses, "user = ?")
		args = append(args, cfg.User)
	}
	if cfg.GameCode != "" {
		clauses = append(clauses, "game_code = ?")
		args = append(args, cfg.GameCode)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, game_code, level, score, accuracy, duration_sec, ended_at
		FROM game_runs
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
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

	var runs []model.RunAggregate
	for rows.Next() {
		var agg model.RunAggregate
		var endedAt string
		if err := rows.Scan(&agg.RunID, &agg.GameCode, &agg.Level, &agg.Score, &agg.Accuracy, &agg.DurationSec, &endedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		runs = append(runs, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(runs) > cfg.Last {
		runs = runs[len(runs)-cfg.Last:]
	}
	return runs, nil
}

func marshalMeta(meta map[string]any) (string, error) {
	if len(meta) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

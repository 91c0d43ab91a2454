// Package storage records simulation runs in a sqlite database: one row
// per run, per-window telemetry stats, and the final scenario outcome.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mossline/biodome/telemetry"
)

// RunStore persists run history. Safe for concurrent use.
type RunStore struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// NewRunStore creates a store backed by the sqlite file at path.
func NewRunStore(path string) *RunStore {
	return &RunStore{path: path}
}

// Init opens the database and creates tables.
func (s *RunStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// Close releases the database handle.
func (s *RunStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *RunStore) getDB() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, errors.New("run store not initialized")
	}
	return s.db, nil
}

// BeginRun registers a new run and returns its ID.
func (s *RunStore) BeginRun(ctx context.Context, seed int64, scenario string) (string, error) {
	db, err := s.getDB()
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, seed, scenario, started_at)
		VALUES (?, ?, ?, ?)
	`, id, seed, scenario, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return id, nil
}

// SaveWindow records one telemetry window for a run.
func (s *RunStore) SaveWindow(ctx context.Context, runID string, w telemetry.WindowStats) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO window_stats (
			run_id, tick, births, deaths, predation_hits, predation_misses,
			tribes_formed, weather_changes, placements,
			plants, creatures, predators, tribes,
			mean_health, std_health, mean_energy
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, tick) DO UPDATE SET
			births = excluded.births,
			deaths = excluded.deaths,
			predation_hits = excluded.predation_hits,
			predation_misses = excluded.predation_misses,
			tribes_formed = excluded.tribes_formed,
			weather_changes = excluded.weather_changes,
			placements = excluded.placements,
			plants = excluded.plants,
			creatures = excluded.creatures,
			predators = excluded.predators,
			tribes = excluded.tribes,
			mean_health = excluded.mean_health,
			std_health = excluded.std_health,
			mean_energy = excluded.mean_energy
	`, runID, w.Tick, w.Births, w.Deaths, w.PredationHits, w.PredationMiss,
		w.TribesFormed, w.WeatherChanges, w.Placements,
		w.Plants, w.Creatures, w.Predators, w.Tribes,
		w.MeanHealth, w.StdHealth, w.MeanEnergy)
	return err
}

// RunWindows returns all recorded windows for a run in tick order.
func (s *RunStore) RunWindows(ctx context.Context, runID string) ([]telemetry.WindowStats, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT tick, births, deaths, predation_hits, predation_misses,
			tribes_formed, weather_changes, placements,
			plants, creatures, predators, tribes,
			mean_health, std_health, mean_energy
		FROM window_stats
		WHERE run_id = ?
		ORDER BY tick
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []telemetry.WindowStats
	for rows.Next() {
		var w telemetry.WindowStats
		if err := rows.Scan(&w.Tick, &w.Births, &w.Deaths, &w.PredationHits, &w.PredationMiss,
			&w.TribesFormed, &w.WeatherChanges, &w.Placements,
			&w.Plants, &w.Creatures, &w.Predators, &w.Tribes,
			&w.MeanHealth, &w.StdHealth, &w.MeanEnergy); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// FinishRun records the end of a run with its outcome.
func (s *RunStore) FinishRun(ctx context.Context, runID string, finalTick int32, outcome string) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, final_tick = ?, outcome = ?
		WHERE id = ?
	`, time.Now().UTC().Format(time.RFC3339), finalTick, outcome, runID)
	return err
}

// RunSummary is one row of run history.
type RunSummary struct {
	ID        string
	Seed      int64
	Scenario  string
	FinalTick int32
	Outcome   string
}

// LastRuns returns the most recent runs, newest first.
func (s *RunStore) LastRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, seed, COALESCE(scenario, ''), COALESCE(final_tick, 0), COALESCE(outcome, '')
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Seed, &r.Scenario, &r.FinalTick, &r.Outcome); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			scenario TEXT,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			final_tick INTEGER,
			outcome TEXT
		);

		CREATE TABLE IF NOT EXISTS window_stats (
			run_id TEXT NOT NULL REFERENCES runs(id),
			tick INTEGER NOT NULL,
			births INTEGER NOT NULL,
			deaths INTEGER NOT NULL,
			predation_hits INTEGER NOT NULL,
			predation_misses INTEGER NOT NULL,
			tribes_formed INTEGER NOT NULL,
			weather_changes INTEGER NOT NULL,
			placements INTEGER NOT NULL,
			plants INTEGER NOT NULL,
			creatures INTEGER NOT NULL,
			predators INTEGER NOT NULL,
			tribes INTEGER NOT NULL,
			mean_health REAL NOT NULL,
			std_health REAL NOT NULL,
			mean_energy REAL NOT NULL,
			PRIMARY KEY (run_id, tick)
		);
	`)
	return err
}

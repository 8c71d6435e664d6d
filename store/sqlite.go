package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pthm-cable/flappy/evolution"
	"github.com/pthm-cable/flappy/telemetry"
)

// SQLiteStore persists the archive in a SQLite database file.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
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
		return fmt.Errorf("creating tables: %w", err)
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, seed, population, generations, started_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			seed = excluded.seed,
			population = excluded.population,
			generations = excluded.generations,
			started_at = excluded.started_at
	`, run.ID, run.Seed, run.Population, run.Generations, run.StartedAt.UnixNano())
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (Run, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Run{}, false, err
	}

	run := Run{ID: id}
	var started int64
	err = db.QueryRowContext(ctx, `
		SELECT seed, population, generations, started_at FROM runs WHERE id = ?
	`, id).Scan(&run.Seed, &run.Population, &run.Generations, &started)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, false, nil
		}
		return Run{}, false, err
	}
	run.StartedAt = time.Unix(0, started).UTC()
	return run, true, nil
}

func (s *SQLiteStore) SaveGeneration(ctx context.Context, runID string, stats telemetry.GenerationStats) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO generations (run_id, generation, best_fitness, mean_fitness, best_passed)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, generation) DO UPDATE SET
			best_fitness = excluded.best_fitness,
			mean_fitness = excluded.mean_fitness,
			best_passed = excluded.best_passed
	`, runID, stats.Generation, stats.BestFitness, stats.MeanFitness, stats.BestPassed)
	return err
}

func (s *SQLiteStore) Generations(ctx context.Context, runID string) ([]telemetry.GenerationStats, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT generation, best_fitness, mean_fitness, best_passed
		FROM generations WHERE run_id = ? ORDER BY generation
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []telemetry.GenerationStats
	for rows.Next() {
		var g telemetry.GenerationStats
		if err := rows.Scan(&g.Generation, &g.BestFitness, &g.MeanFitness, &g.BestPassed); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveChampion(ctx context.Context, runID string, champ evolution.Champion) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO champions (run_id, w0, w1, w2, fitness, frames, passed, generation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			w0 = excluded.w0,
			w1 = excluded.w1,
			w2 = excluded.w2,
			fitness = excluded.fitness,
			frames = excluded.frames,
			passed = excluded.passed,
			generation = excluded.generation
	`, runID, champ.Genome[0], champ.Genome[1], champ.Genome[2],
		champ.Fitness, champ.Frames, champ.Passed, champ.Generation)
	return err
}

func (s *SQLiteStore) GetChampion(ctx context.Context, runID string) (evolution.Champion, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return evolution.Champion{}, false, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT w0, w1, w2, fitness, frames, passed, generation
		FROM champions WHERE run_id = ?
	`, runID)
	champ, err := scanChampion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return evolution.Champion{}, false, nil
		}
		return evolution.Champion{}, false, err
	}
	return champ, true, nil
}

func (s *SQLiteStore) LatestChampion(ctx context.Context) (string, evolution.Champion, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return "", evolution.Champion{}, false, err
	}

	var runID string
	var champ evolution.Champion
	err = db.QueryRowContext(ctx, `
		SELECT c.run_id, c.w0, c.w1, c.w2, c.fitness, c.frames, c.passed, c.generation
		FROM champions c JOIN runs r ON r.id = c.run_id
		ORDER BY r.started_at DESC, r.rowid DESC
		LIMIT 1
	`).Scan(&runID, &champ.Genome[0], &champ.Genome[1], &champ.Genome[2],
		&champ.Fitness, &champ.Frames, &champ.Passed, &champ.Generation)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", evolution.Champion{}, false, nil
		}
		return "", evolution.Champion{}, false, err
	}
	return runID, champ, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

func scanChampion(row *sql.Row) (evolution.Champion, error) {
	var c evolution.Champion
	err := row.Scan(&c.Genome[0], &c.Genome[1], &c.Genome[2], &c.Fitness, &c.Frames, &c.Passed, &c.Generation)
	return c, err
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			population INTEGER NOT NULL,
			generations INTEGER NOT NULL,
			started_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS generations (
			run_id TEXT NOT NULL,
			generation INTEGER NOT NULL,
			best_fitness REAL NOT NULL,
			mean_fitness REAL NOT NULL,
			best_passed INTEGER NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
		CREATE TABLE IF NOT EXISTS champions (
			run_id TEXT PRIMARY KEY,
			w0 REAL NOT NULL,
			w1 REAL NOT NULL,
			w2 REAL NOT NULL,
			fitness REAL NOT NULL,
			frames INTEGER NOT NULL,
			passed INTEGER NOT NULL,
			generation INTEGER NOT NULL
		);
	`)
	return err
}

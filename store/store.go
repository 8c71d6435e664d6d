// Package store archives training runs, their per-generation statistics and
// their champions.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/flappy/evolution"
	"github.com/pthm-cable/flappy/telemetry"
)

// ErrNotInitialized is returned by operations on a store before Init.
var ErrNotInitialized = errors.New("store is not initialized")

// Run describes one training run.
type Run struct {
	ID          string
	Seed        int64
	Population  int
	Generations int
	StartedAt   time.Time
}

// NewRun creates a run record with a fresh ID.
func NewRun(seed int64, population, generations int) Run {
	return Run{
		ID:          uuid.NewString(),
		Seed:        seed,
		Population:  population,
		Generations: generations,
		StartedAt:   time.Now().UTC(),
	}
}

// Store persists runs, generation statistics and champions.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	SaveGeneration(ctx context.Context, runID string, stats telemetry.GenerationStats) error
	Generations(ctx context.Context, runID string) ([]telemetry.GenerationStats, error)
	SaveChampion(ctx context.Context, runID string, champ evolution.Champion) error
	GetChampion(ctx context.Context, runID string) (evolution.Champion, bool, error)
	// LatestChampion returns the champion of the most recently started run
	// that has one.
	LatestChampion(ctx context.Context) (string, evolution.Champion, bool, error)
	Close() error
}

// NewStore creates a store of the given kind. Call Init before use.
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		if sqlitePath == "" {
			return nil, errors.New("sqlite path is required")
		}
		return NewSQLiteStore(sqlitePath), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

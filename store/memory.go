package store

import (
	"context"
	"sync"

	"github.com/pthm-cable/flappy/evolution"
	"github.com/pthm-cable/flappy/telemetry"
)

// MemoryStore keeps everything in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]Run
	order       []string // run IDs in insertion order
	generations map[string][]telemetry.GenerationStats
	champions   map[string]evolution.Champion
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]Run)
	s.order = nil
	s.generations = make(map[string][]telemetry.GenerationStats)
	s.champions = make(map[string]evolution.Champion)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ErrNotInitialized
	}
	if _, ok := s.runs[run.ID]; !ok {
		s.order = append(s.order, run.ID)
	}
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return Run{}, false, ErrNotInitialized
	}
	run, ok := s.runs[id]
	return run, ok, nil
}

// SaveGeneration replaces any earlier record for the same generation.
func (s *MemoryStore) SaveGeneration(_ context.Context, runID string, stats telemetry.GenerationStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ErrNotInitialized
	}
	rows := s.generations[runID]
	for i := range rows {
		if rows[i].Generation == stats.Generation {
			rows[i] = stats
			return nil
		}
	}
	s.generations[runID] = append(rows, stats)
	return nil
}

func (s *MemoryStore) Generations(_ context.Context, runID string) ([]telemetry.GenerationStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	rows := s.generations[runID]
	out := make([]telemetry.GenerationStats, len(rows))
	copy(out, rows)
	return out, nil
}

func (s *MemoryStore) SaveChampion(_ context.Context, runID string, champ evolution.Champion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ErrNotInitialized
	}
	s.champions[runID] = champ
	return nil
}

func (s *MemoryStore) GetChampion(_ context.Context, runID string) (evolution.Champion, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return evolution.Champion{}, false, ErrNotInitialized
	}
	champ, ok := s.champions[runID]
	return champ, ok, nil
}

func (s *MemoryStore) LatestChampion(_ context.Context) (string, evolution.Champion, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return "", evolution.Champion{}, false, ErrNotInitialized
	}

	latest := ""
	for _, id := range s.order {
		if _, ok := s.champions[id]; !ok {
			continue
		}
		if latest == "" || !s.runs[id].StartedAt.Before(s.runs[latest].StartedAt) {
			latest = id
		}
	}
	if latest == "" {
		return "", evolution.Champion{}, false, nil
	}
	return latest, s.champions[latest], true, nil
}

func (s *MemoryStore) Close() error { return nil }

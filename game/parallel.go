package game

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/rand"
	"runtime"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/neural"
)

// Evaluator runs one headless life per genome across a bounded set of workers.
type Evaluator struct {
	cfg     *config.Config
	seed    int64
	workers int
}

// NewEvaluator creates an evaluator. Every life's RNG is derived from seed,
// the generation, and the genome's index, so results do not depend on
// scheduling or worker count.
func NewEvaluator(cfg *config.Config, seed int64) *Evaluator {
	workers := cfg.Eval.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Evaluator{cfg: cfg, seed: seed, workers: workers}
}

// Workers returns the concurrency limit.
func (e *Evaluator) Workers() int { return e.workers }

// Evaluate simulates every genome and returns results indexed like genomes.
// It returns only after every simulation has finished.
func (e *Evaluator) Evaluate(ctx context.Context, generation int, genomes []neural.Genome) ([]Result, error) {
	results := make([]Result, len(genomes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := range genomes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(LifeSeed(e.seed, generation, i)))
			results[i] = NewSimulation(e.cfg, genomes[i], rng, Options{}).Run()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("evaluating generation %d: %w", generation, err)
	}
	return results, nil
}

// LifeSeed derives a deterministic RNG seed for one life.
func LifeSeed(runSeed int64, generation, index int) int64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(runSeed))
	binary.LittleEndian.PutUint64(buf[8:], uint64(generation))
	binary.LittleEndian.PutUint64(buf[16:], uint64(index))
	return int64(xxhash.Sum64(buf[:]))
}

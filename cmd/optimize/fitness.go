package main

import (
	"context"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/evolution"
	"github.com/pthm-cable/flappy/telemetry"
)

// FitnessEvaluator trains short GA runs and scores the hyperparameters that
// produced them.
type FitnessEvaluator struct {
	params      *ParamVector
	seeds       []int64
	baseConfig  *config.Config
	generations int

	// Best run tracking
	mu           sync.Mutex
	bestFitness  float64
	bestChampion evolution.Champion
	bestHall     *telemetry.HallOfFame
	lastPassed   float64 // mean champion obstacles passed from the most recent Evaluate call
}

// NewFitnessEvaluator creates an evaluator that trains for generations
// generations on every seed.
func NewFitnessEvaluator(params *ParamVector, generations int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		seeds:       seeds,
		baseConfig:  baseCfg,
		generations: generations,
		bestFitness: math.Inf(1),
	}
}

// BestChampion returns the champion of the best-scoring seed so far.
func (fe *FitnessEvaluator) BestChampion() (evolution.Champion, *telemetry.HallOfFame) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestChampion, fe.bestHall
}

// LastPassed returns the mean obstacles passed by the champions of the most
// recent evaluation.
func (fe *FitnessEvaluator) LastPassed() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastPassed
}

// seedResult holds the result from one seed.
type seedResult struct {
	champion evolution.Champion
	hall     *telemetry.HallOfFame
}

// Evaluate computes the objective for a raw parameter vector (lower is
// better): the negated mean champion fitness across seeds.
func (fe *FitnessEvaluator) Evaluate(ctx context.Context, x []float64) (float64, error) {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	cfg.GA.Generations = fe.generations
	if err := cfg.Finalize(); err != nil {
		return math.Inf(1), err
	}

	results := make([]seedResult, len(fe.seeds))
	g, ctx := errgroup.WithContext(ctx)
	for i, seed := range fe.seeds {
		g.Go(func() error {
			r, err := runSeed(ctx, cfg, seed)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return math.Inf(1), err
	}

	var totalFitness, totalPassed float64
	best := results[0]
	for _, r := range results {
		totalFitness += r.champion.Fitness
		totalPassed += float64(r.champion.Passed)
		if r.champion.Fitness > best.champion.Fitness {
			best = r
		}
	}
	n := float64(len(results))
	objective := -totalFitness / n

	fe.mu.Lock()
	if objective < fe.bestFitness {
		fe.bestFitness = objective
		fe.bestChampion = best.champion
		fe.bestHall = best.hall
	}
	fe.lastPassed = totalPassed / n
	fe.mu.Unlock()

	return objective, nil
}

// runSeed trains one population and records its hall of fame.
func runSeed(ctx context.Context, cfg *config.Config, seed int64) (seedResult, error) {
	engine, err := evolution.New(cfg, evolution.Options{Seed: seed})
	if err != nil {
		return seedResult{}, err
	}
	hall := telemetry.NewHallOfFame(cfg.Telemetry.HallOfFameSize)
	engine.OnGeneration(func(_ context.Context, r *evolution.GenerationReport) error {
		best := r.Results[r.Stats.BestIndex]
		hall.Consider(telemetry.HallEntry{
			Genome:     r.Population[r.Stats.BestIndex],
			Fitness:    best.Fitness,
			Frames:     best.Frames,
			Passed:     best.Passed,
			Generation: r.Generation,
		})
		return nil
	})

	champ, err := engine.Run(ctx)
	if err != nil {
		return seedResult{}, err
	}
	return seedResult{champion: champ, hall: hall}, nil
}

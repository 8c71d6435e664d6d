// Package evolution runs the genetic algorithm that trains perceptron genomes.
package evolution

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/game"
	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/telemetry"
)

// Champion is the best genome seen across all generations of a run.
type Champion struct {
	Genome     neural.Genome `json:"genome"`
	Fitness    float64       `json:"fitness"`
	Frames     int           `json:"frames"`
	Passed     int           `json:"passed"`
	Generation int           `json:"generation"`
}

// LogValue implements slog.LogValuer for structured logging.
func (c Champion) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("genome", c.Genome.String()),
		slog.Float64("fitness", c.Fitness),
		slog.Int("passed", c.Passed),
		slog.Int("generation", c.Generation),
	)
}

// GenerationReport is handed to hooks after a generation has been evaluated.
type GenerationReport struct {
	Generation int
	Population []neural.Genome
	Results    []game.Result
	Stats      telemetry.GenerationStats
	Champion   Champion
	Improved   bool // champion replaced this generation
}

// Hook observes a generation. A returned error aborts the run.
type Hook func(ctx context.Context, r *GenerationReport) error

// Options configures an Engine beyond the config file.
type Options struct {
	Seed int64
	// Population seeds the first generation. Must match ga.population when set.
	Population []neural.Genome
	Perf       *telemetry.PerfCollector
}

// Engine evolves a fixed-size population for a fixed generation budget.
type Engine struct {
	cfg       *config.Config
	rng       *rand.Rand
	evaluator *game.Evaluator
	mutation  neural.MutationParams
	perf      *telemetry.PerfCollector
	hooks     []Hook

	population []neural.Genome
	generation int
	champion   Champion
	hasChamp   bool
}

// New validates cfg and samples the initial population.
func New(cfg *config.Config, opts Options) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(opts.Seed)),
		evaluator: game.NewEvaluator(cfg, opts.Seed),
		mutation: neural.MutationParams{
			Rate:  cfg.GA.MutationRate,
			Sigma: cfg.GA.MutationSigma,
			Min:   cfg.GA.GeneMin,
			Max:   cfg.GA.GeneMax,
		},
		perf: opts.Perf,
	}

	switch {
	case opts.Population != nil:
		if len(opts.Population) != cfg.GA.Population {
			return nil, fmt.Errorf("%w: seed population has %d genomes, ga.population is %d",
				config.ErrInvalid, len(opts.Population), cfg.GA.Population)
		}
		e.population = make([]neural.Genome, len(opts.Population))
		copy(e.population, opts.Population)
	default:
		e.population = make([]neural.Genome, cfg.GA.Population)
		for i := range e.population {
			e.population[i] = neural.RandomGenome(e.rng, cfg.GA.InitRange)
		}
	}

	return e, nil
}

// OnGeneration registers a hook. Hooks run in registration order.
func (e *Engine) OnGeneration(h Hook) {
	e.hooks = append(e.hooks, h)
}

// Population returns a copy of the current population.
func (e *Engine) Population() []neural.Genome {
	out := make([]neural.Genome, len(e.population))
	copy(out, e.population)
	return out
}

// Champion returns the best-ever genome, if any generation has been evaluated.
func (e *Engine) Champion() (Champion, bool) {
	return e.champion, e.hasChamp
}

// Generation returns the number of completed generations.
func (e *Engine) Generation() int { return e.generation }

// Workers returns the evaluation concurrency.
func (e *Engine) Workers() int { return e.evaluator.Workers() }

// Run executes the remaining generation budget and returns the champion.
func (e *Engine) Run(ctx context.Context) (Champion, error) {
	for e.generation < e.cfg.GA.Generations {
		if err := ctx.Err(); err != nil {
			return e.champion, fmt.Errorf("generation %d: %w", e.generation+1, err)
		}
		if err := e.step(ctx); err != nil {
			return e.champion, err
		}
	}
	return e.champion, nil
}

// step evaluates the current population, reports it, and breeds the next
// one unless the budget is exhausted.
func (e *Engine) step(ctx context.Context) error {
	gen := e.generation + 1
	e.perf.StartGeneration()

	e.perf.StartPhase(telemetry.PhaseEvaluate)
	results, err := e.evaluator.Evaluate(ctx, gen, e.population)
	if err != nil {
		return err
	}

	fitness := make([]float64, len(results))
	frames := 0
	for i, r := range results {
		fitness[i] = r.Fitness
		frames += r.Frames
	}
	e.perf.AddWork(len(results), frames)

	stats := telemetry.Summarize(gen, results)
	best := results[stats.BestIndex]
	improved := false
	if !e.hasChamp || best.Fitness > e.champion.Fitness {
		e.champion = Champion{
			Genome:     e.population[stats.BestIndex],
			Fitness:    best.Fitness,
			Frames:     best.Frames,
			Passed:     best.Passed,
			Generation: gen,
		}
		e.hasChamp = true
		improved = true
	}

	e.perf.StartPhase(telemetry.PhaseHooks)
	report := &GenerationReport{
		Generation: gen,
		Population: e.population,
		Results:    results,
		Stats:      stats,
		Champion:   e.champion,
		Improved:   improved,
	}
	for _, h := range e.hooks {
		if err := h(ctx, report); err != nil {
			return fmt.Errorf("generation %d hook: %w", gen, err)
		}
	}

	if gen < e.cfg.GA.Generations {
		e.perf.StartPhase(telemetry.PhaseBreed)
		e.population = NextGeneration(e.population, fitness, e.cfg.GA.Elites, e.rng, e.mutation)
	}

	e.generation = gen
	e.perf.EndGeneration()
	return nil
}

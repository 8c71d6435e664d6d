package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/game"
)

// GenerationStats summarises one evaluated generation. Only the first four
// fields are written to the statistics log.
type GenerationStats struct {
	Generation  int     `csv:"generation"`
	BestFitness float64 `csv:"best_fitness"`
	MeanFitness float64 `csv:"mean_fitness"` // rounded to 2 decimals
	BestPassed  int     `csv:"best_obstacles_passed"`

	BestIndex      int     `csv:"-"`
	StdFitness     float64 `csv:"-"`
	MedianFitness  float64 `csv:"-"`
	P90Fitness     float64 `csv:"-"`
	MeanFrames     float64 `csv:"-"`
	MaxPassed      int     `csv:"-"`
	GroundDeaths   int     `csv:"-"`
	CeilingDeaths  int     `csv:"-"`
	ObstacleDeaths int     `csv:"-"`
	CapDeaths      int     `csv:"-"`
}

// RoundTo rounds x to the given number of decimals.
func RoundTo(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}

// Summarize computes generation statistics from evaluation results.
// The best agent is the first one with maximal fitness.
func Summarize(generation int, results []game.Result) GenerationStats {
	s := GenerationStats{Generation: generation}
	n := len(results)
	if n == 0 {
		return s
	}

	fitness := make([]float64, n)
	frames := make([]float64, n)
	for i, r := range results {
		fitness[i] = r.Fitness
		frames[i] = float64(r.Frames)
		if r.Passed > s.MaxPassed {
			s.MaxPassed = r.Passed
		}
		switch r.Death {
		case components.DeathGround:
			s.GroundDeaths++
		case components.DeathCeiling:
			s.CeilingDeaths++
		case components.DeathObstacle:
			s.ObstacleDeaths++
		case components.DeathFrameCap:
			s.CapDeaths++
		}
	}

	s.BestIndex = floats.MaxIdx(fitness)
	s.BestFitness = fitness[s.BestIndex]
	s.BestPassed = results[s.BestIndex].Passed
	s.MeanFitness = RoundTo(stat.Mean(fitness, nil), 2)
	s.MeanFrames = stat.Mean(frames, nil)
	if n > 1 {
		s.StdFitness = stat.StdDev(fitness, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, fitness)
	sort.Float64s(sorted)
	s.MedianFitness = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.P90Fitness = stat.Quantile(0.9, stat.Empirical, sorted, nil)

	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Float64("best_fitness", s.BestFitness),
		slog.Float64("mean_fitness", s.MeanFitness),
		slog.Int("best_obstacles_passed", s.BestPassed),
		slog.Float64("std_fitness", s.StdFitness),
		slog.Float64("median_fitness", s.MedianFitness),
		slog.Float64("p90_fitness", s.P90Fitness),
		slog.Float64("mean_frames", s.MeanFrames),
		slog.Int("max_passed", s.MaxPassed),
	)
}

// LogStats logs the generation stats using slog.
func (s GenerationStats) LogStats() {
	slog.Info("generation",
		"generation", s.Generation,
		"best_fitness", s.BestFitness,
		"mean_fitness", s.MeanFitness,
		"best_obstacles_passed", s.BestPassed,
		"median_fitness", s.MedianFitness,
		"p90_fitness", s.P90Fitness,
		"mean_frames", int(s.MeanFrames),
		"deaths_ground", s.GroundDeaths,
		"deaths_ceiling", s.CeilingDeaths,
		"deaths_obstacle", s.ObstacleDeaths,
		"deaths_cap", s.CapDeaths,
	)
}

package main

import (
	"math"

	"github.com/pthm-cable/flappy/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Integer bool    // Rounded before use
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of GA hyperparameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "population", Path: "ga.population", Min: 10, Max: 200, Integer: true},
			{Name: "elites", Path: "ga.elites", Min: 0, Max: 10, Integer: true},
			{Name: "mutation_rate", Path: "ga.mutation_rate", Min: 0.05, Max: 1.0},
			{Name: "mutation_sigma", Path: "ga.mutation_sigma", Min: 0.05, Max: 2.0},
			{Name: "init_range", Path: "ga.init_range", Min: 0.5, Max: 5.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp bounds every value and rounds integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := math.Max(spec.Min, math.Min(spec.Max, v[i]))
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig writes clamped values into cfg. Elites are capped at the
// population size so the result always validates.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	cfg.GA.Population = int(c[0])
	cfg.GA.Elites = min(int(c[1]), cfg.GA.Population)
	cfg.GA.MutationRate = c[2]
	cfg.GA.MutationSigma = c[3]
	cfg.GA.InitRange = c[4]
}

// ExtractFromConfig reads the current parameter values from cfg, in Specs
// order.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		float64(cfg.GA.Population),
		float64(cfg.GA.Elites),
		cfg.GA.MutationRate,
		cfg.GA.MutationSigma,
		cfg.GA.InitRange,
	}
}

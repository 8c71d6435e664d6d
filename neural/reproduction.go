package neural

import (
	"fmt"
	"math/rand"
)

// MutationParams controls Mutate.
type MutationParams struct {
	Rate  float64 // Probability that the genome gets one gene perturbed
	Sigma float64 // Stddev of the gaussian perturbation
	Min   float64 // Lower gene bound after mutation
	Max   float64 // Upper gene bound after mutation
}

// RandomCut draws a crossover cut uniformly from [1, GenomeLength-1].
func RandomCut(rng *rand.Rand) int {
	return 1 + rng.Intn(GenomeLength-1)
}

// Crossover performs single-point crossover: genes [0, cut) come from p1,
// genes [cut, GenomeLength) from p2. Panics if cut is outside [1, GenomeLength-1].
func Crossover(p1, p2 Genome, cut int) Genome {
	if cut < 1 || cut > GenomeLength-1 {
		panic(fmt.Sprintf("neural: crossover cut %d outside [1, %d]", cut, GenomeLength-1))
	}
	child := p1
	copy(child[cut:], p2[cut:])
	return child
}

// Mutate perturbs at most one gene. With probability p.Rate a single random
// gene receives N(0, p.Sigma) noise and is clipped to [p.Min, p.Max].
// Returns the (possibly unchanged) genome and whether a mutation happened.
func Mutate(g Genome, rng *rand.Rand, p MutationParams) (Genome, bool) {
	if rng.Float64() >= p.Rate {
		return g, false
	}
	idx := rng.Intn(GenomeLength)
	w := g[idx] + rng.NormFloat64()*p.Sigma
	if w < p.Min {
		w = p.Min
	} else if w > p.Max {
		w = p.Max
	}
	g[idx] = w
	return g, true
}

// Breed produces one child from two parents: crossover at a random cut,
// then mutation.
func Breed(p1, p2 Genome, rng *rand.Rand, p MutationParams) Genome {
	child := Crossover(p1, p2, RandomCut(rng))
	child, _ = Mutate(child, rng, p)
	return child
}

package evolution

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/pthm-cable/flappy/neural"
)

// EliteIndices returns the indices of the n fittest genomes, best first.
// Equal fitness keeps the lower index first.
func EliteIndices(fitness []float64, n int) []int {
	idx := make([]int, len(fitness))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return fitness[idx[a]] > fitness[idx[b]]
	})
	if n > len(idx) {
		n = len(idx)
	}
	if n < 0 {
		n = 0
	}
	return idx[:n]
}

// Tournament runs one binary tournament over two distinct indices and
// returns the winner. The second draw wins ties.
func Tournament(fitness []float64, rng *rand.Rand) int {
	n := len(fitness)
	if n < 2 {
		panic(fmt.Sprintf("evolution: tournament needs 2 candidates, got %d", n))
	}
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	if fitness[i] > fitness[j] {
		return i
	}
	return j
}

// TournamentPool fills a breeding pool with one tournament winner per
// population slot. The same genome may win any number of draws.
func TournamentPool(pop []neural.Genome, fitness []float64, rng *rand.Rand) []neural.Genome {
	pool := make([]neural.Genome, len(pop))
	for k := range pool {
		pool[k] = pop[Tournament(fitness, rng)]
	}
	return pool
}

// NextGeneration assembles the following population: the elites unchanged,
// then children bred from random pairs of the tournament pool.
func NextGeneration(pop []neural.Genome, fitness []float64, elites int, rng *rand.Rand, mut neural.MutationParams) []neural.Genome {
	if len(pop) != len(fitness) {
		panic(fmt.Sprintf("evolution: %d genomes but %d fitness values", len(pop), len(fitness)))
	}
	if len(pop) < 2 {
		panic(fmt.Sprintf("evolution: population of %d cannot breed", len(pop)))
	}

	next := make([]neural.Genome, 0, len(pop))
	for _, i := range EliteIndices(fitness, elites) {
		next = append(next, pop[i])
	}

	pool := TournamentPool(pop, fitness, rng)
	for len(next) < len(pop) {
		p1 := pool[rng.Intn(len(pool))]
		p2 := pool[rng.Intn(len(pool))]
		next = append(next, neural.Breed(p1, p2, rng, mut))
	}
	return next
}

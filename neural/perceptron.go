// Package neural provides the fixed-topology linear perceptron that drives
// an agent, and the genetic operators over its weights.
package neural

import (
	"fmt"
	"math/rand"
)

// GenomeLength is the number of weights: one per sensor input plus a bias.
const GenomeLength = 3

// Genome holds perceptron weights [w_dx, w_dy, bias].
type Genome [GenomeLength]float64

// Inputs are the normalised sensor readings fed to the perceptron.
type Inputs struct {
	DX float64 // Horizontal distance to the next obstacle / screen width
	DY float64 // Vertical offset of the gap center from the agent / screen height
}

// RandomGenome samples each weight uniformly from [-scale, scale].
func RandomGenome(rng *rand.Rand, scale float64) Genome {
	var g Genome
	for i := range g {
		g[i] = (rng.Float64()*2 - 1) * scale
	}
	return g
}

// Forward computes the raw perceptron output. There is no activation.
func (g Genome) Forward(in Inputs) float64 {
	return g[0]*in.DX + g[1]*in.DY + g[2]
}

// Decide reports whether the agent should jump. The threshold is strict.
func (g Genome) Decide(in Inputs) bool {
	return g.Forward(in) > 0
}

// Clip bounds every weight to [lo, hi].
func (g Genome) Clip(lo, hi float64) Genome {
	for i, w := range g {
		if w < lo {
			g[i] = lo
		} else if w > hi {
			g[i] = hi
		}
	}
	return g
}

// InBounds reports whether every weight lies in [lo, hi].
func (g Genome) InBounds(lo, hi float64) bool {
	for _, w := range g {
		if w < lo || w > hi {
			return false
		}
	}
	return true
}

func (g Genome) String() string {
	return fmt.Sprintf("[%.4f %.4f %.4f]", g[0], g[1], g[2])
}

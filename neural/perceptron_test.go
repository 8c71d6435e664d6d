package neural

import (
	"math"
	"math/rand"
	"testing"
)

func TestForward(t *testing.T) {
	tests := []struct {
		name string
		g    Genome
		in   Inputs
		want float64
	}{
		{"zero genome", Genome{0, 0, 0}, Inputs{DX: 0.5, DY: -0.2}, 0},
		{"bias only", Genome{0, 0, 1.5}, Inputs{DX: 0.5, DY: -0.2}, 1.5},
		{"weighted", Genome{2, -1, 0.5}, Inputs{DX: 0.25, DY: 0.1}, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.g.Forward(tt.in)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Forward = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecideStrictThreshold(t *testing.T) {
	if (Genome{0, 0, 0}).Decide(Inputs{DX: 1, DY: 1}) {
		t.Error("zero output must not jump")
	}
	if !(Genome{0, 0, 1e-9}).Decide(Inputs{}) {
		t.Error("positive output must jump")
	}
	if (Genome{0, 0, -1}).Decide(Inputs{}) {
		t.Error("negative output must not jump")
	}
}

func TestRandomGenomeRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		g := RandomGenome(rng, 2.5)
		if !g.InBounds(-2.5, 2.5) {
			t.Fatalf("initial genome out of range: %v", g)
		}
	}
}

func TestClip(t *testing.T) {
	g := Genome{-7, 3, 12}.Clip(-5, 5)
	if g != (Genome{-5, 3, 5}) {
		t.Errorf("Clip = %v", g)
	}
}

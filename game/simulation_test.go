package game

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/neural"
)

// framesToGround returns how many frames a non-jumping agent survives when
// dropped from rest at startY under constant gravity.
func framesToGround(cfg *config.Config) int {
	y, vy := cfg.Derived.StartY, 0.0
	for n := 1; ; n++ {
		vy += cfg.Physics.Gravity
		y += vy
		if y+cfg.Agent.Size >= cfg.Derived.GroundY {
			return n
		}
	}
}

func TestZeroGenomeFallsToGround(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(42))

	res := NewSimulation(cfg, neural.Genome{0, 0, 0}, rng, Options{}).Run()

	want := framesToGround(cfg)
	if want != 22 {
		t.Fatalf("framesToGround = %d, expected 22 for the default tuning", want)
	}
	if res.Death != components.DeathGround {
		t.Errorf("death = %v, want ground", res.Death)
	}
	if res.Passed != 0 {
		t.Errorf("passed = %d, want 0", res.Passed)
	}
	if res.Frames != want {
		t.Errorf("frames = %d, want %d", res.Frames, want)
	}
	if res.Fitness != float64(want) {
		t.Errorf("fitness = %v, want %d", res.Fitness, want)
	}
}

func TestAlwaysJumpDiesAtCeiling(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(42))

	// Output is the bias alone: always positive.
	res := NewSimulation(cfg, neural.Genome{0, 0, 1}, rng, Options{}).Run()

	if res.Death != components.DeathCeiling {
		t.Fatalf("death = %v, want ceiling", res.Death)
	}
	// Rises 14px per frame from y=300: the top reaches 0 on frame 22.
	if res.Frames != 22 {
		t.Errorf("frames = %d, want 22", res.Frames)
	}
	if res.Frames > 50 {
		t.Errorf("took %d frames, expected a small bound", res.Frames)
	}
}

func TestAlwaysJumpSurvivesCeilingWithClamp(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(42))

	sim := NewSimulation(cfg, neural.Genome{0, 0, 1}, rng, Options{Ceiling: config.CeilingClamp})
	for i := 0; i < 60; i++ {
		sim.Step()
	}
	a := sim.Agent()
	if !a.Alive {
		t.Fatalf("clamp policy agent died: %v", a.Death)
	}
	if a.Body.Y != 0 || a.VY != 0 {
		t.Errorf("agent not pinned to ceiling: Y=%v VY=%v", a.Body.Y, a.VY)
	}
}

func TestFrameCap(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(42))

	res := NewSimulation(cfg, neural.Genome{0, 0, 0}, rng, Options{MaxFrames: 10}).Run()

	if res.Death != components.DeathFrameCap {
		t.Errorf("death = %v, want frame_cap", res.Death)
	}
	if res.Frames != 10 || res.Fitness != 10 {
		t.Errorf("frames=%d fitness=%v, want 10/10", res.Frames, res.Fitness)
	}
}

func TestFitnessFormula(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		g := neural.RandomGenome(rng, 2.5)
		res := NewSimulation(cfg, g, rand.New(rand.NewSource(int64(i))), Options{MaxFrames: 5000}).Run()

		want := float64(res.Frames) + float64(res.Passed)*cfg.Simulation.PassBonus
		if res.Fitness != want {
			t.Fatalf("genome %v: fitness %v != frames %d + passed %d * bonus", g, res.Fitness, res.Frames, res.Passed)
		}
		if res.Fitness < 0 {
			t.Fatalf("negative fitness %v", res.Fitness)
		}
		if res.Death == components.DeathNone {
			t.Fatalf("terminated life has no death cause")
		}
	}
}

func TestSpawnOnStart(t *testing.T) {
	cfg := config.Default()
	sim := NewSimulation(cfg, neural.Genome{}, rand.New(rand.NewSource(42)), Options{})
	if len(sim.Obstacles()) != 1 {
		t.Errorf("expected one pre-spawned obstacle, got %d", len(sim.Obstacles()))
	}

	cfg = cfg.Clone()
	cfg.Obstacle.SpawnOnStart = false
	sim = NewSimulation(cfg, neural.Genome{}, rand.New(rand.NewSource(42)), Options{})
	if len(sim.Obstacles()) != 0 {
		t.Errorf("expected no obstacles, got %d", len(sim.Obstacles()))
	}
	// Without a target the genome cannot act, whatever its bias.
	sim = NewSimulation(cfg, neural.Genome{0, 0, 5}, rand.New(rand.NewSource(42)), Options{})
	sim.Step()
	if sim.LastDecision().HasTarget || sim.Agent().VY != cfg.Physics.Gravity {
		t.Errorf("agent acted without an upcoming obstacle")
	}
}

func TestManualJumpAndEvents(t *testing.T) {
	cfg := config.Default()
	sim := NewSimulation(cfg, neural.Genome{0, 0, 5}, rand.New(rand.NewSource(42)), Options{
		Manual:  true,
		Ceiling: cfg.Manual.Ceiling,
		Events:  true,
	})

	// Genome is ignored in manual mode.
	sim.Step()
	if sim.Agent().VY != 1 {
		t.Fatalf("manual agent jumped without input: VY=%v", sim.Agent().VY)
	}

	sim.RequestJump()
	sim.Step()
	if sim.Agent().VY != -14 {
		t.Fatalf("requested jump not applied: VY=%v", sim.Agent().VY)
	}

	events := sim.Drain()
	if len(events) != 1 || events[0].Kind != EventJump || events[0].Frame != 1 {
		t.Errorf("events = %+v, want one jump recorded at frame 1", events)
	}
	if len(sim.Drain()) != 0 {
		t.Error("Drain did not clear the buffer")
	}

	for sim.Step() {
	}
	events = sim.Drain()
	if len(events) == 0 || events[len(events)-1].Kind != EventDeath {
		t.Errorf("last event = %+v, want death", events)
	}
}

func TestScore(t *testing.T) {
	cfg := config.Default()
	sim := NewSimulation(cfg, neural.Genome{}, rand.New(rand.NewSource(42)), Options{})
	for i := 0; i < 5; i++ {
		sim.Step()
	}
	if got := sim.Score(cfg.Manual.PassScore); got != 5 {
		t.Errorf("Score = %d, want 5", got)
	}
}

func TestStepAfterDeathIsNoop(t *testing.T) {
	cfg := config.Default()
	sim := NewSimulation(cfg, neural.Genome{}, rand.New(rand.NewSource(42)), Options{})
	res := sim.Run()
	if sim.Step() {
		t.Fatal("Step reported alive after death")
	}
	if sim.Result() != res {
		t.Errorf("state changed after death: %+v -> %+v", res, sim.Result())
	}
}

func BenchmarkSimulationRun(b *testing.B) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(42))
	genomes := make([]neural.Genome, 64)
	for i := range genomes {
		genomes[i] = neural.RandomGenome(rng, 2.5)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g := genomes[i%len(genomes)]
		NewSimulation(cfg, g, rand.New(rand.NewSource(int64(i))), Options{}).Run()
	}
}

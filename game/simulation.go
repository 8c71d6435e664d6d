// Package game runs single agent lives headlessly and evaluates populations
// of genomes in parallel.
package game

import (
	"math/rand"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/systems"
)

// Options adjusts a Simulation away from the training defaults.
type Options struct {
	Ceiling   config.CeilingPolicy // Empty = simulation.ceiling
	MaxFrames int                  // 0 = simulation.max_frames
	Manual    bool                 // Jumps come from RequestJump, not the genome
	Events    bool                 // Record per-frame events for Drain
}

// Decision captures the last perceptron evaluation, for inspection.
type Decision struct {
	HasTarget bool
	Inputs    neural.Inputs
	Output    float64
	Jumped    bool
}

// Simulation is the complete state of one agent life. Nothing in it is
// shared, so independent simulations can run concurrently.
type Simulation struct {
	cfg *config.Config
	rng *rand.Rand

	agent     components.Agent
	obstacles []components.Obstacle

	physics    *systems.PhysicsSystem
	field      *systems.ObstacleSystem
	difficulty systems.Difficulty

	maxFrames int
	manual    bool
	jumpReq   bool
	speed     float64
	decision  Decision

	recordEvents bool
	events       []Event
}

// NewSimulation creates a fresh life for genome g.
func NewSimulation(cfg *config.Config, g neural.Genome, rng *rand.Rand, opts Options) *Simulation {
	ceiling := opts.Ceiling
	if ceiling == "" {
		ceiling = cfg.Simulation.Ceiling
	}
	maxFrames := opts.MaxFrames
	if maxFrames <= 0 {
		maxFrames = cfg.Simulation.MaxFrames
	}

	s := &Simulation{
		cfg:          cfg,
		rng:          rng,
		agent:        components.NewAgent(cfg.Agent.StartX, cfg.Derived.StartY, cfg.Agent.Size, g),
		obstacles:    make([]components.Obstacle, 0, 8),
		physics:      systems.NewPhysicsSystem(cfg, ceiling),
		field:        systems.NewObstacleSystem(cfg),
		difficulty:   systems.NewDifficulty(cfg),
		maxFrames:    maxFrames,
		manual:       opts.Manual,
		recordEvents: opts.Events,
	}
	s.speed = s.difficulty.Speed(0)

	if cfg.Obstacle.SpawnOnStart {
		s.obstacles = append(s.obstacles, s.field.Spawn(rng))
	}
	return s
}

// Step advances one frame: speed, decision, physics, spawn, then obstacles.
// Returns whether the agent is still alive.
func (s *Simulation) Step() bool {
	a := &s.agent
	if !a.Alive {
		return false
	}

	s.speed = s.difficulty.Speed(a.Passed)

	if s.decide() {
		s.physics.Jump(a)
		s.emit(EventJump)
	}

	s.physics.Update(a)

	if s.field.Tick() {
		s.obstacles = append(s.obstacles, s.field.Spawn(s.rng))
	}

	var passed int
	s.obstacles, passed = s.field.Update(a, s.obstacles, s.speed)
	for i := 0; i < passed; i++ {
		s.emit(EventPass)
	}

	if a.Alive && a.Frames >= s.maxFrames {
		a.Kill(components.DeathFrameCap)
	}
	if !a.Alive {
		s.emit(EventDeath)
	}
	return a.Alive
}

// decide reports whether the agent jumps this frame.
func (s *Simulation) decide() bool {
	if s.manual {
		jump := s.jumpReq
		s.jumpReq = false
		s.decision = Decision{Jumped: jump}
		return jump
	}

	idx := systems.NextObstacle(s.agent.Body, s.obstacles)
	if idx < 0 {
		s.decision = Decision{}
		return false
	}
	in := systems.Sense(s.agent.Body, s.obstacles[idx], s.cfg.Derived.ScreenW, s.cfg.Derived.ScreenH)
	out := s.agent.Genome.Forward(in)
	s.decision = Decision{HasTarget: true, Inputs: in, Output: out, Jumped: out > 0}
	return out > 0
}

// Run steps until the agent dies or the frame cap is reached.
func (s *Simulation) Run() Result {
	for s.Step() {
	}
	return s.Result()
}

// Result summarises the life so far.
func (s *Simulation) Result() Result {
	return Result{
		Fitness: Fitness(s.agent.Frames, s.agent.Passed, s.cfg.Simulation.PassBonus),
		Frames:  s.agent.Frames,
		Passed:  s.agent.Passed,
		Death:   s.agent.Death,
	}
}

// RequestJump queues a jump for the next Step in manual mode.
func (s *Simulation) RequestJump() {
	s.jumpReq = true
}

// Alive reports whether the agent is still alive.
func (s *Simulation) Alive() bool { return s.agent.Alive }

// Agent returns a copy of the agent state.
func (s *Simulation) Agent() components.Agent { return s.agent }

// Obstacles returns the live obstacles in spawn order. The slice is owned
// by the simulation and is only valid until the next Step.
func (s *Simulation) Obstacles() []components.Obstacle { return s.obstacles }

// Speed returns the scroll speed used by the last frame.
func (s *Simulation) Speed() float64 { return s.speed }

// LastDecision returns the most recent perceptron evaluation.
func (s *Simulation) LastDecision() Decision { return s.decision }

// Score returns frames survived plus passScore per obstacle passed, the
// scoring used by the interactive game.
func (s *Simulation) Score(passScore int) int {
	return s.agent.Frames + s.agent.Passed*passScore
}

func (s *Simulation) emit(kind EventKind) {
	if !s.recordEvents {
		return
	}
	s.events = append(s.events, Event{Kind: kind, Frame: s.agent.Frames})
}

// Drain returns events recorded since the last call and clears the buffer.
func (s *Simulation) Drain() []Event {
	ev := s.events
	s.events = nil
	return ev
}

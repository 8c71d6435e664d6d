// Package systems contains the per-frame game rules: speed schedule,
// agent motion, obstacle lifecycle, and sensing.
package systems

import (
	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
)

// PhysicsSystem integrates agent motion and applies playfield bounds.
type PhysicsSystem struct {
	gravity float64
	jump    float64
	groundY float64
	ceiling config.CeilingPolicy
}

// NewPhysicsSystem creates a physics system with the given ceiling policy.
func NewPhysicsSystem(cfg *config.Config, ceiling config.CeilingPolicy) *PhysicsSystem {
	return &PhysicsSystem{
		gravity: cfg.Physics.Gravity,
		jump:    cfg.Physics.JumpImpulse,
		groundY: cfg.Derived.GroundY,
		ceiling: ceiling,
	}
}

// Ceiling returns the active ceiling policy.
func (s *PhysicsSystem) Ceiling() config.CeilingPolicy {
	return s.ceiling
}

// Jump sets the agent's vertical velocity to the jump impulse.
func (s *PhysicsSystem) Jump(a *components.Agent) {
	a.VY = s.jump
}

// Update advances one frame: gravity, position, survival counter, then
// ceiling and ground checks.
func (s *PhysicsSystem) Update(a *components.Agent) {
	a.VY += s.gravity
	a.Body = a.Body.Translate(0, a.VY)
	a.Frames++

	if a.Body.Top() <= 0 {
		a.Body.Y = 0
		switch s.ceiling {
		case config.CeilingKill:
			a.Kill(components.DeathCeiling)
		default:
			a.VY = 0
		}
	}

	if a.Body.Bottom() >= s.groundY {
		a.Body = a.Body.SetBottom(s.groundY)
		a.Kill(components.DeathGround)
	}
}

package systems

import (
	"testing"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/neural"
)

func newTestAgent(cfg *config.Config) components.Agent {
	return components.NewAgent(cfg.Agent.StartX, cfg.Derived.StartY, cfg.Agent.Size, neural.Genome{})
}

func TestPhysicsGravity(t *testing.T) {
	cfg := config.Default()
	ps := NewPhysicsSystem(cfg, config.CeilingKill)
	a := newTestAgent(cfg)

	ps.Update(&a)
	if a.VY != 1 || a.Body.Y != 301 || a.Frames != 1 {
		t.Errorf("after one frame: VY=%v Y=%v Frames=%d", a.VY, a.Body.Y, a.Frames)
	}
	ps.Update(&a)
	if a.VY != 2 || a.Body.Y != 303 || a.Frames != 2 {
		t.Errorf("after two frames: VY=%v Y=%v Frames=%d", a.VY, a.Body.Y, a.Frames)
	}
}

func TestPhysicsJumpVisibleSameFrame(t *testing.T) {
	cfg := config.Default()
	ps := NewPhysicsSystem(cfg, config.CeilingKill)
	a := newTestAgent(cfg)

	ps.Jump(&a)
	ps.Update(&a)
	// -15 impulse plus one frame of gravity
	if a.VY != -14 || a.Body.Y != 286 {
		t.Errorf("after jump: VY=%v Y=%v, want -14 and 286", a.VY, a.Body.Y)
	}
}

func TestPhysicsGround(t *testing.T) {
	cfg := config.Default()
	ps := NewPhysicsSystem(cfg, config.CeilingKill)
	a := newTestAgent(cfg)

	for a.Alive && a.Frames < 1000 {
		ps.Update(&a)
	}
	if a.Death != components.DeathGround {
		t.Fatalf("death = %v, want ground", a.Death)
	}
	if a.Body.Bottom() != cfg.Derived.GroundY {
		t.Errorf("bottom = %v, want clamped to %v", a.Body.Bottom(), cfg.Derived.GroundY)
	}
}

func TestPhysicsCeilingPolicies(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		policy    config.CeilingPolicy
		wantAlive bool
		wantDeath components.DeathCause
	}{
		{config.CeilingKill, false, components.DeathCeiling},
		{config.CeilingClamp, true, components.DeathNone},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			ps := NewPhysicsSystem(cfg, tt.policy)
			a := newTestAgent(cfg)
			a.Body.Y = 5

			ps.Jump(&a)
			ps.Update(&a)

			if a.Alive != tt.wantAlive || a.Death != tt.wantDeath {
				t.Errorf("alive=%v death=%v, want alive=%v death=%v", a.Alive, a.Death, tt.wantAlive, tt.wantDeath)
			}
			if a.Body.Y != 0 {
				t.Errorf("Y = %v, want clamped to 0", a.Body.Y)
			}
			if tt.policy == config.CeilingClamp && a.VY != 0 {
				t.Errorf("clamp policy left VY = %v", a.VY)
			}
		})
	}
}

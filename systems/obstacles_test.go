package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
)

func TestSpawnGeometry(t *testing.T) {
	cfg := config.Default()
	osys := NewObstacleSystem(cfg)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		o := osys.Spawn(rng)
		if o.Gap() != cfg.Obstacle.Gap {
			t.Fatalf("gap = %v, want %v", o.Gap(), cfg.Obstacle.Gap)
		}
		c := o.GapCenterY()
		if c < 100 || c > 470 {
			t.Fatalf("gap center %v outside [100, 470]", c)
		}
		if o.Top.X != 800 || o.Top.W != 50 || o.Bottom.W != 50 {
			t.Fatalf("unexpected pillar placement: %+v", o)
		}
		if o.Bottom.Bottom() != cfg.Derived.GroundY {
			t.Fatalf("bottom pillar ends at %v, want ground %v", o.Bottom.Bottom(), cfg.Derived.GroundY)
		}
	}
}

func TestSpawnIDsIncrease(t *testing.T) {
	osys := NewObstacleSystem(config.Default())
	a := osys.NewPair(300)
	b := osys.NewPair(300)
	if b.ID <= a.ID {
		t.Errorf("IDs not increasing: %d then %d", a.ID, b.ID)
	}
}

func TestTickCadence(t *testing.T) {
	osys := NewObstacleSystem(config.Default())
	var spawnFrames []int
	for f := 1; f <= 270; f++ {
		if osys.Tick() {
			spawnFrames = append(spawnFrames, f)
		}
	}
	want := []int{90, 180, 270}
	if len(spawnFrames) != len(want) {
		t.Fatalf("spawn frames = %v, want %v", spawnFrames, want)
	}
	for i := range want {
		if spawnFrames[i] != want[i] {
			t.Errorf("spawn frames = %v, want %v", spawnFrames, want)
		}
	}
}

func TestPassedFlipsOnce(t *testing.T) {
	cfg := config.Default()
	osys := NewObstacleSystem(cfg)
	a := newTestAgent(cfg)

	// Gap aligned with the agent so it never collides.
	obs := []components.Obstacle{osys.NewPair(a.Body.CenterY())}

	transitions := 0
	wasPassed := false
	for frame := 0; frame < 400 && len(obs) > 0; frame++ {
		var n int
		obs, n = osys.Update(&a, obs, 5)
		transitions += n
		if len(obs) > 0 {
			if wasPassed && !obs[0].Passed {
				t.Fatal("passed flag reverted to false")
			}
			wasPassed = obs[0].Passed
		}
	}

	if transitions != 1 {
		t.Errorf("passed transitions = %d, want 1", transitions)
	}
	if a.Passed != 1 {
		t.Errorf("agent.Passed = %d, want 1", a.Passed)
	}
	if !a.Alive {
		t.Errorf("agent died (%v) flying through the gap", a.Death)
	}
	if len(obs) != 0 {
		t.Errorf("obstacle not pruned after leaving the screen")
	}
}

func TestUpdateCollision(t *testing.T) {
	cfg := config.Default()
	osys := NewObstacleSystem(cfg)
	a := newTestAgent(cfg)

	// Gap far below the agent: it will hit the top pillar.
	o := osys.NewPair(450)
	o.Shift(a.Body.Right() - o.Top.Left() + 2) // one step from contact

	obs, _ := osys.Update(&a, []components.Obstacle{o}, 5)
	if a.Alive || a.Death != components.DeathObstacle {
		t.Errorf("alive=%v death=%v, want obstacle death", a.Alive, a.Death)
	}
	if len(obs) != 1 {
		t.Errorf("colliding obstacle should remain live")
	}
}

func TestUpdatePruneBoundary(t *testing.T) {
	cfg := config.Default()
	osys := NewObstacleSystem(cfg)
	a := newTestAgent(cfg)

	o := osys.NewPair(a.Body.CenterY())
	o.Shift(-(o.Top.X + o.Top.W)) // right edge at exactly 0

	obs, _ := osys.Update(&a, []components.Obstacle{o}, 0)
	if len(obs) != 1 {
		t.Fatal("obstacle with right edge at 0 should not be pruned yet")
	}
	obs, _ = osys.Update(&a, obs, 1)
	if len(obs) != 0 {
		t.Error("obstacle with right edge below 0 should be pruned")
	}
}

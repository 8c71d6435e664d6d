package systems

import (
	"math/rand"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
)

// ObstacleSystem spawns, scrolls, collides, scores, and prunes pillar pairs.
type ObstacleSystem struct {
	spawnX    float64
	width     float64
	gapHalf   float64
	groundY   float64
	centerMin int
	centerMax int
	interval  int

	timer  int
	nextID uint32
}

// NewObstacleSystem creates an obstacle system from config.
func NewObstacleSystem(cfg *config.Config) *ObstacleSystem {
	playable := cfg.Screen.Height - int(cfg.World.GroundHeight)
	return &ObstacleSystem{
		spawnX:    cfg.Derived.ScreenW,
		width:     cfg.Obstacle.PipeWidth,
		gapHalf:   cfg.Derived.GapHalf,
		groundY:   cfg.Derived.GroundY,
		centerMin: cfg.Obstacle.GapMargin,
		centerMax: playable - cfg.Obstacle.GapMargin,
		interval:  cfg.Obstacle.SpawnInterval,
	}
}

// NewPair builds a pillar pair at the right screen edge whose gap is
// centered on centerY.
func (s *ObstacleSystem) NewPair(centerY float64) components.Obstacle {
	s.nextID++
	topH := centerY - s.gapHalf
	bottomY := centerY + s.gapHalf
	return components.Obstacle{
		ID:     s.nextID,
		Top:    components.NewRect(s.spawnX, 0, s.width, topH),
		Bottom: components.NewRect(s.spawnX, bottomY, s.width, s.groundY-bottomY),
	}
}

// Spawn builds a pillar pair with a gap center drawn uniformly from the
// configured integer range (inclusive).
func (s *ObstacleSystem) Spawn(rng *rand.Rand) components.Obstacle {
	center := s.centerMin + rng.Intn(s.centerMax-s.centerMin+1)
	return s.NewPair(float64(center))
}

// Tick advances the spawn timer and reports whether a pair is due.
func (s *ObstacleSystem) Tick() bool {
	s.timer++
	if s.timer >= s.interval {
		s.timer = 0
		return true
	}
	return false
}

// Update scrolls every obstacle left by speed, kills the agent on contact,
// scores obstacles the agent has cleared, and drops pairs that left the
// screen. It compacts obs in place and returns the live slice and the
// number of obstacles passed this frame.
func (s *ObstacleSystem) Update(a *components.Agent, obs []components.Obstacle, speed float64) ([]components.Obstacle, int) {
	passed := 0
	live := obs[:0]
	for i := range obs {
		o := obs[i]
		o.Shift(-speed)

		if o.Collides(a.Body) {
			a.Kill(components.DeathObstacle)
		}

		if a.Body.Left() > o.Top.Right() && o.MarkPassed() {
			a.Passed++
			passed++
		}

		if o.OffScreen() {
			continue
		}
		live = append(live, o)
	}
	return live, passed
}

package components

import "github.com/pthm-cable/flappy/neural"

// DeathCause records how a life ended.
type DeathCause uint8

const (
	DeathNone DeathCause = iota
	DeathGround
	DeathCeiling
	DeathObstacle
	DeathFrameCap
)

func (d DeathCause) String() string {
	switch d {
	case DeathNone:
		return "none"
	case DeathGround:
		return "ground"
	case DeathCeiling:
		return "ceiling"
	case DeathObstacle:
		return "obstacle"
	case DeathFrameCap:
		return "frame_cap"
	}
	return "unknown"
}

// Agent is one simulated life: body, motion, genome, and counters.
type Agent struct {
	Body   Rect          `inspect:"skip"`
	VY     float64       `inspect:"label,fmt:%+.1f"` // vertical velocity, positive = down
	Genome neural.Genome `inspect:"skip"`
	Alive  bool          `inspect:"bool"`
	Frames int           `inspect:"label"` // frames survived
	Passed int           `inspect:"label"` // obstacles passed
	Death  DeathCause    `inspect:"label"`
}

// NewAgent places a fresh agent at (x, y) with the given genome.
func NewAgent(x, y, size float64, g neural.Genome) Agent {
	return Agent{
		Body:   NewRect(x, y, size, size),
		Genome: g,
		Alive:  true,
	}
}

// Kill marks the agent dead. The first cause wins.
func (a *Agent) Kill(cause DeathCause) {
	if !a.Alive {
		return
	}
	a.Alive = false
	a.Death = cause
}

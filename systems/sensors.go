package systems

import (
	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/neural"
)

// NextObstacle returns the index of the first obstacle whose bottom pillar
// still extends past the agent's left edge, or -1 if none does.
// obs must be in spawn order (left to right).
func NextObstacle(agent components.Rect, obs []components.Obstacle) int {
	for i := range obs {
		if obs[i].Bottom.Right() > agent.Left() {
			return i
		}
	}
	return -1
}

// Sense computes the normalised perceptron inputs for the agent relative
// to obstacle o.
func Sense(agent components.Rect, o components.Obstacle, screenW, screenH float64) neural.Inputs {
	return neural.Inputs{
		DX: (o.Top.Left() - agent.Right()) / screenW,
		DY: (o.GapCenterY() - agent.CenterY()) / screenH,
	}
}

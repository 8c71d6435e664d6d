package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
)

func TestNextObstacle(t *testing.T) {
	cfg := config.Default()
	osys := NewObstacleSystem(cfg)
	agent := components.NewRect(50, 300, 30, 30)

	behind := osys.NewPair(300)
	behind.Shift(-800) // right edge at 50, level with the agent's left edge
	ahead := osys.NewPair(300)
	ahead.Shift(-500)
	farther := osys.NewPair(300)

	tests := []struct {
		name string
		obs  []components.Obstacle
		want int
	}{
		{"empty", nil, -1},
		{"only behind", []components.Obstacle{behind}, -1},
		{"skips behind", []components.Obstacle{behind, ahead, farther}, 1},
		{"first upcoming", []components.Obstacle{ahead, farther}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextObstacle(agent, tt.obs); got != tt.want {
				t.Errorf("NextObstacle = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSense(t *testing.T) {
	cfg := config.Default()
	osys := NewObstacleSystem(cfg)
	agent := components.NewRect(50, 300, 30, 30)
	o := osys.NewPair(400)

	in := Sense(agent, o, cfg.Derived.ScreenW, cfg.Derived.ScreenH)

	wantDX := (800.0 - 80.0) / 800.0
	wantDY := (400.0 - 315.0) / 600.0
	if math.Abs(in.DX-wantDX) > 1e-12 {
		t.Errorf("DX = %v, want %v", in.DX, wantDX)
	}
	if math.Abs(in.DY-wantDY) > 1e-12 {
		t.Errorf("DY = %v, want %v", in.DY, wantDY)
	}
}

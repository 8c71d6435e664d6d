// Package playback drives a visible simulation one frame at a time through
// a rendering backend.
package playback

import (
	"fmt"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/game"
	"github.com/pthm-cable/flappy/scene"
)

// Mode selects who controls the agent.
type Mode uint8

const (
	ModeAuto   Mode = iota // the genome decides
	ModeManual             // the player decides
)

func (m Mode) String() string {
	if m == ModeManual {
		return "manual"
	}
	return "auto"
}

// View is everything a backend needs to draw one frame.
type View struct {
	Scene    *scene.Scene
	Mode     Mode
	Agent    components.Agent
	Decision game.Decision

	Score      int
	Fitness    float64
	Generation int
	Speed      float64

	GameOver bool
}

// HUD returns the overlay text lines, top to bottom.
func (v View) HUD() []string {
	if v.Mode == ModeManual {
		return []string{
			fmt.Sprintf("Score: %d", v.Score),
			fmt.Sprintf("Speed: %.1f", v.Speed),
		}
	}
	lines := []string{
		fmt.Sprintf("Fitness: %.0f", v.Fitness),
		fmt.Sprintf("Passed: %d", v.Agent.Passed),
	}
	if v.Generation > 0 {
		lines = append(lines, fmt.Sprintf("Generation: %d", v.Generation))
	}
	return append(lines, fmt.Sprintf("Speed: %.1f", v.Speed))
}

// Banner returns the game-over message, or "" while the life continues.
func (v View) Banner() string {
	if !v.GameOver {
		return ""
	}
	if v.Mode == ModeManual {
		return fmt.Sprintf("Game over! Score: %d. Press R to restart or Q to quit", v.Score)
	}
	return fmt.Sprintf("Agent finished (%s) with fitness %.0f. Press Q to quit", v.Agent.Death, v.Fitness)
}

// Input is what the player did during the last presented frame.
type Input struct {
	Jump    bool
	Restart bool
	Quit    bool
}

// Backend draws views and reports input. Present blocks until the next
// frame is due.
type Backend interface {
	Present(v View) (Input, error)
	Close() error
}

// Sounds plays feedback for simulation events.
type Sounds interface {
	Play(kind game.EventKind)
}

type silent struct{}

func (silent) Play(game.EventKind) {}

package game

import (
	"log/slog"

	"github.com/pthm-cable/flappy/components"
)

// EventKind identifies something that happened during a frame.
type EventKind uint8

const (
	EventJump EventKind = iota
	EventPass
	EventDeath
)

func (k EventKind) String() string {
	switch k {
	case EventJump:
		return "jump"
	case EventPass:
		return "pass"
	case EventDeath:
		return "death"
	}
	return "unknown"
}

// Event is a frame-stamped occurrence recorded for playback feedback.
type Event struct {
	Kind  EventKind
	Frame int
}

// Result is the outcome of one life.
type Result struct {
	Fitness float64
	Frames  int
	Passed  int
	Death   components.DeathCause
}

// Fitness combines survival time and obstacles cleared.
func Fitness(frames, passed int, passBonus float64) float64 {
	return float64(frames) + float64(passed)*passBonus
}

// LogValue implements slog.LogValuer for structured logging.
func (r Result) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("fitness", r.Fitness),
		slog.Int("frames", r.Frames),
		slog.Int("passed", r.Passed),
		slog.String("death", r.Death.String()),
	)
}

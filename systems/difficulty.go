package systems

import (
	"math"

	"github.com/pthm-cable/flappy/config"
)

// Difficulty maps obstacles passed to horizontal scroll speed.
type Difficulty struct {
	Base      float64
	Every     int
	Increment float64
	Max       float64
}

// NewDifficulty reads the speed schedule from config.
func NewDifficulty(cfg *config.Config) Difficulty {
	d := cfg.Difficulty
	return Difficulty{
		Base:      d.BaseSpeed,
		Every:     d.IncrementEvery,
		Increment: d.Increment,
		Max:       d.MaxSpeed,
	}
}

// Speed returns base + floor(passed/every)*increment, capped at Max.
func (d Difficulty) Speed(passed int) float64 {
	if passed < 0 {
		passed = 0
	}
	steps := passed / d.Every
	return math.Min(d.Base+float64(steps)*d.Increment, d.Max)
}

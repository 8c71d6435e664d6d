package systems

import (
	"testing"

	"github.com/pthm-cable/flappy/config"
)

func TestDifficultySpeed(t *testing.T) {
	d := NewDifficulty(config.Default())

	tests := []struct {
		passed int
		want   float64
	}{
		{0, 5.0},
		{9, 5.0},
		{10, 5.5},
		{19, 5.5},
		{20, 6.0},
		{199, 14.5},
		{200, 15.0},
		{100, 10.0},
		{1000, 15.0},
	}

	for _, tt := range tests {
		if got := d.Speed(tt.passed); got != tt.want {
			t.Errorf("Speed(%d) = %v, want %v", tt.passed, got, tt.want)
		}
	}
}

func TestDifficultyCappedExample(t *testing.T) {
	// A tighter schedule where 100 passes already exceeds the cap.
	d := Difficulty{Base: 5, Every: 5, Increment: 1, Max: 15}
	if got := d.Speed(100); got != 15.0 {
		t.Errorf("Speed(100) = %v, want capped 15", got)
	}
}

func TestDifficultyMonotonic(t *testing.T) {
	d := NewDifficulty(config.Default())
	prev := d.Speed(0)
	for n := 1; n <= 1000; n++ {
		s := d.Speed(n)
		if s < prev {
			t.Fatalf("Speed decreased at %d: %v < %v", n, s, prev)
		}
		if s > d.Max {
			t.Fatalf("Speed(%d) = %v exceeds cap %v", n, s, d.Max)
		}
		prev = s
	}
}

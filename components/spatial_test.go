package components

import (
	"math/rand"
	"testing"
)

func TestRectEdges(t *testing.T) {
	r := NewRect(50, 300, 30, 30)

	if r.Left() != 50 || r.Right() != 80 {
		t.Errorf("horizontal edges = (%v, %v), want (50, 80)", r.Left(), r.Right())
	}
	if r.Top() != 300 || r.Bottom() != 330 {
		t.Errorf("vertical edges = (%v, %v), want (300, 330)", r.Top(), r.Bottom())
	}
	if r.CenterY() != 315 {
		t.Errorf("CenterY = %v, want 315", r.CenterY())
	}
}

func TestRectOverlaps(t *testing.T) {
	base := NewRect(0, 0, 10, 10)

	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"identical", NewRect(0, 0, 10, 10), true},
		{"contained", NewRect(2, 2, 3, 3), true},
		{"partial", NewRect(5, 5, 10, 10), true},
		{"touching right edge", NewRect(10, 0, 10, 10), false},
		{"touching bottom edge", NewRect(0, 10, 10, 10), false},
		{"disjoint", NewRect(20, 20, 5, 5), false},
		{"overlap x only", NewRect(5, 20, 10, 10), false},
		{"point inside", NewRect(5, 5, 0, 0), true},
		{"point on edge", NewRect(10, 5, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectOverlapsSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	randRect := func() Rect {
		return NewRect(rng.Float64()*100-50, rng.Float64()*100-50, rng.Float64()*40, rng.Float64()*40)
	}

	for i := 0; i < 5000; i++ {
		a, b := randRect(), randRect()
		if a.Overlaps(b) != b.Overlaps(a) {
			t.Fatalf("asymmetric overlap for %+v and %+v", a, b)
		}
	}
}

func TestRectTranslate(t *testing.T) {
	r := NewRect(800, 0, 50, 100).Translate(-5.5, 0)
	if r.X != 794.5 || r.Y != 0 || r.W != 50 || r.H != 100 {
		t.Errorf("Translate = %+v", r)
	}
}

func TestRectSetBottom(t *testing.T) {
	r := NewRect(50, 560, 30, 30).SetBottom(570)
	if r.Bottom() != 570 || r.Y != 540 {
		t.Errorf("SetBottom = %+v", r)
	}
}

func TestNewRectNegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for negative width")
		}
	}()
	NewRect(0, 0, -1, 5)
}

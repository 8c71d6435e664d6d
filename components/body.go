package components

// Obstacle is a top/bottom pillar pair with a fixed vertical gap between them.
type Obstacle struct {
	ID     uint32
	Top    Rect
	Bottom Rect
	Passed bool
}

// GapCenterY returns the vertical center of the gap.
func (o Obstacle) GapCenterY() float64 {
	return (o.Top.Bottom() + o.Bottom.Top()) / 2
}

// Gap returns the vertical clearance between the pillars.
func (o Obstacle) Gap() float64 {
	return o.Bottom.Top() - o.Top.Bottom()
}

// Shift moves both pillars horizontally.
func (o *Obstacle) Shift(dx float64) {
	o.Top = o.Top.Translate(dx, 0)
	o.Bottom = o.Bottom.Translate(dx, 0)
}

// Collides reports whether r overlaps either pillar.
func (o Obstacle) Collides(r Rect) bool {
	return r.Overlaps(o.Top) || r.Overlaps(o.Bottom)
}

// OffScreen reports whether the pair has scrolled past the left boundary.
func (o Obstacle) OffScreen() bool {
	return o.Top.Right() < 0
}

// MarkPassed sets the passed flag. It reports true only on the first call.
func (o *Obstacle) MarkPassed() bool {
	if o.Passed {
		return false
	}
	o.Passed = true
	return true
}

package components

import "fmt"

// Rect is an axis-aligned rectangle in screen space (y grows downward).
// It carries geometry only; renderers convert it to their own types.
type Rect struct {
	X, Y float64
	W, H float64
}

// NewRect creates a rectangle. Panics on negative size.
func NewRect(x, y, w, h float64) Rect {
	if w < 0 || h < 0 {
		panic(fmt.Sprintf("components: negative rect size %vx%v", w, h))
	}
	return Rect{X: x, Y: y, W: w, H: h}
}

func (r Rect) Left() float64    { return r.X }
func (r Rect) Right() float64   { return r.X + r.W }
func (r Rect) Top() float64     { return r.Y }
func (r Rect) Bottom() float64  { return r.Y + r.H }
func (r Rect) CenterX() float64 { return r.X + r.W/2 }
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Overlaps reports whether the open interiors of r and o intersect.
// Rectangles that only share an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.Left() < o.Right() && r.Right() > o.Left() &&
		r.Top() < o.Bottom() && r.Bottom() > o.Top()
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// SetBottom moves r vertically so its bottom edge sits at y.
func (r Rect) SetBottom(y float64) Rect {
	r.Y = y - r.H
	return r
}

package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const stripeSpacing = 24

// BackgroundRenderer draws the sky and a ground strip whose stripes scroll
// with the obstacles.
type BackgroundRenderer struct {
	screenW, screenH int32
	groundY          int32
	sky, ground      rl.Color
	stripe           rl.Color
	offset           float64
}

// NewBackgroundRenderer creates a background for a screen whose ground
// starts at groundY.
func NewBackgroundRenderer(screenW, screenH, groundY int32, sky, ground rl.Color) *BackgroundRenderer {
	return &BackgroundRenderer{
		screenW: screenW,
		screenH: screenH,
		groundY: groundY,
		sky:     sky,
		ground:  ground,
		stripe:  rl.Color{R: ground.R - 30, G: ground.G - 30, B: ground.B - 30, A: 255},
	}
}

// Advance scrolls the ground stripes left by speed pixels.
func (b *BackgroundRenderer) Advance(speed float64) {
	b.offset = math.Mod(b.offset+speed, stripeSpacing)
}

// Reset puts the stripes back at their starting phase.
func (b *BackgroundRenderer) Reset() {
	b.offset = 0
}

// Draw renders the sky and ground.
func (b *BackgroundRenderer) Draw() {
	rl.ClearBackground(b.sky)
	rl.DrawRectangle(0, b.groundY, b.screenW, b.screenH-b.groundY, b.ground)
	rl.DrawRectangle(0, b.groundY, b.screenW, 3, b.stripe)

	stripeH := int32(10)
	for x := -int32(b.offset); x < b.screenW; x += stripeSpacing {
		rl.DrawTriangle(
			rl.Vector2{X: float32(x), Y: float32(b.groundY + 3 + stripeH)},
			rl.Vector2{X: float32(x + stripeSpacing/2), Y: float32(b.groundY + 3 + stripeH)},
			rl.Vector2{X: float32(x + stripeSpacing/2), Y: float32(b.groundY + 3)},
			b.stripe,
		)
	}
}

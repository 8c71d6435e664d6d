package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flappy/playback"
)

// HUD draws the score lines and the game-over banner.
type HUD struct {
	r *Renderer
}

// NewHUD creates a new HUD.
func NewHUD() *HUD {
	return &HUD{r: NewRenderer()}
}

// Draw renders the view's HUD lines in the top-left corner.
func (h *HUD) Draw(v playback.View) {
	size := h.r.Theme.HUDFontSize
	y := int32(10)
	for _, line := range v.HUD() {
		h.r.DrawShadowText(line, 10, y, size, rl.White)
		y += size + 4
	}
}

// DrawBanner renders the game-over banner across the middle of the screen.
// It returns the Y just below the banner, or -1 if nothing was drawn.
func (h *HUD) DrawBanner(v playback.View, screenW, screenH int32) int32 {
	banner := v.Banner()
	if banner == "" {
		return -1
	}
	size := h.r.Theme.HUDFontSize
	w := rl.MeasureText(banner, size)
	y := screenH/2 - size
	rl.DrawRectangle(0, y-10, screenW, size+20, h.r.Theme.PanelBg)
	h.r.DrawShadowText(banner, (screenW-w)/2, y, size, rl.White)
	return y + size + 20
}

// DrawControls renders a key hint line along the bottom edge.
func (h *HUD) DrawControls(screenW, screenH int32, controls string) {
	w := rl.MeasureText(controls, h.r.Theme.FontSize)
	rl.DrawText(controls, screenW-w-10, screenH-h.r.Theme.FontSize-6, h.r.Theme.FontSize, h.r.Theme.LabelColor)
}

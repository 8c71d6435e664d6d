package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel lists the overlay toggles and their keys.
type ControlsPanel struct {
	r     *Renderer
	x, y  int32
	width int32
}

// NewControlsPanel creates a controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{r: NewRenderer(), x: x, y: y, width: width}
}

// Draw renders the panel and returns its height.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	all := overlays.All()
	lh := c.r.Theme.LineHeight
	pad := c.r.Theme.Padding
	height := pad*2 + lh + 2 + int32(len(all))*lh

	c.r.DrawPanel(c.x, c.y, c.width, height)
	x := c.x + pad
	y := c.r.DrawSectionHeader(x, c.y+pad, "Overlays")
	for _, d := range all {
		state := "off"
		if overlays.IsEnabled(d.ID) {
			state = "on"
		}
		y = c.r.DrawLabelValue(x, y, "["+d.KeyLabel+"]", d.Name+" "+state)
	}
	return height
}

// GameOverAction is what the player clicked on the game-over buttons.
type GameOverAction int

const (
	ActionNone GameOverAction = iota
	ActionReplay
	ActionQuit
)

// GameOverButtons draws Replay and Quit buttons centred at y. Replay is
// only offered when canReplay is set.
func GameOverButtons(screenW, y int32, canReplay bool) GameOverAction {
	const bw, bh, gap = 110, 30, 20
	x := float32(screenW)/2 - bw/2
	if canReplay {
		x = float32(screenW)/2 - bw - gap/2
		if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: bw, Height: bh}, "Replay") {
			return ActionReplay
		}
		x += bw + gap
	}
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: bw, Height: bh}, "Quit") {
		return ActionQuit
	}
	return ActionNone
}

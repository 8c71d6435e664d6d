// Package renderer draws playback in a raylib window.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/playback"
	"github.com/pthm-cable/flappy/scene"
	"github.com/pthm-cable/flappy/ui"
)

// Window renders views with raylib. It implements playback.Backend.
type Window struct {
	screenW, screenH int32
	worldW, worldH   float64

	background *BackgroundRenderer
	hud        *ui.HUD
	inspector  *ui.Inspector
	controls   *ui.ControlsPanel
	overlays   *ui.OverlayRegistry
}

// NewWindow opens a window sized from the screen config.
func NewWindow(cfg *config.Config) *Window {
	w := int32(cfg.Screen.Width)
	h := int32(cfg.Screen.Height)

	rl.SetConfigFlags(rl.FlagVsyncHint)
	rl.InitWindow(w, h, cfg.Screen.Title)
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(0)

	return &Window{
		screenW:    w,
		screenH:    h,
		worldW:     cfg.Derived.ScreenW,
		worldH:     cfg.Derived.ScreenH,
		background: NewBackgroundRenderer(w, h, int32(cfg.Derived.GroundY), color(scene.ColorSky), color(scene.ColorGround)),
		hud:        ui.NewHUD(),
		inspector:  ui.NewInspector(w-250, 10, 240, cfg.GA.GeneMin, cfg.GA.GeneMax),
		controls:   ui.NewControlsPanel(w-250, h-120, 240),
		overlays:   ui.NewOverlayRegistry(),
	}
}

// Present draws v and returns the input gathered since the last frame.
// EndDrawing blocks until the next frame is due.
func (w *Window) Present(v playback.View) (playback.Input, error) {
	var in playback.Input
	if rl.WindowShouldClose() {
		in.Quit = true
		return in, nil
	}

	w.overlays.HandleKeys()
	if rl.IsKeyPressed(rl.KeySpace) || rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyW) {
		in.Jump = true
	}
	if rl.IsKeyPressed(rl.KeyR) {
		in.Restart = true
	}
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		in.Quit = true
	}
	if v.GameOver {
		w.background.Reset()
	} else {
		if v.Mode == playback.ModeManual && rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			in.Jump = true
		}
		w.background.Advance(v.Speed)
	}

	rl.BeginDrawing()
	w.background.Draw()
	w.drawScene(v)
	if w.overlays.IsEnabled(ui.OverlaySensors) {
		w.drawSensorLine(v)
	}

	w.hud.Draw(v)
	if w.overlays.IsEnabled(ui.OverlayInspector) {
		w.inspector.Draw(v)
	}
	if w.overlays.IsEnabled(ui.OverlayControls) {
		w.controls.Draw(w.overlays)
	}
	if y := w.hud.DrawBanner(v, w.screenW, w.screenH); y >= 0 {
		switch ui.GameOverButtons(w.screenW, y+10, v.Mode == playback.ModeManual) {
		case ui.ActionReplay:
			in.Restart = true
		case ui.ActionQuit:
			in.Quit = true
		}
	}
	w.hud.DrawControls(w.screenW, w.screenH, "SPACE jump  R restart  Q quit")
	rl.EndDrawing()

	return in, nil
}

func (w *Window) drawScene(v playback.View) {
	if v.Scene == nil {
		return
	}
	hitboxes := w.overlays.IsEnabled(ui.OverlayHitboxes)
	for _, d := range v.Scene.Drawables() {
		r := w.rect(d.Rect)
		rl.DrawRectangleRec(r, color(d.Sprite.Color))
		if hitboxes {
			rl.DrawRectangleLinesEx(r, 1, rl.Red)
		}
	}
}

// drawSensorLine draws from the agent to the gap centre it is steering for.
func (w *Window) drawSensorLine(v playback.View) {
	d := v.Decision
	if !d.HasTarget {
		return
	}
	body := v.Agent.Body
	sx := float32(w.screenW) / float32(w.worldW)
	sy := float32(w.screenH) / float32(w.worldH)
	from := rl.Vector2{X: float32(body.Right()) * sx, Y: float32(body.CenterY()) * sy}
	to := rl.Vector2{
		X: float32(body.Right()+d.Inputs.DX*w.worldW) * sx,
		Y: float32(body.CenterY()+d.Inputs.DY*w.worldH) * sy,
	}
	lineColor := rl.SkyBlue
	if d.Jumped {
		lineColor = rl.Orange
	}
	rl.DrawLineEx(from, to, 2, lineColor)
	rl.DrawCircleV(to, 4, lineColor)
}

func (w *Window) rect(r components.Rect) rl.Rectangle {
	sx := float32(w.screenW) / float32(w.worldW)
	sy := float32(w.screenH) / float32(w.worldH)
	return rl.Rectangle{
		X:      float32(r.X) * sx,
		Y:      float32(r.Y) * sy,
		Width:  float32(r.W) * sx,
		Height: float32(r.H) * sy,
	}
}

// Close shuts the window.
func (w *Window) Close() error {
	rl.CloseWindow()
	return nil
}

func color(c components.RGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

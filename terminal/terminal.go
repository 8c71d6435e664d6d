// Package terminal draws playback in a text terminal with tcell.
package terminal

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/playback"
	"github.com/pthm-cable/flappy/scene"
)

const (
	blockRune  = '█'
	groundRune = '▒'
)

// Backend renders views as character cells. It implements playback.Backend.
type Backend struct {
	screen tcell.Screen
	events chan tcell.Event
	done   chan struct{}
	ticker *time.Ticker

	worldW, worldH float64
	groundY        float64
}

// New opens the controlling terminal.
func New(cfg *config.Config) (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return NewWithScreen(screen, cfg), nil
}

// NewWithScreen wraps an initialised screen.
func NewWithScreen(screen tcell.Screen, cfg *config.Config) *Backend {
	b := &Backend{
		screen:  screen,
		events:  make(chan tcell.Event, 100),
		done:    make(chan struct{}),
		ticker:  time.NewTicker(time.Second / time.Duration(cfg.Screen.TargetFPS)),
		worldW:  cfg.Derived.ScreenW,
		worldH:  cfg.Derived.ScreenH,
		groundY: cfg.Derived.GroundY,
	}
	screen.HideCursor()

	go b.pollEvents()
	return b
}

func (b *Backend) pollEvents() {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case b.events <- ev:
		case <-b.done:
			return
		}
	}
}

// Present draws v, then collects input until the next frame tick.
func (b *Backend) Present(v playback.View) (playback.Input, error) {
	b.draw(v)

	var in playback.Input
	for {
		select {
		case ev := <-b.events:
			b.handleEvent(ev, &in)
		case <-b.ticker.C:
			// Pick up anything that arrived with the tick.
			for {
				select {
				case ev := <-b.events:
					b.handleEvent(ev, &in)
				default:
					return in, nil
				}
			}
		}
	}
}

func (b *Backend) handleEvent(ev tcell.Event, in *playback.Input) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			in.Quit = true
		case tcell.KeyUp:
			in.Jump = true
		case tcell.KeyRune:
			switch ev.Rune() {
			case ' ', 'w':
				in.Jump = true
			case 'r', 'R':
				in.Restart = true
			case 'q', 'Q':
				in.Quit = true
			}
		}
	case *tcell.EventResize:
		b.screen.Sync()
	}
}

// cell maps a world coordinate to a terminal cell.
func (b *Backend) cell(x, y float64) (int, int) {
	cols, rows := b.screen.Size()
	return int(x / b.worldW * float64(cols)), int(y / b.worldH * float64(rows))
}

func (b *Backend) draw(v playback.View) {
	b.screen.Clear()
	cols, rows := b.screen.Size()

	skyColor := rgb(scene.ColorSky)
	sky := tcell.StyleDefault.Background(skyColor)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			b.screen.SetContent(x, y, ' ', nil, sky)
		}
	}

	_, groundRow := b.cell(0, b.groundY)
	ground := tcell.StyleDefault.Foreground(rgb(scene.ColorGround)).Background(skyColor)
	for y := groundRow; y < rows; y++ {
		for x := 0; x < cols; x++ {
			b.screen.SetContent(x, y, groundRune, nil, ground)
		}
	}

	if v.Scene != nil {
		for _, d := range v.Scene.Drawables() {
			b.fillRect(d.Rect, tcell.StyleDefault.Foreground(rgb(d.Sprite.Color)).Background(skyColor))
		}
	}

	text := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for i, line := range v.HUD() {
		b.drawText(1, i, line, text)
	}
	if banner := v.Banner(); banner != "" {
		x := (cols - len(banner)) / 2
		if x < 0 {
			x = 0
		}
		b.drawText(x, rows/2, banner, text.Bold(true))
	}

	b.screen.Show()
}

// fillRect draws r as solid blocks, at least one cell in each direction.
func (b *Backend) fillRect(r components.Rect, style tcell.Style) {
	x0, y0 := b.cell(r.Left(), r.Top())
	x1, y1 := b.cell(r.Right(), r.Bottom())
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			b.screen.SetContent(x, y, blockRune, nil, style)
		}
	}
}

func (b *Backend) drawText(x, y int, s string, style tcell.Style) {
	for i, r := range s {
		b.screen.SetContent(x+i, y, r, nil, style)
	}
}

// Close restores the terminal.
func (b *Backend) Close() error {
	b.ticker.Stop()
	close(b.done)
	b.screen.Fini()
	return nil
}

func rgb(c components.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

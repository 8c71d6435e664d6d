package ui

import (
	"fmt"

	"github.com/pthm-cable/flappy/inspector"
	"github.com/pthm-cable/flappy/playback"
)

var geneLabels = [3]string{"w_dx", "w_dy", "bias"}

// Inspector shows the agent's state, genome, and last decision.
type Inspector struct {
	r                *Renderer
	x, y, width      int32
	geneMin, geneMax float64
}

// NewInspector creates an inspector panel. Gene bars span [geneMin, geneMax].
func NewInspector(x, y, width int32, geneMin, geneMax float64) *Inspector {
	return &Inspector{r: NewRenderer(), x: x, y: y, width: width, geneMin: geneMin, geneMax: geneMax}
}

// SetPosition moves the panel.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x, ins.y = x, y
}

// Draw renders the panel and returns its height.
func (ins *Inspector) Draw(v playback.View) int32 {
	fields := inspector.ExtractFields(&v.Agent)
	lh := ins.r.Theme.LineHeight
	pad := ins.r.Theme.Padding
	height := pad*2 + int32(len(fields))*lh + 3*(lh+2) + 4*lh + 3*(lh+2)

	ins.r.DrawPanel(ins.x, ins.y, ins.width, height)
	x := ins.x + pad
	y := ins.y + pad
	inner := ins.width - pad*2

	y = ins.r.DrawSectionHeader(x, y, "Agent")
	for _, f := range fields {
		y = ins.r.DrawLabelValue(x, y, f.Name, f.Text())
	}

	y = ins.r.DrawSectionHeader(x, y, "Genome")
	for i, w := range v.Agent.Genome {
		y = ins.r.DrawCenteredBar(x, y, geneLabels[i], w, ins.geneMin, ins.geneMax, inner)
	}

	y = ins.r.DrawSectionHeader(x, y, "Decision")
	d := v.Decision
	if !d.HasTarget {
		ins.r.DrawLabelValue(x, y, "target", "none")
		return height
	}
	y = ins.r.DrawCenteredBar(x, y, "dx", d.Inputs.DX, -1, 1, inner)
	y = ins.r.DrawCenteredBar(x, y, "dy", d.Inputs.DY, -1, 1, inner)
	y = ins.r.DrawLabelValue(x, y, "out", fmt.Sprintf("%+.3f", d.Output))
	jump := "no"
	if d.Jumped {
		jump = "yes"
	}
	ins.r.DrawLabelValue(x, y, "jump", jump)
	return height
}

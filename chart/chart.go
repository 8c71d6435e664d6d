// Package chart renders the evolution chart from the statistics log.
package chart

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/pthm-cable/flappy/telemetry"
)

var (
	bestColor = color.RGBA{R: 220, G: 60, B: 40, A: 255}
	meanColor = color.RGBA{R: 40, G: 110, B: 200, A: 255}
)

// Render reads the statistics log at statsPath and saves a line chart of
// best and mean fitness per generation to outPath. The image format follows
// the outPath extension. Returns an error wrapping telemetry.ErrNoStats when
// the log is missing or empty.
func Render(statsPath, outPath string) error {
	records, err := telemetry.ReadStatsLog(statsPath)
	if err != nil {
		return err
	}
	p, err := Build(records)
	if err != nil {
		return err
	}
	if err := p.Save(8*vg.Inch, 5*vg.Inch, outPath); err != nil {
		return fmt.Errorf("saving chart: %w", err)
	}
	return nil
}

// Build lays out the fitness chart for the given records.
func Build(records []telemetry.GenerationStats) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Fitness over generations"
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Fitness"
	p.Add(plotter.NewGrid())

	bestPts := make(plotter.XYs, len(records))
	meanPts := make(plotter.XYs, len(records))
	for i, r := range records {
		bestPts[i].X = float64(r.Generation)
		bestPts[i].Y = r.BestFitness
		meanPts[i].X = float64(r.Generation)
		meanPts[i].Y = r.MeanFitness
	}

	bestLine, err := plotter.NewLine(bestPts)
	if err != nil {
		return nil, fmt.Errorf("best fitness line: %w", err)
	}
	bestLine.LineStyle.Color = bestColor
	bestLine.LineStyle.Width = vg.Points(1.5)

	meanLine, err := plotter.NewLine(meanPts)
	if err != nil {
		return nil, fmt.Errorf("mean fitness line: %w", err)
	}
	meanLine.LineStyle.Color = meanColor
	meanLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(bestLine, meanLine)
	p.Legend.Add("best", bestLine)
	p.Legend.Add("mean", meanLine)
	p.Legend.Top = true
	p.Legend.Left = true

	return p, nil
}

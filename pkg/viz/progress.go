// Package viz draws search progress charts with gonum/plot.
package viz

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/geneticfs/pkg/errors"
	fs "github.com/YuminosukeSato/geneticfs/sklearn/feature_selection"
)

// Chart size.
var (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

// ProgressPlot returns a chart of the mean score and the best score of each
// generation.
func ProgressPlot(history fs.History, title string) (*plot.Plot, error) {
	if len(history) == 0 {
		return nil, errors.NewValueError("viz.ProgressPlot", "empty history")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Score"

	means := history.MeanScores()
	bests := history.BestScores()
	meanPts := make(plotter.XYs, len(history))
	bestPts := make(plotter.XYs, len(history))
	for i, rec := range history {
		meanPts[i].X = float64(rec.Generation)
		meanPts[i].Y = means[i]
		bestPts[i].X = float64(rec.Generation)
		bestPts[i].Y = bests[i]
	}

	meanLine, err := plotter.NewLine(meanPts)
	if err != nil {
		return nil, errors.Wrap(err, "mean score line")
	}
	bestLine, err := plotter.NewLine(bestPts)
	if err != nil {
		return nil, errors.Wrap(err, "best score line")
	}
	bestLine.Color = color.RGBA{R: 200, A: 255}
	bestLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(plotter.NewGrid(), meanLine, bestLine)
	p.Legend.Add("mean", meanLine)
	p.Legend.Add("best", bestLine)
	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}

// PlotProgress writes ProgressPlot to path. The format follows the file
// extension (.png, .svg, .pdf, ...).
func PlotProgress(history fs.History, title, path string) error {
	p, err := ProgressPlot(history, title)
	if err != nil {
		return err
	}
	if err := p.Save(Width, Height, path); err != nil {
		return errors.Wrapf(err, "save plot to '%s'", path)
	}
	return nil
}

package telemetry

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ErrEmptyHistory is returned when plotting a history with no generations.
var ErrEmptyHistory = errors.New("telemetry: no generations recorded")

// History is the append-only record of finished generations in a run.
type History struct {
	gens []GenerationStats
}

// Append records a finished generation.
func (h *History) Append(s GenerationStats) {
	h.gens = append(h.gens, s)
}

// Len returns the number of recorded generations.
func (h *History) Len() int { return len(h.gens) }

// All returns the recorded generations in order.
func (h *History) All() []GenerationStats { return h.gens }

// Last returns the most recent generation, if any.
func (h *History) Last() (GenerationStats, bool) {
	if len(h.gens) == 0 {
		return GenerationStats{}, false
	}
	return h.gens[len(h.gens)-1], true
}

// Reset drops every recorded generation.
func (h *History) Reset() {
	h.gens = nil
}

// BestCleared returns the highest cleared count over the history.
func (h *History) BestCleared() int {
	var best int
	for _, s := range h.gens {
		if s.BestCleared > best {
			best = s.BestCleared
		}
	}
	return best
}

// Plot draws best, p90 and mean fitness against generation and saves the
// figure to outPath. The image format follows the file extension.
func (h *History) Plot(title, outPath string) error {
	if len(h.gens) == 0 {
		return ErrEmptyHistory
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Fitness"

	best := make(plotter.XYs, len(h.gens))
	p90 := make(plotter.XYs, len(h.gens))
	mean := make(plotter.XYs, len(h.gens))
	for i, s := range h.gens {
		x := float64(s.Generation)
		best[i] = plotter.XY{X: x, Y: s.BestFitness}
		p90[i] = plotter.XY{X: x, Y: s.P90Fitness}
		mean[i] = plotter.XY{X: x, Y: s.MeanFitness}
	}

	series := []struct {
		name string
		pts  plotter.XYs
	}{
		{"best", best},
		{"p90", p90},
		{"mean", mean},
	}
	for i, sr := range series {
		line, err := plotter.NewLine(sr.pts)
		if err != nil {
			return fmt.Errorf("building %s line: %w", sr.name, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(sr.name, line)
	}

	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(8*vg.Inch, 4*vg.Inch, outPath); err != nil {
		return fmt.Errorf("saving fitness plot: %w", err)
	}
	return nil
}

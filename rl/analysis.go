package rl

import (
	"os"
	"path"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/cbarrick/csb/util"
)

// EpisodeReturns records the undiscounted return of each episode.
func EpisodeReturns() Analyzer {
	return func(t []*Trace) DataSet {
		returns := make([]float64, len(t))
		for i, trace := range t {
			returns[i] = trace.Return()
		}
		return returns
	}
}

// MeanReturns smooths the per-episode returns with a trailing window.
func MeanReturns(window int) Analyzer {
	return func(t []*Trace) DataSet {
		w := util.NewMeanWindow(window)
		means := make([]float64, len(t))
		for i, trace := range t {
			w.Push(trace.Return())
			means[i] = w.Mean()
		}
		return means
	}
}

// ReturnsPlotter renders one line per experiment of the analyzed returns.
func ReturnsPlotter(plotPath string) Comparator {
	if _, err := os.Stat(plotPath); err != nil {
		os.MkdirAll(plotPath, os.ModePerm)
	}
	return func(run int, names []string, ds []DataSet) {
		p := plot.New()
		p.Title.Text = "Comparison"
		p.X.Label.Text = "Episode"
		p.Y.Label.Text = "Return"
		for i := 0; i < len(names); i++ {
			returns := ds[i].([]float64)
			points := make(plotter.XYs, len(returns))
			for j, v := range returns {
				points[j] = plotter.XY{
					X: float64(j),
					Y: v,
				}
			}
			line, err := plotter.NewLine(points)
			if err != nil {
				continue
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(names[i], line)
		}
		p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, strconv.Itoa(run)+"_returns.png"))
	}
}

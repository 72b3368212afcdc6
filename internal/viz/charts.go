package viz

import (
	"errors"
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/femreport/internal/metrics"
	"github.com/san-kum/femreport/internal/report"
)

var ErrUnknownComponent = errors.New("unknown component")

// Plot renders values against their position with asciigraph.
func Plot(values []float64, width, height int, caption string) string {
	if len(values) == 0 {
		return ""
	}
	if len(values) == 1 {
		values = []float64{values[0], values[0]}
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// DisplacementPlot plots ux, uy, uz or "mag" over node ids.
func DisplacementPlot(res *report.Result, component string, width, height int) (string, error) {
	var values []float64
	if component == "mag" {
		for _, id := range res.SortedNodeIDs() {
			n := res.Nodes[id]
			values = append(values, metrics.Magnitude(n.UX, n.UY, n.UZ))
		}
	} else {
		values = res.DisplacementComponent(component)
		if values == nil {
			return "", fmt.Errorf("%w: %q", ErrUnknownComponent, component)
		}
	}
	return Plot(values, width, height, component+" by node"), nil
}

// StressPlot plots sxx, syy, sxy or "mises" over element ids.
func StressPlot(res *report.Result, component string, width, height int) (string, error) {
	var values []float64
	if component == "mises" {
		for _, id := range res.SortedElementIDs() {
			e := res.Elements[id]
			values = append(values, metrics.VonMises(e.SXX, e.SYY, e.SXY))
		}
	} else {
		values = res.StressComponent(component)
		if values == nil {
			return "", fmt.Errorf("%w: %q", ErrUnknownComponent, component)
		}
	}
	return Plot(values, width, height, component+" by element"), nil
}

// ConvergencePlot draws log10 of the measured errors (red) against the
// fitted power law (blue), one point per refinement level.
func ConvergencePlot(s *metrics.Study, width, height int) string {
	if s == nil || len(s.AbsErrors) < 2 {
		return ""
	}
	measured := make([]float64, len(s.AbsErrors))
	fitted := make([]float64, len(s.AbsErrors))
	for i, e := range s.AbsErrors {
		measured[i] = math.Log10(e)
		fitted[i] = math.Log10(s.Fit.Predict(s.MeshSizes[i]))
	}
	return asciigraph.PlotMany([][]float64{measured, fitted},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
		asciigraph.Caption(fmt.Sprintf("log10 error by level (rate %.3f, R² %.3f)", s.Fit.Rate, s.Fit.R2)),
	)
}

// Sparkline renders values as a one-line bar chart.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := max(len(values)/width, 1)
	out := make([]rune, 0, width)
	for i := 0; i < width && i*step < len(values); i++ {
		idx := int((values[i*step] - lo) / rng * float64(len(chars)-1))
		out = append(out, chars[min(max(idx, 0), len(chars)-1)])
	}
	return string(out)
}

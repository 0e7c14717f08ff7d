package export

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/seirb/internal/epidemic"
)

const (
	DefaultWidth  = 1000
	DefaultHeight = 600
)

var seriesColors = map[epidemic.Compartment]drawing.Color{
	epidemic.Susceptible: {R: 31, G: 119, B: 180, A: 255},
	epidemic.Exposed:     {R: 255, G: 127, B: 14, A: 255},
	epidemic.Infectious:  {R: 214, G: 39, B: 40, A: 255},
	epidemic.Recovered:   {R: 44, G: 160, B: 44, A: 255},
	epidemic.Bacteria:    {R: 148, G: 103, B: 189, A: 255},
}

// WritePNG renders all five compartments over time. Bacteria is drawn
// dashed since it is a concentration, not a head count.
func WritePNG(w io.Writer, tr *epidemic.Trajectory, width, height int) error {
	if tr.Len() < 2 {
		return fmt.Errorf("need at least 2 points to plot, got %d", tr.Len())
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	yMin, yMax := yRange(tr)
	series := make([]chart.Series, 0, epidemic.NumCompartments)
	for _, c := range epidemic.Compartments {
		values := tr.Series(c)

		style := chart.Style{
			StrokeColor: seriesColors[c],
			StrokeWidth: 2.0,
		}
		if c == epidemic.Bacteria {
			style.StrokeDashArray = []float64{6.0, 4.0}
		}

		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("%s (%s)", c, c.Symbol()),
			XValues: tr.Times,
			YValues: values,
			Style:   style,
		})
	}

	graph := chart.Chart{
		Title:  "Cholera SEIR-B Model Simulation",
		Width:  width,
		Height: height,
		XAxis: chart.XAxis{
			Name:  "Time (days)",
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "Population / Bacteria concentration",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

// yRange spans every compartment with 5% headroom. The floor is 0 unless a
// compartment dips below zero, so negative transients stay visible.
func yRange(tr *epidemic.Trajectory) (lo, hi float64) {
	for _, c := range epidemic.Compartments {
		values := tr.Series(c)
		lo = min(lo, floats.Min(values))
		hi = max(hi, floats.Max(values))
	}
	if hi <= 0 {
		hi = 1
	}
	return lo * 1.05, hi * 1.05
}

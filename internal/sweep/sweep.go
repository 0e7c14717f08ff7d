// Package sweep runs one scenario repeatedly while varying one parameter.
package sweep

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/seirb/internal/analysis"
	"github.com/san-kum/seirb/internal/epidemic"
	"github.com/san-kum/seirb/internal/experiment"
)

// Point is the outcome of one sweep value. Err is set when that value
// could not be simulated; the other fields are then zero.
type Point struct {
	Value        float64 `json:"value"`
	PeakInfected float64 `json:"peak_infected"`
	PeakDay      float64 `json:"peak_day"`
	FinalS       float64 `json:"final_s"`
	R0           float64 `json:"r0"`
	Err          error   `json:"-"`
}

// Run simulates base once per value of param using at most workers
// goroutines. Points come back in the order of values. Failures of single
// points are recorded on the point; only cancellation of ctx or an
// unknown parameter name fail the whole sweep.
func Run(ctx context.Context, base experiment.Config, param string, values []float64, workers int, opts ...experiment.Option) ([]Point, error) {
	if _, err := base.Params.Get(param); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	points := make([]Point, len(values))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, v := range values {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			points[i] = simulatePoint(gctx, base, param, v, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

func simulatePoint(ctx context.Context, base experiment.Config, param string, v float64, opts []experiment.Option) Point {
	pt := Point{Value: v}

	p, err := base.Params.With(param, v)
	if err != nil {
		pt.Err = err
		return pt
	}

	cfg := base
	cfg.Params = p
	run, err := experiment.New(cfg, opts...).Run(ctx)
	if err != nil {
		pt.Err = fmt.Errorf("%s=%g: %w", param, v, err)
		return pt
	}

	s := analysis.Summarize(run.Trajectory)
	pt.PeakInfected = s.PeakInfected
	pt.PeakDay = s.PeakDay
	pt.FinalS = s.Final[epidemic.Susceptible]
	pt.R0 = s.R0
	return pt
}

// Values returns n evenly spaced values from lo to hi inclusive.
func Values(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// MinPeak returns the successful point with the smallest infectious peak.
func MinPeak(points []Point) (Point, bool) {
	best := Point{PeakInfected: math.Inf(1)}
	found := false
	for _, pt := range points {
		if pt.Err == nil && pt.PeakInfected < best.PeakInfected {
			best = pt
			found = true
		}
	}
	return best, found
}

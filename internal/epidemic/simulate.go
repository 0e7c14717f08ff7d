package epidemic

import (
	"context"
	"log/slog"

	"github.com/san-kum/seirb/internal/dynamo"
	"github.com/san-kum/seirb/internal/integrators"
	"github.com/san-kum/seirb/internal/sim"
)

// Trajectory holds five equal-length series aligned to Times.
type Trajectory struct {
	Times []float64
	S     []float64
	E     []float64
	I     []float64
	R     []float64
	B     []float64

	Params  Params
	Metrics map[string]float64
	Stats   dynamo.Stats
}

func (tr *Trajectory) Len() int { return len(tr.Times) }

// Series returns the backing slice for c; callers must not modify it.
func (tr *Trajectory) Series(c Compartment) []float64 {
	switch c {
	case Susceptible:
		return tr.S
	case Exposed:
		return tr.E
	case Infectious:
		return tr.I
	case Recovered:
		return tr.R
	case Bacteria:
		return tr.B
	}
	return nil
}

// State returns the state vector at grid index i.
func (tr *Trajectory) State(i int) dynamo.State {
	return dynamo.State{tr.S[i], tr.E[i], tr.I[i], tr.R[i], tr.B[i]}
}

// Population returns S+E+I+R at grid index i.
func (tr *Trajectory) Population(i int) float64 {
	return tr.S[i] + tr.E[i] + tr.I[i] + tr.R[i]
}

// DailyGrid returns days+1 points 0, 1, ..., days.
func DailyGrid(days int) []float64 {
	return dynamo.UniformGrid(0, float64(days), days)
}

// SimOptions tunes a Simulate call. The zero value integrates with
// Dormand-Prince RK45 under dynamo.DefaultConfig.
type SimOptions struct {
	Stepper dynamo.Stepper
	Config  *dynamo.Config
	Logger  *slog.Logger
	Metrics []dynamo.Metric
}

// Simulate validates p and integrates the model from p.InitialState()
// over times. Invalid parameters are rejected before any integration.
func Simulate(ctx context.Context, p Params, times []float64, opts SimOptions) (*Trajectory, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	stepper := opts.Stepper
	if stepper == nil {
		stepper = integrators.NewRK45()
	}
	cfg := dynamo.DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}

	s := sim.New(NewSEIRB(p), stepper, sim.WithLogger(opts.Logger))
	for _, m := range opts.Metrics {
		s.AddMetric(m)
	}

	result, err := s.Run(ctx, p.InitialState(), times, cfg)
	if err != nil {
		return nil, err
	}
	return FromResult(p, result), nil
}

// FromResult splits a simulator result into per-compartment series.
func FromResult(p Params, result *dynamo.Result) *Trajectory {
	n := len(result.States)
	tr := &Trajectory{
		Times:   result.Times,
		S:       make([]float64, n),
		E:       make([]float64, n),
		I:       make([]float64, n),
		R:       make([]float64, n),
		B:       make([]float64, n),
		Params:  p,
		Metrics: result.Metrics,
		Stats:   result.Stats,
	}
	for i, x := range result.States {
		tr.S[i] = x[Susceptible]
		tr.E[i] = x[Exposed]
		tr.I[i] = x[Infectious]
		tr.R[i] = x[Recovered]
		tr.B[i] = x[Bacteria]
	}
	return tr
}

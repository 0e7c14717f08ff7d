package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/seirb/internal/dynamo"
)

// Simulator advances a System across a time grid and reports one state per
// grid point. Adaptive steppers choose their own internal steps and are
// clipped to land exactly on every grid point; fixed steppers take uniform
// substeps no larger than Config.MaxDt.
type Simulator struct {
	dyn       dynamo.System
	stepper   dynamo.Stepper
	metrics   []dynamo.Metric
	observers []dynamo.Observer
	logger    *slog.Logger
}

type Option func(*Simulator)

// WithLogger sets the logger used for debug output after each run.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(dyn dynamo.System, stepper dynamo.Stepper, opts ...Option) *Simulator {
	s := &Simulator{
		dyn:       dyn,
		stepper:   stepper,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// countingSystem counts right-hand side evaluations.
type countingSystem struct {
	dynamo.System
	n int
}

func (c *countingSystem) Derive(x dynamo.State, t float64) dynamo.State {
	c.n++
	return c.System.Derive(x, t)
}

// Run solves the initial value problem x(times[0]) = x0 and returns the
// state at every point of times. States[0] is a copy of x0. On failure no
// partial result is returned.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, times []float64, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if err := dynamo.ValidateGrid(times); err != nil {
		return nil, err
	}
	if len(x0) != s.dyn.StateDim() {
		return nil, fmt.Errorf("%w: state has %d components, system expects %d", dynamo.ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}
	if !x0.IsValid() {
		return nil, dynamo.ErrInvalidState
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	sys := &countingSystem{System: s.dyn}
	result := &dynamo.Result{
		States:  make([]dynamo.State, 0, len(times)),
		Times:   make([]float64, len(times)),
		Metrics: make(map[string]float64),
	}
	copy(result.Times, times)

	x := x0.Clone()
	s.record(result, x, times[0])

	dt := cfg.InitialDt
	if dt <= 0 && len(times) > 1 {
		dt = 0.01 * (times[1] - times[0])
	}
	dt = math.Min(math.Max(dt, cfg.MinDt), cfg.MaxDt)

	var err error
	for i := 1; i < len(times); i++ {
		if adaptive, ok := s.stepper.(dynamo.AdaptiveStepper); ok {
			x, dt, err = s.advanceAdaptive(ctx, adaptive, sys, x, times[i-1], times[i], dt, cfg, &result.Stats)
		} else {
			x, err = s.advanceFixed(ctx, sys, x, times[i-1], times[i], cfg, &result.Stats)
		}
		if err != nil {
			return nil, err
		}
		s.record(result, x, times[i])
	}

	result.Stats.Evaluations = sys.n
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Debug("integration complete",
		"points", len(times),
		"steps", result.Stats.Steps,
		"rejected", result.Stats.Rejected,
		"evaluations", result.Stats.Evaluations,
	)

	return result, nil
}

func (s *Simulator) record(result *dynamo.Result, x dynamo.State, t float64) {
	result.States = append(result.States, x.Clone())
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(x, t)
	}
}

func (s *Simulator) advanceAdaptive(
	ctx context.Context,
	stepper dynamo.AdaptiveStepper,
	sys dynamo.System,
	x dynamo.State,
	t, tEnd, dt float64,
	cfg dynamo.Config,
	stats *dynamo.Stats,
) (dynamo.State, float64, error) {
	for t < tEnd {
		if err := checkContext(ctx); err != nil {
			return nil, 0, err
		}
		if stats.Steps+stats.Rejected >= cfg.MaxSteps {
			return nil, 0, &dynamo.SimulationError{Step: stats.Steps, Time: t, State: x, Wrapped: dynamo.ErrMaxSteps}
		}

		h := dt
		landing := false
		if remaining := tEnd - t; h >= remaining {
			h, landing = remaining, true
		}

		xNew, errRatio, dtNew := stepper.StepAdaptive(sys, x, t, h, cfg.Tolerance)
		if errRatio <= 1 && xNew.IsValid() {
			x = xNew
			if landing {
				t = tEnd
				dt = math.Max(dt, dtNew)
			} else {
				t += h
				dt = dtNew
			}
			dt = math.Min(dt, cfg.MaxDt)
			stats.Steps++
			stats.LastDt = h

			if x.MaxAbs() > cfg.MaxMagnitude {
				return nil, 0, &dynamo.SimulationError{Step: stats.Steps, Time: t, State: x, Wrapped: dynamo.ErrUnstable}
			}
			continue
		}

		stats.Rejected++
		dt = dtNew
		if !(dt >= cfg.MinDt) {
			return nil, 0, &dynamo.SimulationError{Step: stats.Steps, Time: t, State: x, Wrapped: dynamo.ErrStepTooSmall}
		}
	}
	return x, dt, nil
}

func (s *Simulator) advanceFixed(
	ctx context.Context,
	sys dynamo.System,
	x dynamo.State,
	t, tEnd float64,
	cfg dynamo.Config,
	stats *dynamo.Stats,
) (dynamo.State, error) {
	n := int(math.Ceil((tEnd - t) / cfg.MaxDt))
	if n < 1 {
		n = 1
	}
	h := (tEnd - t) / float64(n)

	for i := 0; i < n; i++ {
		if err := checkContext(ctx); err != nil {
			return nil, err
		}
		if stats.Steps >= cfg.MaxSteps {
			return nil, &dynamo.SimulationError{Step: stats.Steps, Time: t, State: x, Wrapped: dynamo.ErrMaxSteps}
		}

		x = s.stepper.Step(sys, x, t, h)
		t += h
		stats.Steps++
		stats.LastDt = h

		if !x.IsValid() || x.MaxAbs() > cfg.MaxMagnitude {
			return nil, &dynamo.SimulationError{Step: stats.Steps, Time: t, State: x, Wrapped: dynamo.ErrUnstable}
		}
	}
	return x, nil
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
	default:
		return nil
	}
}

func validateConfig(cfg dynamo.Config) error {
	if !(cfg.Tolerance.Abs > 0) || !(cfg.Tolerance.Rel >= 0) {
		return fmt.Errorf("%w: tolerances must be positive (abs %g, rel %g)", dynamo.ErrParameterBounds, cfg.Tolerance.Abs, cfg.Tolerance.Rel)
	}
	if !(cfg.MinDt > 0) {
		return fmt.Errorf("%w: min dt must be positive, got %g", dynamo.ErrParameterBounds, cfg.MinDt)
	}
	if !(cfg.MaxDt >= cfg.MinDt) {
		return fmt.Errorf("%w: max dt %g below min dt %g", dynamo.ErrParameterBounds, cfg.MaxDt, cfg.MinDt)
	}
	if cfg.MaxSteps <= 0 {
		return fmt.Errorf("%w: max steps must be positive, got %d", dynamo.ErrParameterBounds, cfg.MaxSteps)
	}
	if !(cfg.MaxMagnitude > 0) {
		return fmt.Errorf("%w: max magnitude must be positive, got %g", dynamo.ErrParameterBounds, cfg.MaxMagnitude)
	}
	return nil
}

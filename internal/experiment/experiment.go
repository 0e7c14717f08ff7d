package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/seirb/internal/dynamo"
	"github.com/san-kum/seirb/internal/epidemic"
)

// Config is everything needed to reproduce one simulation.
type Config struct {
	Params     epidemic.Params
	Days       int
	Integrator string
	Solver     dynamo.Config
}

func DefaultConfig() Config {
	return Config{
		Params:     epidemic.DefaultParams(),
		Days:       365,
		Integrator: DefaultIntegrator,
		Solver:     dynamo.DefaultConfig(),
	}
}

// Run is a completed experiment.
type Run struct {
	ID         string
	Config     Config
	Trajectory *epidemic.Trajectory
	Started    time.Time
	Elapsed    time.Duration
}

type Experiment struct {
	cfg      Config
	registry *Registry
	logger   *slog.Logger
}

type Option func(*Experiment)

func WithLogger(l *slog.Logger) Option {
	return func(e *Experiment) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithRegistry(r *Registry) Option {
	return func(e *Experiment) {
		if r != nil {
			e.registry = r
		}
	}
}

func New(cfg Config, opts ...Option) *Experiment {
	e := &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Experiment) Config() Config { return e.cfg }

func (e *Experiment) Run(ctx context.Context) (*Run, error) {
	if e.cfg.Days <= 0 {
		return nil, fmt.Errorf("%w: days=%d must be > 0", dynamo.ErrInvalidGrid, e.cfg.Days)
	}

	stepper, err := e.registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return nil, err
	}

	run := &Run{
		ID:      uuid.NewString(),
		Config:  e.cfg,
		Started: time.Now(),
	}
	logger := e.logger.With("run_id", run.ID)
	logger.Info("starting simulation",
		"days", e.cfg.Days,
		"integrator", e.cfg.Integrator,
		"r0", e.cfg.Params.ReproductionNumber(),
	)

	solver := e.cfg.Solver
	tr, err := epidemic.Simulate(ctx, e.cfg.Params, epidemic.DailyGrid(e.cfg.Days), epidemic.SimOptions{
		Stepper: stepper,
		Config:  &solver,
		Logger:  logger,
		Metrics: e.registry.DefaultMetrics(),
	})
	if err != nil {
		logger.Error("simulation failed", "error", err)
		return nil, err
	}

	run.Trajectory = tr
	run.Elapsed = time.Since(run.Started)
	logger.Info("simulation complete",
		"steps", tr.Stats.Steps,
		"rejected", tr.Stats.Rejected,
		"elapsed", run.Elapsed,
	)
	return run, nil
}

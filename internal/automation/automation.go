// Package automation runs many simulations from one description: a batch
// of scenarios read from YAML, or a Monte Carlo ensemble over uncertain
// parameters.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/seirb/internal/analysis"
	"github.com/san-kum/seirb/internal/config"
	"github.com/san-kum/seirb/internal/epidemic"
	"github.com/san-kum/seirb/internal/experiment"
)

// Batch is a list of scenarios run one after another.
type Batch struct {
	Name  string
	Steps []*config.Scenario
}

type batchFile struct {
	Name  string      `yaml:"name"`
	Steps []yaml.Node `yaml:"steps"`
}

// LoadBatch reads a batch file. Each step is decoded over the default
// scenario so steps only list what they change.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f batchFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("%s: batch has no steps", path)
	}

	b := &Batch{Name: f.Name, Steps: make([]*config.Scenario, 0, len(f.Steps))}
	for i := range f.Steps {
		sc := config.DefaultScenario()
		if err := f.Steps[i].Decode(sc); err != nil {
			return nil, fmt.Errorf("%s: step %d: %w", path, i+1, err)
		}
		if sc.Name == "" {
			sc.Name = fmt.Sprintf("step-%d", i+1)
		}
		b.Steps = append(b.Steps, sc)
	}
	return b, nil
}

// StepResult is one batch step. Run is nil when Err is set.
type StepResult struct {
	Scenario *config.Scenario
	Run      *experiment.Run
	Err      error
}

// RunBatch executes every step in order. A failing step does not stop the
// batch; cancellation of ctx does.
func RunBatch(ctx context.Context, b *Batch, logger *slog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	results := make([]StepResult, 0, len(b.Steps))
	for i, sc := range b.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		logger.Info("running step", "step", i+1, "of", len(b.Steps), "name", sc.Name)

		res := StepResult{Scenario: sc}
		if err := sc.Validate(); err != nil {
			res.Err = fmt.Errorf("step %d (%s): %w", i+1, sc.Name, err)
			results = append(results, res)
			continue
		}
		run, err := experiment.New(sc.Experiment(), experiment.WithLogger(logger)).Run(ctx)
		if err != nil {
			res.Err = fmt.Errorf("step %d (%s): %w", i+1, sc.Name, err)
		}
		res.Run = run
		results = append(results, res)
	}
	return results, nil
}

// DefaultUncertain are the rates perturbed when MonteCarloConfig.Params is
// empty.
var DefaultUncertain = []string{"beta", "k", "sigma", "gamma", "xi", "mu_b"}

// MonteCarloConfig describes an ensemble. Every listed parameter is
// multiplied by an independent factor drawn uniformly from
// [1-Perturbation, 1+Perturbation].
type MonteCarloConfig struct {
	Base         experiment.Config
	Params       []string
	Perturbation float64
	Trials       int
	Seed         uint64
	Workers      int
}

// Trial is one ensemble member.
type Trial struct {
	ID           int
	Params       epidemic.Params
	R0           float64
	PeakInfected float64
	PeakDay      float64
	Err          error
}

// RunMonteCarlo draws all parameter sets up front from a generator seeded
// with cfg.Seed, so the ensemble is reproducible regardless of Workers.
func RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig, opts ...experiment.Option) ([]Trial, error) {
	if cfg.Trials <= 0 {
		return nil, fmt.Errorf("trials=%d must be > 0", cfg.Trials)
	}
	if cfg.Perturbation < 0 || cfg.Perturbation >= 1 {
		return nil, fmt.Errorf("perturbation=%g must be in [0, 1)", cfg.Perturbation)
	}
	names := cfg.Params
	if len(names) == 0 {
		names = DefaultUncertain
	}
	for _, name := range names {
		if _, err := cfg.Base.Params.Get(name); err != nil {
			return nil, err
		}
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	trials := make([]Trial, cfg.Trials)
	for i := range trials {
		p := cfg.Base.Params
		for _, name := range names {
			v, _ := p.Get(name)
			p, _ = p.With(name, v*(1+(2*rng.Float64()-1)*cfg.Perturbation))
		}
		trials[i] = Trial{ID: i, Params: p, R0: p.ReproductionNumber()}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range trials {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ec := cfg.Base
			ec.Params = trials[i].Params
			run, err := experiment.New(ec, opts...).Run(gctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				trials[i].Err = err
				return nil
			}
			s := analysis.Summarize(run.Trajectory)
			trials[i].PeakInfected = s.PeakInfected
			trials[i].PeakDay = s.PeakDay
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return trials, nil
}

// Stats summarises the successful trials of an ensemble.
type Stats struct {
	Trials      int
	Failed      int
	MeanPeak    float64
	StdPeak     float64
	P05Peak     float64
	P95Peak     float64
	MeanPeakDay float64
	// Epidemic counts trials with R0 above one.
	Epidemic int
}

func Summarize(trials []Trial) Stats {
	st := Stats{Trials: len(trials)}
	peaks := make([]float64, 0, len(trials))
	days := make([]float64, 0, len(trials))
	for _, tr := range trials {
		if tr.Err != nil {
			st.Failed++
			continue
		}
		if tr.R0 > 1 {
			st.Epidemic++
		}
		peaks = append(peaks, tr.PeakInfected)
		days = append(days, tr.PeakDay)
	}
	if len(peaks) == 0 {
		return st
	}

	st.MeanPeak, st.StdPeak = stat.MeanStdDev(peaks, nil)
	if len(peaks) == 1 {
		st.StdPeak = 0
	}
	st.MeanPeakDay = stat.Mean(days, nil)
	slices.Sort(peaks)
	st.P05Peak = stat.Quantile(0.05, stat.Empirical, peaks, nil)
	st.P95Peak = stat.Quantile(0.95, stat.Empirical, peaks, nil)
	return st
}

package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/seirb/internal/dynamo"
	"github.com/san-kum/seirb/internal/epidemic"
	"github.com/san-kum/seirb/internal/experiment"
)

const (
	DefaultDays       = 365
	DefaultIntegrator = experiment.DefaultIntegrator
)

// Scenario is the on-disk description of one simulation.
type Scenario struct {
	Name       string          `yaml:"name,omitempty"`
	Days       int             `yaml:"days"`
	Integrator string          `yaml:"integrator"`
	Params     epidemic.Params `yaml:"params"`
	Solver     SolverConfig    `yaml:"solver"`
}

type SolverConfig struct {
	AbsTol       float64 `yaml:"abs_tol"`
	RelTol       float64 `yaml:"rel_tol"`
	InitialDt    float64 `yaml:"initial_dt,omitempty"`
	MinDt        float64 `yaml:"min_dt"`
	MaxDt        float64 `yaml:"max_dt"`
	MaxSteps     int     `yaml:"max_steps"`
	MaxMagnitude float64 `yaml:"max_magnitude"`
}

func DefaultSolver() SolverConfig {
	d := dynamo.DefaultConfig()
	return SolverConfig{
		AbsTol:       d.Tolerance.Abs,
		RelTol:       d.Tolerance.Rel,
		InitialDt:    d.InitialDt,
		MinDt:        d.MinDt,
		MaxDt:        d.MaxDt,
		MaxSteps:     d.MaxSteps,
		MaxMagnitude: d.MaxMagnitude,
	}
}

func (s SolverConfig) Dynamo() dynamo.Config {
	return dynamo.Config{
		Tolerance:    dynamo.Tolerance{Abs: s.AbsTol, Rel: s.RelTol},
		InitialDt:    s.InitialDt,
		MinDt:        s.MinDt,
		MaxDt:        s.MaxDt,
		MaxSteps:     s.MaxSteps,
		MaxMagnitude: s.MaxMagnitude,
	}
}

func DefaultScenario() *Scenario {
	return &Scenario{
		Days:       DefaultDays,
		Integrator: DefaultIntegrator,
		Params:     epidemic.DefaultParams(),
		Solver:     DefaultSolver(),
	}
}

// Load reads a YAML scenario. Keys missing from the file keep their
// default values.
func Load(path string) (*Scenario, error) {
	return LoadWithBase(path, DefaultScenario())
}

// LoadWithBase is Load with keys missing from the file taken from base.
// base is not modified.
func LoadWithBase(path string, base *Scenario) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc := base.Clone()
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return sc, nil
}

func Save(path string, sc *Scenario) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *Scenario) Clone() *Scenario {
	c := *s
	return &c
}

// Validate checks the scenario without running it.
func (s *Scenario) Validate() error {
	var errs []error
	if s.Days <= 0 {
		errs = append(errs, fmt.Errorf("%w: days=%d must be > 0", dynamo.ErrInvalidGrid, s.Days))
	}
	if _, err := experiment.NewRegistry().GetIntegrator(s.Integrator); err != nil {
		errs = append(errs, err)
	}
	if err := s.Params.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Scenario) Experiment() experiment.Config {
	return experiment.Config{
		Params:     s.Params,
		Days:       s.Days,
		Integrator: s.Integrator,
		Solver:     s.Solver.Dynamo(),
	}
}

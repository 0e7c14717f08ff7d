package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// MaxAbs returns the largest absolute component.
func (s State) MaxAbs() float64 {
	m := 0.0
	for _, v := range s {
		m = math.Max(m, math.Abs(v))
	}
	return m
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is the right-hand side of dX/dt = f(X, t). Derive must not retain
// or mutate x.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Stepper interface {
	Step(dyn System, x State, t, dt float64) State
}

// AdaptiveStepper takes a trial step and reports the scaled local error
// estimate (accepted when <= 1) together with a suggested next step size.
type AdaptiveStepper interface {
	Stepper
	StepAdaptive(dyn System, x State, t, dt float64, tol Tolerance) (next State, errRatio, dtNew float64)
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, t float64)
}

// Tolerance is a mixed absolute/relative error bound applied per component:
// |err_i| <= Abs + Rel*max(|x_i|, |x_new_i|).
type Tolerance struct {
	Abs float64
	Rel float64
}

type Config struct {
	Tolerance Tolerance
	// InitialDt is the first trial step. Zero picks a fraction of the first grid interval.
	InitialDt float64
	MinDt     float64
	// MaxDt bounds adaptive steps and is the fixed step for non-adaptive steppers.
	MaxDt        float64
	MaxSteps     int
	MaxMagnitude float64
}

func DefaultConfig() Config {
	return Config{
		Tolerance:    Tolerance{Abs: 1e-8, Rel: 1e-8},
		MinDt:        1e-10,
		MaxDt:        1.0,
		MaxSteps:     1_000_000,
		MaxMagnitude: 1e100,
	}
}

// Stats counts solver work for one run.
type Stats struct {
	Steps       int
	Rejected    int
	Evaluations int
	LastDt      float64
}

type Result struct {
	States  []State
	Times   []float64
	Metrics map[string]float64
	Stats   Stats
}

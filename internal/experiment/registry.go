package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/seirb/internal/dynamo"
	"github.com/san-kum/seirb/internal/epidemic"
	"github.com/san-kum/seirb/internal/integrators"
	"github.com/san-kum/seirb/internal/metrics"
)

const DefaultIntegrator = "rk45"

type Registry struct {
	integrators map[string]func() dynamo.Stepper
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Stepper),
	}

	r.integrators["euler"] = func() dynamo.Stepper { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Stepper { return integrators.NewRK4() }
	r.integrators["rk45"] = func() dynamo.Stepper { return integrators.NewRK45() }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Stepper, error) {
	if name == "" {
		name = DefaultIntegrator
	}
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns fresh metric instances for one run.
func (r *Registry) DefaultMetrics() []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewPeak("peak_infected", int(epidemic.Infectious)),
		metrics.NewPeakTime("peak_day", int(epidemic.Infectious)),
		metrics.NewPeak("peak_bacteria", int(epidemic.Bacteria)),
		metrics.NewFloor("min_value"),
		metrics.NewPopulationDrift("population_drift", int(epidemic.Bacteria)),
		metrics.NewStability(1e12),
	}
}

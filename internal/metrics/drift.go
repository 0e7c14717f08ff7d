package metrics

import (
	"math"

	"github.com/san-kum/seirb/internal/dynamo"
)

// PopulationDrift is the largest relative change of the sum of the first
// n components against its first observed value. Births, deaths and
// waning make it non-zero; without them it measures solver drift.
type PopulationDrift struct {
	name     string
	n        int
	initial  float64
	maxDrift float64
	samples  int
}

func NewPopulationDrift(name string, n int) *PopulationDrift {
	return &PopulationDrift{name: name, n: n}
}

func (d *PopulationDrift) Name() string { return d.name }

func (d *PopulationDrift) Observe(x dynamo.State, t float64) {
	total := 0.0
	for i := 0; i < d.n && i < len(x); i++ {
		total += x[i]
	}

	if d.samples == 0 {
		d.initial = total
	}
	d.samples++

	if d.initial != 0 {
		drift := math.Abs(total-d.initial) / math.Abs(d.initial)
		d.maxDrift = math.Max(d.maxDrift, drift)
	}
}

func (d *PopulationDrift) Value() float64 {
	return d.maxDrift
}

func (d *PopulationDrift) Reset() {
	d.initial = 0
	d.maxDrift = 0
	d.samples = 0
}

package metrics

import (
	"math"

	"github.com/san-kum/seirb/internal/dynamo"
)

// Floor records the smallest component value seen. A negative floor flags
// non-physical transients from the continuous approximation.
type Floor struct {
	name    string
	min     float64
	samples int
}

func NewFloor(name string) *Floor {
	return &Floor{name: name, min: math.Inf(1)}
}

func (f *Floor) Name() string { return f.name }

func (f *Floor) Observe(x dynamo.State, t float64) {
	for _, v := range x {
		f.min = math.Min(f.min, v)
	}
	f.samples++
}

func (f *Floor) Value() float64 {
	if f.samples == 0 {
		return 0
	}
	return f.min
}

func (f *Floor) Reset() {
	f.min = math.Inf(1)
	f.samples = 0
}

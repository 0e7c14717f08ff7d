package metrics

import (
	"math"

	"github.com/san-kum/seirb/internal/dynamo"
)

// Peak tracks the largest value of one state component.
type Peak struct {
	name    string
	index   int
	value   float64
	time    float64
	samples int
}

func NewPeak(name string, index int) *Peak {
	return &Peak{name: name, index: index, value: math.Inf(-1)}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(x dynamo.State, t float64) {
	if p.index >= len(x) {
		return
	}
	p.samples++
	if x[p.index] > p.value {
		p.value = x[p.index]
		p.time = t
	}
}

func (p *Peak) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.value
}

// Time is when the peak was first reached.
func (p *Peak) Time() float64 { return p.time }

func (p *Peak) Reset() {
	p.value = math.Inf(-1)
	p.time = 0
	p.samples = 0
}

// PeakTime reports the time of a component's maximum as a metric.
type PeakTime struct {
	Peak
}

func NewPeakTime(name string, index int) *PeakTime {
	return &PeakTime{Peak: Peak{name: name, index: index, value: math.Inf(-1)}}
}

func (p *PeakTime) Value() float64 { return p.time }

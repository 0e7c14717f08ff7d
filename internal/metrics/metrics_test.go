package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/seirb/internal/dynamo"
)

func TestPeak(t *testing.T) {
	m := NewPeak("peak_i", 2)

	if m.Value() != 0 {
		t.Errorf("expected zero before observations, got %f", m.Value())
	}

	series := []float64{1, 5, 40, 12, 40, 3}
	for day, v := range series {
		m.Observe(dynamo.State{0, 0, v, 0, 0}, float64(day))
	}

	if m.Value() != 40 {
		t.Errorf("expected peak 40, got %f", m.Value())
	}
	if m.Time() != 2 {
		t.Errorf("expected first peak at day 2, got %f", m.Time())
	}

	m.Reset()
	if m.Value() != 0 || m.Time() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestPeakTime(t *testing.T) {
	m := NewPeakTime("peak_day", 0)
	for day, v := range []float64{3, 9, 4} {
		m.Observe(dynamo.State{v}, float64(day)*0.5)
	}

	if m.Value() != 0.5 {
		t.Errorf("expected peak time 0.5, got %f", m.Value())
	}
	if m.Name() != "peak_day" {
		t.Errorf("unexpected name %s", m.Name())
	}
}

func TestPeakIgnoresShortState(t *testing.T) {
	m := NewPeak("p", 4)
	m.Observe(dynamo.State{1, 2}, 0)
	if m.Value() != 0 {
		t.Errorf("expected no observation, got %f", m.Value())
	}
}

func TestFloor(t *testing.T) {
	m := NewFloor("min")
	m.Observe(dynamo.State{3, 2, 1}, 0)
	m.Observe(dynamo.State{3, -1e-9, 1}, 1)

	if m.Value() != -1e-9 {
		t.Errorf("expected floor -1e-9, got %g", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected zero after reset, got %g", m.Value())
	}
}

func TestPopulationDrift(t *testing.T) {
	m := NewPopulationDrift("drift", 4)

	m.Observe(dynamo.State{900, 50, 30, 20, 1e6}, 0)
	m.Observe(dynamo.State{800, 100, 60, 40, 5}, 1)
	if m.Value() != 0 {
		t.Errorf("expected zero drift for conserved population, got %g", m.Value())
	}

	m.Observe(dynamo.State{800, 100, 60, 50, 5}, 2)
	if math.Abs(m.Value()-0.01) > 1e-12 {
		t.Errorf("expected drift 0.01, got %g", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestStability(t *testing.T) {
	m := NewStability(100)
	if m.Value() != 1.0 {
		t.Errorf("expected 1.0 with no samples, got %f", m.Value())
	}

	m.Observe(dynamo.State{1, 2}, 0)
	m.Observe(dynamo.State{1, 200}, 1)
	m.Observe(dynamo.State{math.NaN(), 0}, 2)
	m.Observe(dynamo.State{-50, 0}, 3)

	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}

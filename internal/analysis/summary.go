package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/seirb/internal/dynamo"
	"github.com/san-kum/seirb/internal/epidemic"
)

// Summary condenses a trajectory into the quantities reported after a run.
type Summary struct {
	PeakInfected    float64      `json:"peak_infected"`
	PeakDay         float64      `json:"peak_day"`
	PeakBacteria    float64      `json:"peak_bacteria"`
	PeakBacteriaDay float64      `json:"peak_bacteria_day"`
	Final           dynamo.State `json:"final"`
	MinValue        float64      `json:"min_value"`
	R0              float64      `json:"-"`
	Days            float64      `json:"days"`
	Stats           dynamo.Stats `json:"stats"`
}

// Summarize returns the zero Summary for an empty trajectory.
func Summarize(tr *epidemic.Trajectory) Summary {
	if tr == nil || tr.Len() == 0 {
		return Summary{}
	}

	n := tr.Len()
	iPeak := floats.MaxIdx(tr.I)
	bPeak := floats.MaxIdx(tr.B)

	minValue := math.Inf(1)
	for _, c := range epidemic.Compartments {
		minValue = math.Min(minValue, floats.Min(tr.Series(c)))
	}

	return Summary{
		PeakInfected:    tr.I[iPeak],
		PeakDay:         tr.Times[iPeak],
		PeakBacteria:    tr.B[bPeak],
		PeakBacteriaDay: tr.Times[bPeak],
		Final:           tr.State(n - 1),
		MinValue:        minValue,
		R0:              tr.Params.ReproductionNumber(),
		Days:            tr.Times[n-1] - tr.Times[0],
		Stats:           tr.Stats,
	}
}

// SteadyState reports whether every compartment varied by at most
// tol*max(1, |mean|) over the last window samples, and returns the final
// state when it did.
func SteadyState(tr *epidemic.Trajectory, window int, tol float64) (dynamo.State, bool) {
	if tr == nil || window < 2 || tr.Len() < window {
		return nil, false
	}

	start := tr.Len() - window
	for _, c := range epidemic.Compartments {
		tail := tr.Series(c)[start:]
		spread := floats.Max(tail) - floats.Min(tail)
		mean := floats.Sum(tail) / float64(len(tail))
		if spread > tol*math.Max(1, math.Abs(mean)) {
			return nil, false
		}
	}

	return tr.State(tr.Len() - 1), true
}

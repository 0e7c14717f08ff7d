package export

import (
	"encoding/json"
	"io"
	"math"
	"time"

	"github.com/san-kum/seirb/internal/analysis"
	"github.com/san-kum/seirb/internal/epidemic"
	"github.com/san-kum/seirb/internal/experiment"
)

type Series struct {
	Day []float64 `json:"day"`
	S   []float64 `json:"S"`
	E   []float64 `json:"E"`
	I   []float64 `json:"I"`
	R   []float64 `json:"R"`
	B   []float64 `json:"B"`
}

// Document is the JSON form of one run.
type Document struct {
	RunID      string             `json:"run_id"`
	CreatedAt  time.Time          `json:"created_at"`
	Integrator string             `json:"integrator"`
	Days       int                `json:"days"`
	Params     epidemic.Params    `json:"params"`
	R0         *float64           `json:"r0,omitempty"`
	Summary    analysis.Summary   `json:"summary"`
	Metrics    map[string]float64 `json:"metrics"`
	Series     Series             `json:"series"`
}

func NewDocument(run *experiment.Run) Document {
	tr := run.Trajectory
	doc := Document{
		RunID:      run.ID,
		CreatedAt:  run.Started.UTC(),
		Integrator: run.Config.Integrator,
		Days:       run.Config.Days,
		Params:     run.Config.Params,
		Summary:    analysis.Summarize(tr),
		Metrics:    finiteOnly(tr.Metrics),
		Series: Series{
			Day: tr.Times,
			S:   tr.S,
			E:   tr.E,
			I:   tr.I,
			R:   tr.R,
			B:   tr.B,
		},
	}

	// R0 is infinite when bacteria never decay.
	if r0 := doc.Summary.R0; !math.IsInf(r0, 0) && !math.IsNaN(r0) {
		doc.R0 = &r0
	}
	return doc
}

func finiteOnly(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			out[k] = v
		}
	}
	return out
}

func WriteJSON(w io.Writer, run *experiment.Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(run))
}

package export

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/seirb/internal/epidemic"
	"github.com/san-kum/seirb/internal/experiment"
)

func simulatedRun(t *testing.T, days int) *experiment.Run {
	t.Helper()
	cfg := experiment.DefaultConfig()
	cfg.Days = days
	run, err := experiment.New(cfg).Run(context.Background())
	require.NoError(t, err)
	return run
}

func TestWriteCSV(t *testing.T) {
	run := simulatedRun(t, 30)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, run.Trajectory))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 32)
	assert.Equal(t, "day,S,E,I,R,B", lines[0])
	assert.Equal(t, "0,999,1,1,0,1", lines[1])
	assert.True(t, strings.HasPrefix(lines[31], "30,"), lines[31])
}

func TestCSVRoundTrip(t *testing.T) {
	run := simulatedRun(t, 30)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, run.Trajectory))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Equal(t, run.Trajectory.Len(), got.Len())

	assert.Equal(t, run.Trajectory.Times, got.Times)
	for _, c := range epidemic.Compartments {
		assert.Equal(t, run.Trajectory.Series(c), got.Series(c), c.String())
	}
}

func TestCSVKeepsSmallTails(t *testing.T) {
	tr := &epidemic.Trajectory{
		Times: []float64{0, 1},
		S:     []float64{999, 998.5},
		E:     []float64{1, 3.2e-9},
		I:     []float64{1, 4.7e-12},
		R:     []float64{0, -2.5e-10},
		B:     []float64{1, 1.25e-15},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tr))
	got, err := ReadCSV(&buf)
	require.NoError(t, err)

	assert.Equal(t, 4.7e-12, got.I[1])
	assert.Equal(t, 1.25e-15, got.B[1])
	assert.Equal(t, -2.5e-10, got.R[1])
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("t,S,E,I,R,B\n"))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("day,S,E,I,R,B\n0,1,2,x,4,5\n"))
	assert.ErrorContains(t, err, "line 2")
}

func TestWriteJSON(t *testing.T) {
	run := simulatedRun(t, 20)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, run))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, run.ID, doc["run_id"])
	assert.Equal(t, "rk45", doc["integrator"])
	assert.InDelta(t, run.Config.Params.ReproductionNumber(), doc["r0"], 1e-9)

	params := doc["params"].(map[string]any)
	assert.Equal(t, 0.6, params["beta"])
	assert.Equal(t, 0.3, params["mu_b"])

	series := doc["series"].(map[string]any)
	assert.Len(t, series["I"], 21)
}

func TestWriteJSONInfiniteR0(t *testing.T) {
	p := epidemic.DefaultParams()
	p.MuB = 0
	run := &experiment.Run{
		ID:      "fixed",
		Started: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Config:  experiment.Config{Params: p, Days: 1, Integrator: "rk4"},
		Trajectory: &epidemic.Trajectory{
			Times:   []float64{0, 1},
			S:       []float64{999, 998},
			E:       []float64{1, 1},
			I:       []float64{1, 2},
			R:       []float64{0, 0},
			B:       []float64{1, 11},
			Params:  p,
			Metrics: map[string]float64{"peak_infected": 2},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, run))
	assert.NotContains(t, buf.String(), `"r0"`)
	assert.Contains(t, buf.String(), `"created_at": "2024-01-01T00:00:00Z"`)
}

func TestWritePNG(t *testing.T) {
	run := simulatedRun(t, 60)

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, run.Trajectory, 400, 300))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestYRangeShowsNegativeTransients(t *testing.T) {
	tr := &epidemic.Trajectory{
		Times: []float64{0, 1, 2},
		S:     []float64{100, 90, 80},
		E:     []float64{0, 5, 2},
		I:     []float64{0, 3, -4},
		R:     []float64{0, 2, 10},
		B:     []float64{0, 1, 0},
	}

	lo, hi := yRange(tr)
	assert.InDelta(t, -4.2, lo, 1e-12)
	assert.InDelta(t, 105.0, hi, 1e-12)

	tr.I[2] = 0
	lo, _ = yRange(tr)
	assert.Equal(t, 0.0, lo)

	var buf bytes.Buffer
	tr.I[2] = -4
	require.NoError(t, WritePNG(&buf, tr, 400, 300))
	assert.NotZero(t, buf.Len())
}

func TestWritePNGTooShort(t *testing.T) {
	tr := &epidemic.Trajectory{Times: []float64{0}, S: []float64{1}, E: []float64{0}, I: []float64{0}, R: []float64{0}, B: []float64{0}}
	assert.Error(t, WritePNG(&bytes.Buffer{}, tr, 0, 0))
}

func TestSaveBundle(t *testing.T) {
	run := simulatedRun(t, 15)
	base := t.TempDir()

	dir, err := SaveBundle(base, run)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, run.ID), dir)

	for _, name := range []string{BundleJSON, BundleCSV, BundlePNG} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
}

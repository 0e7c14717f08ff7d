package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/seirb/internal/epidemic"
	"github.com/san-kum/seirb/internal/experiment"
)

const batchYAML = `name: interventions
steps:
  - name: baseline
    days: 90
  - name: contact
    days: 90
    params:
      beta: 0.25
  - days: -1
`

func writeBatch(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(batchYAML), 0644))
	return path
}

func TestLoadBatchKeepsDefaults(t *testing.T) {
	b, err := LoadBatch(writeBatch(t))
	require.NoError(t, err)

	assert.Equal(t, "interventions", b.Name)
	require.Len(t, b.Steps, 3)
	assert.Equal(t, "baseline", b.Steps[0].Name)
	assert.Equal(t, 10.0, b.Steps[1].Params.Xi)
	assert.Equal(t, 0.25, b.Steps[1].Params.Beta)
	assert.Equal(t, "step-3", b.Steps[2].Name)
}

func TestLoadBatchEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: nothing\n"), 0644))

	_, err := LoadBatch(path)
	assert.ErrorContains(t, err, "no steps")
}

func TestRunBatchContinuesPastFailures(t *testing.T) {
	b, err := LoadBatch(writeBatch(t))
	require.NoError(t, err)

	results, err := RunBatch(context.Background(), b, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.NoError(t, results[0].Err)
	require.NoError(t, results[1].Err)
	assert.Error(t, results[2].Err)
	assert.Nil(t, results[2].Run)

	base := results[0].Run.Trajectory.Series(epidemic.Infectious)
	contact := results[1].Run.Trajectory.Series(epidemic.Infectious)
	assert.Less(t, floats.Max(contact), floats.Max(base))
}

func monteCarloConfig() MonteCarloConfig {
	base := experiment.DefaultConfig()
	base.Days = 90
	return MonteCarloConfig{
		Base:         base,
		Perturbation: 0.2,
		Trials:       8,
		Seed:         7,
		Workers:      3,
	}
}

func TestMonteCarloReproducible(t *testing.T) {
	cfg := monteCarloConfig()
	a, err := RunMonteCarlo(context.Background(), cfg)
	require.NoError(t, err)
	cfg.Workers = 1
	b, err := RunMonteCarlo(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, a, cfg.Trials)
	for i := range a {
		assert.Equal(t, i, a[i].ID)
		assert.Equal(t, a[i].Params, b[i].Params)
		assert.Equal(t, a[i].PeakInfected, b[i].PeakInfected)
		assert.NoError(t, a[i].Err)
	}
}

func TestMonteCarloPerturbsWithinBounds(t *testing.T) {
	cfg := monteCarloConfig()
	cfg.Params = []string{"beta"}
	trials, err := RunMonteCarlo(context.Background(), cfg)
	require.NoError(t, err)

	for _, tr := range trials {
		assert.InDelta(t, 0.6, tr.Params.Beta, 0.6*0.2)
		assert.Equal(t, 10.0, tr.Params.K)
	}
}

func TestMonteCarloRejectsBadConfig(t *testing.T) {
	cfg := monteCarloConfig()
	cfg.Trials = 0
	_, err := RunMonteCarlo(context.Background(), cfg)
	assert.Error(t, err)

	cfg = monteCarloConfig()
	cfg.Perturbation = 1.5
	_, err = RunMonteCarlo(context.Background(), cfg)
	assert.Error(t, err)

	cfg = monteCarloConfig()
	cfg.Params = []string{"contact_rate"}
	_, err = RunMonteCarlo(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown parameter")
}

func TestMonteCarloCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunMonteCarlo(ctx, monteCarloConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarize(t *testing.T) {
	trials := []Trial{
		{R0: 3, PeakInfected: 10, PeakDay: 20},
		{R0: 0.5, PeakInfected: 2, PeakDay: 0},
		{R0: 2, PeakInfected: 6, PeakDay: 40},
		{Err: assert.AnError},
	}
	st := Summarize(trials)

	assert.Equal(t, 4, st.Trials)
	assert.Equal(t, 1, st.Failed)
	assert.Equal(t, 2, st.Epidemic)
	assert.InDelta(t, 6.0, st.MeanPeak, 1e-12)
	assert.InDelta(t, 20.0, st.MeanPeakDay, 1e-12)
	assert.Equal(t, 2.0, st.P05Peak)
	assert.Equal(t, 10.0, st.P95Peak)
	assert.Greater(t, st.StdPeak, 0.0)

	assert.Equal(t, Stats{Trials: 1, Failed: 1}, Summarize([]Trial{{Err: assert.AnError}}))
}

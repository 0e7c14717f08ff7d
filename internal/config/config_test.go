package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/seirb/internal/dynamo"
	"github.com/san-kum/seirb/internal/epidemic"
)

func TestDefaultScenario(t *testing.T) {
	sc := DefaultScenario()

	assert.Equal(t, 365, sc.Days)
	assert.Equal(t, "rk45", sc.Integrator)
	assert.Equal(t, epidemic.DefaultParams(), sc.Params)
	assert.NoError(t, sc.Validate())

	cfg := sc.Experiment()
	assert.Equal(t, dynamo.DefaultConfig(), cfg.Solver)
	assert.Equal(t, sc.Days, cfg.Days)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")

	sc := DefaultScenario()
	sc.Name = "custom"
	sc.Days = 200
	sc.Params.Beta = 0.45
	sc.Params.MuB = 0.25
	sc.Solver.RelTol = 1e-6

	require.NoError(t, Save(path, sc))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sc, loaded)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "days: 90\nparams:\n  beta: 0.3\n  mu_b: 0.5\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	sc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 90, sc.Days)
	assert.Equal(t, 0.3, sc.Params.Beta)
	assert.Equal(t, 0.5, sc.Params.MuB)
	assert.Equal(t, 10.0, sc.Params.K)
	assert.Equal(t, "rk45", sc.Integrator)
	assert.Equal(t, 1e-8, sc.Solver.AbsTol)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("days: [1, 2"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	sc := DefaultScenario()
	sc.Days = 0
	sc.Params.K = 0
	sc.Integrator = "leapfrog"

	err := sc.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, dynamo.ErrInvalidGrid)
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
	assert.Contains(t, err.Error(), "leapfrog")
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	assert.Equal(t, []string{"disease-free", "high-transmission", "kenya", "low-transmission", "no-waning"}, names)

	for _, name := range names {
		sc := GetPreset(name)
		require.NotNil(t, sc, name)
		assert.Equal(t, name, sc.Name)
		assert.NoError(t, sc.Validate(), name)
	}

	assert.Nil(t, GetPreset("nonexistent"))
}

func TestPresetIsFreshCopy(t *testing.T) {
	a := GetPreset("kenya")
	a.Params.Beta = 0.11
	b := GetPreset("kenya")
	assert.Equal(t, 0.6, b.Params.Beta)
}

func TestPresetContents(t *testing.T) {
	low := GetPreset("low-transmission")
	high := GetPreset("high-transmission")
	assert.Less(t, low.Params.ReproductionNumber(), high.Params.ReproductionNumber())

	free := GetPreset("disease-free")
	assert.Zero(t, free.Params.I0)
	assert.Zero(t, free.Params.B0)
	assert.Zero(t, free.Params.E0)

	noWaning := GetPreset("no-waning")
	assert.Zero(t, noWaning.Params.Omega)
	assert.Zero(t, noWaning.Params.Mu)
}

func TestSliders(t *testing.T) {
	for _, s := range Sliders {
		assert.LessOrEqual(t, s.Min, s.Default, s.Name)
		assert.GreaterOrEqual(t, s.Max, s.Default, s.Name)
		assert.Positive(t, s.Step, s.Name)

		sc := DefaultScenario()
		_, err := sc.SliderValue(s.Name)
		assert.NoError(t, err, s.Name)
	}

	beta, ok := GetSlider("beta")
	require.True(t, ok)
	assert.Equal(t, 1.0, beta.Clamp(3))
	assert.Equal(t, 0.1, beta.Clamp(-1))
	assert.InDelta(t, 0.65, beta.Nudge(0.6, 1), 1e-12)
	assert.InDelta(t, 0.55, beta.Nudge(0.6, -1), 1e-12)
	assert.Equal(t, 1.0, beta.Nudge(1.0, 1))

	_, ok = GetSlider("alpha")
	assert.False(t, ok)
}

func TestSetSlider(t *testing.T) {
	sc := DefaultScenario()

	require.NoError(t, sc.SetSlider("xi", 15))
	assert.Equal(t, 15.0, sc.Params.Xi)

	require.NoError(t, sc.SetSlider("xi", 100))
	assert.Equal(t, 20.0, sc.Params.Xi)

	require.NoError(t, sc.SetSlider(DaysSlider, 120))
	assert.Equal(t, 120, sc.Days)

	days, err := sc.SliderValue(DaysSlider)
	require.NoError(t, err)
	assert.Equal(t, 120.0, days)

	assert.Error(t, sc.SetSlider("alpha", 1))
}

func TestLoadSettings(t *testing.T) {
	t.Setenv("SEIRB_LOG_LEVEL", "debug")
	t.Setenv("SEIRB_TIMEOUT", "5s")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, 5*time.Second, s.Timeout)
	assert.Equal(t, ".", s.OutputDir)
}

func TestLoadSettingsInvalid(t *testing.T) {
	t.Setenv("SEIRB_TIMEOUT", "soon")

	_, err := LoadSettings()
	assert.Error(t, err)
}

func TestLoadWithBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	require.NoError(t, os.WriteFile(path, []byte("params:\n  xi: 4\n"), 0644))

	base := GetPreset("no-waning")
	sc, err := LoadWithBase(path, base)
	require.NoError(t, err)

	assert.Equal(t, 4.0, sc.Params.Xi)
	assert.Zero(t, sc.Params.Omega)
	assert.Equal(t, 730, sc.Days)
	assert.Equal(t, 10.0, base.Params.Xi)
}

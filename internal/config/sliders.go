package config

import (
	"fmt"
	"math"

	"github.com/san-kum/seirb/internal/epidemic"
)

// Slider bounds one tunable input of the interactive view.
type Slider struct {
	Name    string
	Label   string
	Min     float64
	Max     float64
	Step    float64
	Default float64
}

// DaysSlider is the only slider that is not a model parameter.
const DaysSlider = "days"

var Sliders = []Slider{
	{Name: "beta", Label: "Transmission rate (β)", Min: 0.1, Max: 1.0, Step: 0.05, Default: 0.6},
	{Name: "k", Label: "Half-saturation constant (k)", Min: 1, Max: 50, Step: 1, Default: 10},
	{Name: "sigma", Label: "Incubation rate (σ)", Min: 0.1, Max: 1.0, Step: 0.05, Default: 0.5},
	{Name: "gamma", Label: "Recovery rate (γ)", Min: 0.05, Max: 1.0, Step: 0.05, Default: 0.2},
	{Name: "xi", Label: "Bacteria shedding rate (ξ)", Min: 1, Max: 20, Step: 1, Default: 10},
	{Name: "mu_b", Label: "Bacterial decay rate (μB)", Min: 0.1, Max: 1.0, Step: 0.05, Default: 0.3},
	{Name: "omega", Label: "Loss of immunity rate (ω)", Min: 0, Max: 0.005, Step: 0.0001, Default: epidemic.DefaultOmega},
	{Name: DaysSlider, Label: "Simulation days", Min: 30, Max: 730, Step: 10, Default: DefaultDays},
	{Name: "n", Label: "Total population (N)", Min: 100, Max: 1e6, Step: 100, Default: 1000},
	{Name: "i0", Label: "Initial infectious (I₀)", Min: 0, Max: 1000, Step: 1, Default: 1},
	{Name: "b0", Label: "Initial bacteria (B₀)", Min: 0, Max: 1e4, Step: 1, Default: 1},
}

func GetSlider(name string) (Slider, bool) {
	for _, s := range Sliders {
		if s.Name == name {
			return s, true
		}
	}
	return Slider{}, false
}

func (s Slider) Clamp(v float64) float64 {
	return math.Max(s.Min, math.Min(s.Max, v))
}

// Nudge moves v by steps increments and clamps the result. The sum is
// rounded to nine decimals so repeated nudges do not drift.
func (s Slider) Nudge(v float64, steps int) float64 {
	next := v + float64(steps)*s.Step
	next = math.Round(next*1e9) / 1e9
	return s.Clamp(next)
}

// SliderValue reads the slider's current value from sc.
func (sc *Scenario) SliderValue(name string) (float64, error) {
	if name == DaysSlider {
		return float64(sc.Days), nil
	}
	return sc.Params.Get(name)
}

// SetSlider writes v, clamped to the slider bounds, into sc.
func (sc *Scenario) SetSlider(name string, v float64) error {
	s, ok := GetSlider(name)
	if !ok {
		return fmt.Errorf("unknown slider: %s", name)
	}
	v = s.Clamp(v)

	if name == DaysSlider {
		sc.Days = int(math.Round(v))
		return nil
	}
	p, err := sc.Params.With(name, v)
	if err != nil {
		return err
	}
	sc.Params = p
	return nil
}

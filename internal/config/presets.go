package config

import "sort"

var Presets = map[string]func() *Scenario{
	// Reference outbreak with the default parameters.
	"kenya": func() *Scenario {
		sc := DefaultScenario()
		sc.Name = "kenya"
		return sc
	},
	"low-transmission": func() *Scenario {
		sc := DefaultScenario()
		sc.Name = "low-transmission"
		sc.Params.Beta = 0.2
		sc.Params.Xi = 2
		return sc
	},
	"high-transmission": func() *Scenario {
		sc := DefaultScenario()
		sc.Name = "high-transmission"
		sc.Params.Beta = 0.95
		sc.Params.Xi = 18
		sc.Params.MuB = 0.15
		return sc
	},
	// Lifelong immunity without births or deaths: a single outbreak that
	// settles.
	"no-waning": func() *Scenario {
		sc := DefaultScenario()
		sc.Name = "no-waning"
		sc.Params.Omega = 0
		sc.Params.Mu = 0
		sc.Days = 730
		return sc
	},
	// E0 is cleared too: the default single exposed person would seed an
	// outbreak on its own.
	"disease-free": func() *Scenario {
		sc := DefaultScenario()
		sc.Name = "disease-free"
		sc.Params.I0, sc.Params.B0, sc.Params.E0 = 0, 0, 0
		return sc
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Scenario {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package scenario

import "sort"

// Built-in scenario presets for common introduction patterns.
// Each returns a valid ScenarioSpec ready for Build.

// ScenarioLateBloomers introduces assets that perform better than the
// ones initially available: D arrives at 500 offers, E passes through
// on a window, and F at 700 outperforms everything.
func ScenarioLateBloomers() *ScenarioSpec {
	return &ScenarioSpec{
		Name: "late-bloomers",
		Assets: []AssetSpec{
			{Name: "A", Likelihood: 0.03}, {Name: "B", Likelihood: 0.045}, {Name: "C", Likelihood: 0.067},
			{Name: "D", Likelihood: 0.15}, {Name: "E", Likelihood: 0.02}, {Name: "F", Likelihood: 0.24},
		},
		Schedule: []EntrySpec{
			{From: 0, Assets: []string{"A", "B", "C"}},
			{From: 500, Assets: []string{"D"}},
			{From: 600, Until: 800, Assets: []string{"E"}},
			{From: 700, Assets: []string{"F"}},
		},
	}
}

// ScenarioEarlyWinner introduces assets that do not perform as well as
// ones available from the start: A dominates and the late F is nearly
// dead weight.
func ScenarioEarlyWinner() *ScenarioSpec {
	return &ScenarioSpec{
		Name: "early-winner",
		Assets: []AssetSpec{
			{Name: "A", Likelihood: 0.3}, {Name: "B", Likelihood: 0.045}, {Name: "C", Likelihood: 0.067},
			{Name: "D", Likelihood: 0.15}, {Name: "E", Likelihood: 0.02}, {Name: "F", Likelihood: 0.0024},
		},
		Schedule: []EntrySpec{
			{From: 0, Assets: []string{"A", "B", "C"}},
			{From: 500, Assets: []string{"D"}},
			{From: 600, Until: 800, Assets: []string{"E"}},
			{From: 700, Assets: []string{"F"}},
		},
	}
}

// ScenarioSteadyClimb continues to introduce assets that perform
// better than the previous ones, in small steps.
func ScenarioSteadyClimb() *ScenarioSpec {
	return &ScenarioSpec{
		Name: "steady-climb",
		Assets: []AssetSpec{
			{Name: "A", Likelihood: 0.02}, {Name: "B", Likelihood: 0.03}, {Name: "C", Likelihood: 0.04},
			{Name: "D", Likelihood: 0.08}, {Name: "E", Likelihood: 0.09}, {Name: "F", Likelihood: 0.11},
		},
		Schedule: []EntrySpec{
			{From: 0, Assets: []string{"A", "B", "C"}},
			{From: 500, Assets: []string{"D"}},
			{From: 600, Until: 800, Assets: []string{"E"}},
			{From: 700, Assets: []string{"F"}},
		},
	}
}

// presetFactories maps preset names to constructors. Unexported to
// prevent mutation.
var presetFactories = map[string]func() *ScenarioSpec{
	"late-bloomers": ScenarioLateBloomers,
	"early-winner":  ScenarioEarlyWinner,
	"steady-climb":  ScenarioSteadyClimb,
}

// IsValidPreset returns true if name is a built-in scenario.
func IsValidPreset(name string) bool {
	_, ok := presetFactories[name]
	return ok
}

// PresetNames returns the sorted built-in scenario names.
func PresetNames() []string {
	names := make([]string, 0, len(presetFactories))
	for name := range presetFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns a fresh spec for the named built-in scenario.
// Panics on unrecognized names; callers check IsValidPreset first.
func Preset(name string) *ScenarioSpec {
	factory, ok := presetFactories[name]
	if !ok {
		panic("unknown scenario preset " + name)
	}
	return factory()
}

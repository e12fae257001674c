package scenario

import (
	"sort"
	"testing"
)

func TestPresetScenarios_Validate(t *testing.T) {
	tests := []struct {
		name string
		spec *ScenarioSpec
	}{
		{"late-bloomers", ScenarioLateBloomers()},
		{"early-winner", ScenarioEarlyWinner()},
		{"steady-climb", ScenarioSteadyClimb()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.spec.Validate(); err != nil {
				t.Errorf("preset %s failed validation: %v", tt.name, err)
			}
			if _, _, err := tt.spec.Build(); err != nil {
				t.Errorf("preset %s failed to build: %v", tt.name, err)
			}
		})
	}
}

func TestScenarioLateBloomers_Shape(t *testing.T) {
	spec := ScenarioLateBloomers()

	if len(spec.Assets) != 6 {
		t.Fatalf("asset count = %d, want 6", len(spec.Assets))
	}
	if len(spec.Schedule) != 4 {
		t.Fatalf("schedule count = %d, want 4", len(spec.Schedule))
	}

	// E is admitted only inside [600, 800); F from 700 onward.
	var windowed, late *EntrySpec
	for i := range spec.Schedule {
		e := &spec.Schedule[i]
		if e.Until == 800 {
			windowed = e
		}
		if e.From == 700 {
			late = e
		}
	}
	if windowed == nil || windowed.From != 600 || windowed.Assets[0] != "E" {
		t.Errorf("windowed entry = %+v, want E over [600, 800)", windowed)
	}
	if late == nil || late.Assets[0] != "F" {
		t.Errorf("late entry = %+v, want F from 700", late)
	}
}

func TestPresetNames_SortedAndComplete(t *testing.T) {
	names := PresetNames()
	if !sort.StringsAreSorted(names) {
		t.Errorf("PresetNames() = %v, not sorted", names)
	}
	if len(names) != 3 {
		t.Errorf("preset count = %d, want 3", len(names))
	}
	for _, name := range names {
		if !IsValidPreset(name) {
			t.Errorf("IsValidPreset(%q) = false for a listed preset", name)
		}
	}
}

func TestPreset_UnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Preset(unknown) did not panic")
		}
	}()
	Preset("definitely-not-a-preset")
}

func TestPresets_ReturnFreshCopies(t *testing.T) {
	first := Preset("late-bloomers")
	first.Assets[0].Likelihood = 0.99

	second := Preset("late-bloomers")
	if second.Assets[0].Likelihood == 0.99 {
		t.Error("presets share state across calls")
	}
}

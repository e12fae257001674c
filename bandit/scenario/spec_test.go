package scenario

import (
	"os"
	"path/filepath"
	"testing"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario_ValidYAML_LoadsCorrectly(t *testing.T) {
	path := writeScenario(t, `
name: two-phase
assets:
  - name: A
    likelihood: 0.03
  - name: D
    likelihood: 0.15
schedule:
  - from: 0
    assets: [A]
  - from: 500
    until: 800
    assets: [D]
`)

	spec, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Name != "two-phase" {
		t.Errorf("name = %q, want %q", spec.Name, "two-phase")
	}
	if len(spec.Assets) != 2 {
		t.Fatalf("assets count = %d, want 2", len(spec.Assets))
	}
	if spec.Assets[1].Name != "D" || spec.Assets[1].Likelihood != 0.15 {
		t.Errorf("asset[1] = %+v, want D/0.15", spec.Assets[1])
	}
	if len(spec.Schedule) != 2 {
		t.Fatalf("schedule count = %d, want 2", len(spec.Schedule))
	}
	if spec.Schedule[1].From != 500 || spec.Schedule[1].Until != 800 {
		t.Errorf("schedule[1] window = [%d, %d), want [500, 800)",
			spec.Schedule[1].From, spec.Schedule[1].Until)
	}
}

func TestLoadScenario_UnknownKey_ReturnsError(t *testing.T) {
	path := writeScenario(t, `
name: typo
assets:
  - name: A
    likelyhood: 0.03
schedule:
  - from: 0
    assets: [A]
`)

	if _, err := LoadScenario(path); err == nil {
		t.Fatal("expected error for unknown key, got nil")
	}
}

func TestLoadScenario_MissingFile_ReturnsError(t *testing.T) {
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestScenarioSpec_Validate(t *testing.T) {
	valid := func() *ScenarioSpec {
		return &ScenarioSpec{
			Name:   "base",
			Assets: []AssetSpec{{Name: "A", Likelihood: 0.1}, {Name: "B", Likelihood: 0.2}},
			Schedule: []EntrySpec{
				{From: 0, Assets: []string{"A"}},
				{From: 100, Until: 200, Assets: []string{"B"}},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*ScenarioSpec)
		wantErr bool
	}{
		{"valid", func(*ScenarioSpec) {}, false},
		{"missing name", func(s *ScenarioSpec) { s.Name = "" }, true},
		{"no assets", func(s *ScenarioSpec) { s.Assets = nil }, true},
		{"unnamed asset", func(s *ScenarioSpec) { s.Assets[0].Name = "" }, true},
		{"duplicate asset", func(s *ScenarioSpec) { s.Assets[1].Name = "A" }, true},
		{"likelihood above one", func(s *ScenarioSpec) { s.Assets[0].Likelihood = 1.2 }, true},
		{"likelihood negative", func(s *ScenarioSpec) { s.Assets[0].Likelihood = -0.2 }, true},
		{"no schedule", func(s *ScenarioSpec) { s.Schedule = nil }, true},
		{"negative from", func(s *ScenarioSpec) { s.Schedule[0].From = -5 }, true},
		{"inverted window", func(s *ScenarioSpec) { s.Schedule[1].Until = 50 }, true},
		{"entry without assets", func(s *ScenarioSpec) { s.Schedule[0].Assets = nil }, true},
		{"unknown asset reference", func(s *ScenarioSpec) { s.Schedule[0].Assets = []string{"Z"} }, true},
		{"no zero-start coverage", func(s *ScenarioSpec) { s.Schedule[0].From = 10 }, true},
		{"interval at zero is not coverage", func(s *ScenarioSpec) { s.Schedule[0].Until = 300 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := valid()
			tt.mutate(spec)
			err := spec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScenarioSpec_Build(t *testing.T) {
	spec := &ScenarioSpec{
		Name:   "build-check",
		Assets: []AssetSpec{{Name: "A", Likelihood: 0.1}, {Name: "B", Likelihood: 0.9}},
		Schedule: []EntrySpec{
			{From: 0, Assets: []string{"A"}},
			{From: 2, Assets: []string{"B"}},
		},
	}

	set, assets, err := spec.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(assets) != 2 || assets[0].Name() != "A" || assets[1].Name() != "B" {
		t.Fatalf("assets = %v, want [A B] in declaration order", assets)
	}

	// B joins once the pool total reaches 2.
	if active := set.ActiveSet(false); len(active) != 1 || active[0] != assets[0] {
		t.Errorf("at total 0: active = %v, want [A]", active)
	}
	set.ActiveSetWithIncrement()
	set.ActiveSetWithIncrement()
	if active := set.ActiveSet(false); len(active) != 2 {
		t.Errorf("at total 2: active = %v, want [A B]", active)
	}
}

func TestScenarioSpec_Build_InvalidSpecErrors(t *testing.T) {
	spec := &ScenarioSpec{
		Name:     "broken",
		Assets:   []AssetSpec{{Name: "A", Likelihood: 0.1}},
		Schedule: []EntrySpec{{From: 10, Assets: []string{"A"}}},
	}
	if _, _, err := spec.Build(); err == nil {
		t.Fatal("Build() on a non-covering schedule did not error")
	}
}

func TestResolve_PresetAndPath(t *testing.T) {
	spec, err := Resolve("late-bloomers")
	if err != nil || spec.Name != "late-bloomers" {
		t.Errorf("Resolve(preset) = (%v, %v), want the preset", spec, err)
	}

	path := writeScenario(t, `
name: from-file
assets:
  - name: A
    likelihood: 0.5
schedule:
  - from: 0
    assets: [A]
`)
	spec, err = Resolve(path)
	if err != nil || spec.Name != "from-file" {
		t.Errorf("Resolve(path) = (%v, %v), want the file spec", spec, err)
	}

	if _, err := Resolve("no-such-preset-or-file"); err == nil {
		t.Error("Resolve(garbage) did not error")
	}
}

// Package scenario defines declarative asset scenarios: which assets
// exist, their latent likelihoods, and the admission schedule that
// introduces or retires them as offers accumulate. Scenarios come from
// YAML files or built-in presets and materialize into live bandit
// pools via Build.
package scenario

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/offersim/offersim/bandit"
)

// ScenarioSpec is the top-level scenario configuration.
// Loaded from YAML via LoadScenario(path) or built by a preset.
type ScenarioSpec struct {
	Name     string      `yaml:"name"`
	Assets   []AssetSpec `yaml:"assets"`
	Schedule []EntrySpec `yaml:"schedule"`
}

// AssetSpec declares one asset and its hidden conversion likelihood.
type AssetSpec struct {
	Name       string  `yaml:"name"`
	Likelihood float64 `yaml:"likelihood"`
}

// EntrySpec maps an admission window to asset names. Until omitted or
// 0 means the entry never expires.
type EntrySpec struct {
	From   int64    `yaml:"from"`
	Until  int64    `yaml:"until,omitempty"`
	Assets []string `yaml:"assets"`
}

// LoadScenario reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenario(path string) (*ScenarioSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var spec ScenarioSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	return &spec, nil
}

// Resolve returns the scenario for a --scenario argument: a built-in
// preset name, or a path to a YAML scenario file.
func Resolve(arg string) (*ScenarioSpec, error) {
	if IsValidPreset(arg) {
		return Preset(arg), nil
	}
	return LoadScenario(arg)
}

// Validate checks that all fields in the spec are valid and that the
// schedule guarantees a non-empty active set at every count.
func (s *ScenarioSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name required")
	}
	if len(s.Assets) == 0 {
		return fmt.Errorf("at least one asset required")
	}

	names := make(map[string]bool, len(s.Assets))
	for i, a := range s.Assets {
		prefix := fmt.Sprintf("asset[%d]", i)
		if a.Name == "" {
			return fmt.Errorf("%s: name required", prefix)
		}
		if names[a.Name] {
			return fmt.Errorf("%s: duplicate asset name %q", prefix, a.Name)
		}
		names[a.Name] = true
		if math.IsNaN(a.Likelihood) || math.IsInf(a.Likelihood, 0) || a.Likelihood < 0 || a.Likelihood > 1 {
			return fmt.Errorf("%s: likelihood must be in [0, 1], got %v", prefix, a.Likelihood)
		}
	}

	if len(s.Schedule) == 0 {
		return fmt.Errorf("at least one schedule entry required")
	}
	covered := false
	for i, e := range s.Schedule {
		prefix := fmt.Sprintf("schedule[%d]", i)
		if e.From < 0 {
			return fmt.Errorf("%s: from must be non-negative, got %d", prefix, e.From)
		}
		if e.Until != 0 && e.Until <= e.From {
			return fmt.Errorf("%s: until %d must exceed from %d (omit for never)", prefix, e.Until, e.From)
		}
		if len(e.Assets) == 0 {
			return fmt.Errorf("%s: at least one asset required", prefix)
		}
		for _, name := range e.Assets {
			if !names[name] {
				return fmt.Errorf("%s: unknown asset %q", prefix, name)
			}
		}
		if e.From == 0 && e.Until == 0 {
			covered = true
		}
	}
	if !covered {
		return fmt.Errorf("schedule needs a never-expiring entry with from 0; without one the active set can go empty")
	}
	return nil
}

// Build materializes the spec into a live pool plus the declared
// assets in declaration order (the order reports use). Validation
// failures surface as errors before any asset is constructed.
func (s *ScenarioSpec) Build() (*bandit.AssetSet, []*bandit.Asset, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	assets := make([]*bandit.Asset, len(s.Assets))
	byName := make(map[string]*bandit.Asset, len(s.Assets))
	for i, a := range s.Assets {
		assets[i] = bandit.NewAsset(a.Name, a.Likelihood)
		byName[a.Name] = assets[i]
	}

	schedule := make(bandit.Schedule, len(s.Schedule))
	for i, e := range s.Schedule {
		group := make([]*bandit.Asset, len(e.Assets))
		for j, name := range e.Assets {
			group[j] = byName[name]
		}
		schedule[i] = bandit.ScheduleEntry{
			Window: bandit.Window{From: e.From, Until: e.Until},
			Assets: group,
		}
	}
	return bandit.NewAssetSet(schedule), assets, nil
}

package scenario

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExampleScenarios_AllLoadAndBuild verifies that every YAML file
// shipped under examples/ loads, validates, and builds.
func TestExampleScenarios_AllLoadAndBuild(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no example scenarios found")

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			spec, err := LoadScenario(path)
			require.NoError(t, err, "failed to load %s", path)
			require.NoError(t, spec.Validate(), "validation failed for %s", path)
			_, _, err = spec.Build()
			require.NoError(t, err, "build failed for %s", path)
		})
	}
}

// TestExampleScenario_LateBloomers verifies that late-bloomers.yaml
// matches the built-in preset of the same name.
func TestExampleScenario_LateBloomers(t *testing.T) {
	// GIVEN the late-bloomers.yaml example scenario
	path := filepath.Join("..", "..", "examples", "late-bloomers.yaml")
	spec, err := LoadScenario(path)
	require.NoError(t, err, "failed to load late-bloomers.yaml")

	// THEN it equals the preset
	assert.Equal(t, ScenarioLateBloomers(), spec)
}

// TestExampleScenario_SeasonalWindow_AdmissionBehavior verifies that
// the seasonal-window example produces the expected pool membership as
// offers accumulate.
func TestExampleScenario_SeasonalWindow_AdmissionBehavior(t *testing.T) {
	// GIVEN the seasonal-window.yaml example scenario
	path := filepath.Join("..", "..", "examples", "seasonal-window.yaml")
	spec, err := LoadScenario(path)
	require.NoError(t, err)

	set, _, err := spec.Build()
	require.NoError(t, err)

	names := func() []string {
		active := set.ActiveSet(false)
		out := make([]string, len(active))
		for i, a := range active {
			out[i] = a.Name()
		}
		return out
	}

	// WHEN walking the pool total through the schedule
	// THEN only the baseline pair is live before the first window
	assert.Equal(t, []string{"base-a", "base-b"}, names())

	for set.Total() < 200 {
		set.ActiveSetWithIncrement()
	}
	assert.Equal(t, []string{"base-a", "base-b", "spring-promo"}, names())

	for set.Total() < 600 {
		set.ActiveSetWithIncrement()
	}
	// THEN spring expires at 600 and base-b is not duplicated
	assert.Equal(t, []string{"base-a", "base-b", "summer-promo"}, names())

	for set.Total() < 1000 {
		set.ActiveSetWithIncrement()
	}
	assert.Equal(t, []string{"base-a", "base-b"}, names())
}

// Package experiment drives repeated selector simulations over scenario
// specs and collects their summary rows. A run executes N independent
// cycles; each cycle rebuilds the scenario from scratch, drives one
// selector for a fixed number of pulls, and emits one summary row.
// Cycles draw from pre-derived RNG streams, so results are identical
// regardless of worker count.
package experiment

import (
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"github.com/offersim/offersim/bandit"
	"github.com/offersim/offersim/bandit/scenario"
)

// Config holds the knobs for an experiment run.
type Config struct {
	Cycles  int   // Number of independent simulation cycles
	Pulls   int   // Selector calls per cycle
	Start   int64 // Warm-start floor passed to each selector
	Seed    int64 // Master seed; per-cycle streams derive from it
	Workers int   // Maximum concurrent cycles
}

// DefaultConfig returns the standard experiment configuration.
func DefaultConfig() Config {
	return Config{
		Cycles:  100,
		Pulls:   1500,
		Start:   0,
		Seed:    42,
		Workers: runtime.NumCPU(),
	}
}

// Validate checks that all configuration values are usable.
func (c Config) Validate() error {
	if c.Cycles < 1 {
		return fmt.Errorf("cycles must be at least 1, got %d", c.Cycles)
	}
	if c.Pulls < 1 {
		return fmt.Errorf("pulls must be at least 1, got %d", c.Pulls)
	}
	if c.Start < 0 {
		return fmt.Errorf("start must be non-negative, got %d", c.Start)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// Result holds the output of one experiment run: one summary row per
// cycle plus run-level bookkeeping.
type Result struct {
	RunID       string              // Unique ID for this run
	Scenario    string              // Scenario name
	Strategy    bandit.Strategy     // Strategy driven in every cycle
	Rows        []bandit.SummaryRow // One row per cycle, in cycle order
	TotalOffers int64               // Pool totals summed across cycles
	Elapsed     time.Duration       // Wall-clock duration of the run
}

// Report wraps the run's rows for rendering.
func (r *Result) Report() *Report {
	return NewReport(r.Rows)
}

// Run executes cfg.Cycles independent cycles of the given strategy over
// the scenario and returns their summary rows. Each cycle rebuilds the
// scenario so no state leaks between cycles.
//
// policy is consulted only by the rho-policy strategy kind; a nil
// policy there falls back to the default width tiers. When Workers > 1
// the policy is shared across cycles and must be safe for concurrent
// use (the built-in policies are).
func Run(spec *scenario.ScenarioSpec, strat bandit.Strategy, policy bandit.RhoPolicy, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", spec.Name, err)
	}
	if strat.Kind == bandit.StrategyKindRhoPolicy && policy == nil {
		tiered, err := bandit.NewWidthTieredRho(bandit.DefaultRhoTiers())
		if err != nil {
			return nil, fmt.Errorf("default rho tiers: %w", err)
		}
		policy = tiered
	}

	// Derive every cycle's stream up front from a single goroutine;
	// PartitionedRNG is not thread-safe.
	prng := bandit.NewPartitionedRNG(bandit.NewSimulationKey(cfg.Seed))
	rngs := make([]*rand.Rand, cfg.Cycles)
	for i := range rngs {
		rngs[i] = prng.ForSubsystem(bandit.SubsystemCycle(i))
	}

	runID := uuid.NewString()
	logrus.Infof("Starting run %s: scenario=%s strategy=%q cycles=%d pulls=%d seed=%d workers=%d",
		runID, spec.Name, strat.DisplayName(), cfg.Cycles, cfg.Pulls, cfg.Seed, cfg.Workers)

	started := time.Now()
	rows := make([]bandit.SummaryRow, cfg.Cycles)
	totals := make([]int64, cfg.Cycles)
	errs := make([]error, cfg.Cycles)

	p := pool.New().WithMaxGoroutines(cfg.Workers)
	for i := 0; i < cfg.Cycles; i++ {
		i := i
		p.Go(func() {
			rows[i], totals[i], errs[i] = runCycle(spec, strat, policy, cfg, rngs[i])
		})
	}
	p.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("cycle %d: %w", i, err)
		}
	}

	var offers int64
	for _, t := range totals {
		offers += t
	}
	res := &Result{
		RunID:       runID,
		Scenario:    spec.Name,
		Strategy:    strat,
		Rows:        rows,
		TotalOffers: offers,
		Elapsed:     time.Since(started),
	}

	logrus.Infof("total: %d", res.TotalOffers)
	logrus.Infof("Run %s complete in %s", res.RunID, res.Elapsed)
	return res, nil
}

// runCycle executes one full cycle: fresh scenario build, fresh
// selector, cfg.Pulls choices, one summary row over all declared
// assets.
func runCycle(spec *scenario.ScenarioSpec, strat bandit.Strategy, policy bandit.RhoPolicy, cfg Config, rng *rand.Rand) (bandit.SummaryRow, int64, error) {
	set, assets, err := spec.Build()
	if err != nil {
		return bandit.SummaryRow{}, 0, err
	}
	sel := bandit.NewSelector(strat, cfg.Start, rng)
	if policy != nil {
		sel.SetRhoPolicy(policy)
	}
	for n := 0; n < cfg.Pulls; n++ {
		sel.MakeChoice(set)
	}
	return sel.SummaryRow(assets), set.Total(), nil
}

// Compare runs every strategy over the same scenario and returns all
// rows in one report, sorted by average conversion with the best first.
// All strategies share cfg.Seed, so each cycle index sees the same
// random stream under every strategy.
func Compare(spec *scenario.ScenarioSpec, strategies []bandit.Strategy, policy bandit.RhoPolicy, cfg Config) (*Report, error) {
	if len(strategies) == 0 {
		return nil, fmt.Errorf("compare: no strategies given")
	}

	var rows []bandit.SummaryRow
	for _, strat := range strategies {
		res, err := Run(spec, strat, policy, cfg)
		if err != nil {
			return nil, err
		}
		rows = append(rows, res.Rows...)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].AverageConversion > rows[j].AverageConversion
	})
	return NewReport(rows), nil
}

// RhoSweep runs the probability strategy once per rho value, stepping
// rho from 0 up to (but not including) 1, and returns one row per
// value. Each rho value runs a single cycle of cfg.Pulls choices;
// cfg.Cycles is not consulted.
func RhoSweep(spec *scenario.ScenarioSpec, cfg Config, step float64) (*Report, error) {
	if !(step > 0) || step > 1 {
		return nil, fmt.Errorf("sweep: step %v outside (0, 1]", step)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", spec.Name, err)
	}

	prng := bandit.NewPartitionedRNG(bandit.NewSimulationKey(cfg.Seed))

	var rows []bandit.SummaryRow
	for i := 0; ; i++ {
		rho := float64(i) * step
		if rho >= 1 {
			break
		}
		rng := prng.ForSubsystem(bandit.SubsystemCycle(i))
		row, _, err := runCycle(spec, bandit.Probability(rho), nil, cfg, rng)
		if err != nil {
			return nil, fmt.Errorf("rho %v: %w", rho, err)
		}
		rows = append(rows, row)
	}
	return NewReport(rows), nil
}

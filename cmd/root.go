package cmd

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/offersim/offersim/bandit"
	"github.com/offersim/offersim/bandit/experiment"
	"github.com/offersim/offersim/bandit/scenario"
)

var (
	// CLI flags shared by the simulation subcommands
	scenarioArg string // Scenario preset name or path to a scenario YAML file
	logLevel    string // Log verbosity level
	seed        int64  // Master seed; per-cycle RNG streams derive from it
	cycles      int    // Number of independent simulation cycles
	pulls       int    // Selector calls per cycle
	start       int64  // Offer floor per asset before strategic selection begins
	workers     int    // Maximum concurrent cycles (0 means one per CPU)
	csvPath     string // Write rows as CSV to this path instead of printing a table

	// CLI flags for the run subcommand
	strategyName string  // Selection strategy name
	rho          float64 // Width-vs-best split probability for the rho strategy
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "offersim",
	Short: "Monte Carlo simulator for offer selection strategies",
}

// runCmd executes one strategy over a scenario using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one selection strategy over a scenario",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		if !bandit.IsValidStrategy(strategyName) {
			logrus.Fatalf("Unknown strategy %q (valid: %s)",
				strategyName, strings.Join(bandit.StrategyNames(), ", "))
		}
		spec := mustScenario()
		strat := bandit.StrategyFromName(strategyName, rho)

		res, err := experiment.Run(spec, strat, nil, experimentConfig())
		if err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}
		emit(res.Report())
	},
}

// setupLogging parses and applies the --log flag.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// mustScenario resolves the --scenario flag to a spec, exiting on failure.
func mustScenario() *scenario.ScenarioSpec {
	spec, err := scenario.Resolve(scenarioArg)
	if err != nil {
		logrus.Fatalf("Unable to load scenario %q: %v (presets: %s)",
			scenarioArg, err, strings.Join(scenario.PresetNames(), ", "))
	}
	return spec
}

// experimentConfig builds an experiment.Config from the shared CLI flags.
func experimentConfig() experiment.Config {
	cfg := experiment.DefaultConfig()
	cfg.Cycles = cycles
	cfg.Pulls = pulls
	cfg.Start = start
	cfg.Seed = seed
	if workers > 0 {
		cfg.Workers = workers
	}
	return cfg
}

// emit renders the report to stdout, or to --csv when set.
func emit(rep *experiment.Report) {
	if csvPath == "" {
		rep.RenderTable(os.Stdout)
		return
	}
	f, err := os.Create(csvPath)
	if err != nil {
		logrus.Fatalf("Unable to create %s: %v", csvPath, err)
	}
	defer f.Close()
	if err := rep.WriteCSV(f); err != nil {
		logrus.Fatalf("Unable to write CSV to %s: %v", csvPath, err)
	}
	logrus.Infof("Wrote %d rows to %s", len(rep.Rows), csvPath)
}

// addExperimentFlags registers the flags shared by run, compare, and sweep.
func addExperimentFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&scenarioArg, "scenario", "late-bloomers",
		"Scenario preset name or path to a scenario YAML file (presets: "+strings.Join(scenario.PresetNames(), ", ")+")")
	cmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Master seed for per-cycle random streams")
	cmd.Flags().IntVar(&cycles, "cycles", 100, "Number of independent simulation cycles")
	cmd.Flags().IntVar(&pulls, "pulls", 1500, "Selector calls per cycle")
	cmd.Flags().Int64Var(&start, "start", 0, "Offer floor per asset before strategic selection begins")
	cmd.Flags().IntVar(&workers, "workers", 0, "Maximum concurrent cycles (0 means one per CPU)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Write rows as CSV to this path instead of printing a table")
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	addExperimentFlags(runCmd)
	runCmd.Flags().StringVar(&strategyName, "strategy", "rho",
		"Selection strategy ("+strings.Join(bandit.StrategyNames(), ", ")+")")
	runCmd.Flags().Float64Var(&rho, "rho", 0.1, "Width-vs-best split probability for the rho strategy")

	rootCmd.AddCommand(runCmd)
}

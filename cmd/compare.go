package cmd

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/offersim/offersim/bandit"
	"github.com/offersim/offersim/bandit/experiment"
)

var compareStrategies []string // Strategy names to compare

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run several strategies over one scenario and rank the results",
	Long:  "Run every requested strategy over the same scenario with a shared seed, then print all cycle rows ranked by average conversion.",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		names := compareStrategies
		if len(names) == 0 {
			names = bandit.StrategyNames()
		}
		strategies := make([]bandit.Strategy, 0, len(names))
		for _, name := range names {
			if !bandit.IsValidStrategy(name) {
				logrus.Fatalf("Unknown strategy %q (valid: %s)",
					name, strings.Join(bandit.StrategyNames(), ", "))
			}
			strategies = append(strategies, bandit.StrategyFromName(name, rho))
		}

		rep, err := experiment.Compare(mustScenario(), strategies, nil, experimentConfig())
		if err != nil {
			logrus.Fatalf("Compare failed: %v", err)
		}
		emit(rep)
	},
}

func init() {
	addExperimentFlags(compareCmd)
	compareCmd.Flags().StringSliceVar(&compareStrategies, "strategies", nil,
		"Comma-separated strategy names to compare (default: all)")
	compareCmd.Flags().Float64Var(&rho, "rho", 0.1, "Split probability used by the rho strategy entry")

	rootCmd.AddCommand(compareCmd)
}

package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/offersim/offersim/bandit/experiment"
)

var sweepStep float64 // Rho increment between sweep points

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep the rho strategy across split probabilities",
	Long:  "Run the rho strategy once per split probability, stepping from 0 up to 1, and report one row per value.",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		rep, err := experiment.RhoSweep(mustScenario(), experimentConfig(), sweepStep)
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}
		emit(rep)
	},
}

func init() {
	addExperimentFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepStep, "step", 0.01, "Rho increment between sweep points")

	rootCmd.AddCommand(sweepCmd)
}

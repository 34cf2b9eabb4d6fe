package cmd

import (
	"fmt"

	"github.com/sarchlab/funsim/config"
	"github.com/sarchlab/funsim/simulation"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var validateCmd = &cobra.Command{
	Use:   "validate [scenario file]",
	Short: "Check a scenario without running it.",
	Long: "`validate [scenario file]` builds every network of the scenario " +
		"and reports all wiring problems found.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := config.Load(args[0])
		if err != nil {
			return err
		}

		sc.Monitor = config.MonitorConfig{}
		sc.Record = ""

		s, err := simulation.MakeBuilder().BuildScenario(sc)
		if err != nil {
			for _, e := range multierr.Errors(err) {
				fmt.Fprintln(cmd.OutOrStdout(), e)
			}

			return fmt.Errorf("%s is not valid", args[0])
		}

		for _, f := range s.FUNs() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d units, %d connections\n",
				f.Name(), len(f.FunctionalUnits()), len(f.Connections()))
		}

		return nil
	},
}

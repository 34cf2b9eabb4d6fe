package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sarchlab/funsim/config"
	"github.com/sarchlab/funsim/ldk/probe"
	"github.com/sarchlab/funsim/sim/timing"
	"github.com/sarchlab/funsim/simulation"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [scenario file]",
	Short: "Run a scenario.",
	Long: "`run [scenario file]` builds the networks of the scenario and " +
		"runs them until the end time. A count of the calls every unit saw " +
		"is printed at the end.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScenario(cmd, args[0], cmd.OutOrStdout())
	},
}

func init() {
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("record", "",
		"record transits into this SQLite file, without extension, " +
			"or into a clickhouse:// DSN")
	cmd.Flags().Int("monitor-port", 0,
		"serve the monitor on this port, 0 picks a free one")
	cmd.Flags().Bool("monitor", false, "start the web monitor")
	cmd.Flags().Bool("open-browser", false, "open the monitor page")
	cmd.Flags().Float64("end-time", 0,
		"override the end time of the scenario, in seconds")
	cmd.Flags().Bool("parallel-ids", false,
		"give compounds globally unique IDs instead of sequential ones")
}

// runScenario builds and runs a scenario. The recording is closed before an
// error is returned.
func runScenario(cmd *cobra.Command, path string, out io.Writer) error {
	sc, err := loadScenario(cmd, path)
	if err != nil {
		return err
	}

	builder := simulation.MakeBuilder()
	if parallel, _ := cmd.Flags().GetBool("parallel-ids"); parallel {
		builder = builder.WithParallelIDs()
	}

	s, err := builder.BuildScenario(sc)
	if err != nil {
		return err
	}
	defer s.Terminate()

	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		s.GetEngine().AcceptHook(
			timing.NewEventLogger(logrus.StandardLogger()))
	}

	if err := s.Run(); err != nil {
		return err
	}

	printCounters(out, s.GetCounter().Snapshot())

	return nil
}

func loadScenario(cmd *cobra.Command, path string) (*config.Scenario, error) {
	sc, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	sc.ApplyEnv(env)

	flags := cmd.Flags()

	if flags.Changed("record") {
		sc.Record, _ = flags.GetString("record")
	}

	if flags.Changed("monitor") {
		sc.Monitor.Enabled, _ = flags.GetBool("monitor")
	}

	if flags.Changed("monitor-port") {
		sc.Monitor.Enabled = true
		sc.Monitor.Port, _ = flags.GetInt("monitor-port")
	}

	if flags.Changed("open-browser") {
		sc.Monitor.Enabled = true
		sc.Monitor.OpenBrowser, _ = flags.GetBool("open-browser")
	}

	if flags.Changed("end-time") {
		sc.EndTime, _ = flags.GetFloat64("end-time")
	}

	return sc, nil
}

func printCounters(out io.Writer, entries []probe.CounterEntry) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "FUN\tFU\tSendData\tOnData\tWakeup\tSentBits\tRecvBits")

	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			e.FUN, e.FU, e.SendData, e.OnData, e.Wakeup,
			e.SentBits, e.RecvBits)
	}

	w.Flush()
}

package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/sarchlab/funsim/datarecording"
	"github.com/sarchlab/funsim/ldk/probe"
	"github.com/spf13/cobra"
)

type transitKey struct {
	fun, fu, position string
}

type transitSummary struct {
	count int
	bits  int
	first float64
	last  float64
}

var reportCmd = &cobra.Command{
	Use:   "report [recording file]",
	Short: "Summarize a recording.",
	Long: "`report [recording file]` reads the transits of a recorded run " +
		"and prints how many compounds entered every unit and when.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := datarecording.NewReader(args[0])
		if err != nil {
			return err
		}
		defer reader.Close()

		reader.MapTable(probe.TransitTable, probe.TransitEntry{})

		where, _ := cmd.Flags().GetString("fun")
		params := datarecording.QueryParams{OrderBy: "Time"}

		if where != "" {
			params.Where = "FUN = ?"
			params.Args = []any{where}
		}

		rows, total, err := reader.Query(
			context.Background(), probe.TransitTable, params)
		if err != nil {
			return err
		}

		keys, summaries := summarizeTransits(rows)

		out := cmd.OutOrStdout()
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FUN\tFU\tPosition\tCount\tBits\tFirst\tLast")

		for _, k := range keys {
			s := summaries[k]
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.6f\t%.6f\n",
				k.fun, k.fu, k.position, s.count, s.bits, s.first, s.last)
		}

		w.Flush()

		fmt.Fprintf(out, "%d transits\n", total)

		return nil
	},
}

func init() {
	reportCmd.Flags().String("fun", "", "only report units of this FUN")
}

func summarizeTransits(rows []any) ([]transitKey, map[transitKey]*transitSummary) {
	var keys []transitKey

	summaries := make(map[transitKey]*transitSummary)

	for _, row := range rows {
		e := row.(*probe.TransitEntry)
		k := transitKey{fun: e.FUN, fu: e.FU, position: e.Position}

		s, found := summaries[k]
		if !found {
			s = &transitSummary{first: e.Time}
			summaries[k] = s
			keys = append(keys, k)
		}

		s.count++
		s.bits += e.Bits
		s.last = e.Time
	}

	return keys, summaries
}

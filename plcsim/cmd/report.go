package cmd

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/sarchlab/plcsim/datarecording"
	"github.com/sarchlab/plcsim/tracing"
)

var reportCmd = &cobra.Command{
	Use:   "report <recording.sqlite3>",
	Short: "Print the cycles stored in a recording.",
	Long: "`report run.sqlite3 --from 10 --to 20` prints the recorded " +
		"cycles of every session in the file.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dr, err := datarecording.NewReader(args[0])
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		reader := tracing.NewTraceReader(dr)
		defer reader.Close()

		from, _ := cmd.Flags().GetUint64("from")
		to, _ := cmd.Flags().GetUint64("to")
		limit, _ := cmd.Flags().GetInt("limit")

		err = printReport(cmd.Context(), cmd.OutOrStdout(), reader,
			tracing.TickQuery{StartCycle: from, EndCycle: to, Limit: limit})
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().Uint64("from", 0, "First cycle to print")
	reportCmd.Flags().Uint64("to", 0, "Stop before this cycle (0 for all)")
	reportCmd.Flags().Int("limit", 0, "Print at most this many cycles")
}

func printReport(
	ctx context.Context,
	w io.Writer,
	reader *tracing.TraceReader,
	query tracing.TickQuery,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	sessions, err := reader.Sessions(ctx)
	if err != nil {
		return err
	}

	for _, s := range sessions {
		query.Session = s.ID

		rows, total, err := reader.Ticks(ctx, query)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "Session %s: %s on %s, TON=%d CTU=%d, %d cycles\n",
			s.ID, s.Script, s.Component, s.TONPreset, s.CTUPreset, total)
		fmt.Fprintf(w, "%8s %6s %-7s %7s %7s %5s %7s %5s\n",
			"cycle", "ui_in", "mode", "control", "q", "ena", "elapsed", "count")

		for _, r := range rows {
			fmt.Fprintf(w, "%8d   0x%02x %-7s %7d %7d %5d %7d %5d\n",
				r.Cycle, r.UIIn, r.Mode, b2i(r.Control), b2i(r.Q),
				b2i(r.Ena), r.Elapsed, r.Count)
		}
	}

	return nil
}

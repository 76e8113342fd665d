package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hazz-dev/readyprobe/internal/storage"
)

type statusStore interface {
	LatestRun(ctx context.Context) (*storage.Run, []storage.Result, error)
	ReadyRatePercent(ctx context.Context, last int) (float64, error)
}

func executeStatus(cmd *cobra.Command, db statusStore) error {
	out := cmd.OutOrStdout()

	run, results, err := db.LatestRun(cmd.Context())
	if err != nil {
		return fmt.Errorf("querying status: %w", err)
	}
	if run == nil {
		fmt.Fprintln(out, "No verification history. Run 'readyprobe verify' first.")
		return nil
	}

	verdict := "NOT READY"
	if run.Ready {
		verdict = "READY"
	}
	fmt.Fprintf(out, "%s — %d/%d checks passed (%s)\n",
		verdict, run.Passed, run.Total, run.StartedAt.Local().Format("2006-01-02 15:04:05"))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHECK\tSTATUS\tMESSAGE")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, r.Status, r.Message)
	}
	w.Flush()

	rate, err := db.ReadyRatePercent(cmd.Context(), 100)
	if err == nil {
		fmt.Fprintf(out, "\nReady rate (last 100 runs): %.0f%%\n", rate)
	}
	return nil
}

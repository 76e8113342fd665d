package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazz-dev/readyprobe/internal/check"
	"github.com/hazz-dev/readyprobe/internal/config"
	"github.com/hazz-dev/readyprobe/internal/report"
)

// executeVerify runs the full pipeline, streaming each result to the console
// and finishing with the summary. The report is returned even when the
// pipeline aborts on a missing runtime.
func executeVerify(cmd *cobra.Command, cfg *config.Config) (*check.Report, error) {
	out := cmd.OutOrStdout()
	printer := report.NewPrinter(out)

	printer.Header(fmt.Sprintf("Verifying %s deployment readiness", cfg.App.Name))

	pipeline := check.NewPipeline(cfg, nil, nil)
	rep, err := pipeline.Run(cmd.Context(), printer.Result)
	if err != nil {
		// The runtime itself is missing; no other check ran.
		printer.Summary(rep)
		return rep, err
	}

	printer.Summary(rep)
	return rep, nil
}

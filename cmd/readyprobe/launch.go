package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazz-dev/readyprobe/internal/config"
	"github.com/hazz-dev/readyprobe/internal/launch"
)

// executeLaunch verifies readiness, prompts for a launch mode, and hands the
// process over to the chosen command. Failed required checks block the menu.
func executeLaunch(cmd *cobra.Command, cfg *config.Config, executor launch.Executor) error {
	rep, err := executeVerify(cmd, cfg)
	storeRun(cfg, rep)
	if err != nil {
		return err
	}
	if !rep.AllPassed() {
		return fmt.Errorf("not ready to launch — fix the failures above and re-run")
	}

	return promptAndLaunch(cmd.InOrStdin(), cmd.OutOrStdout(), cfg, executor)
}

// promptAndLaunch shows the menu, maps the selection to a command, and hands
// off the process. No check is re-run here.
func promptAndLaunch(in io.Reader, out io.Writer, cfg *config.Config, executor launch.Executor) error {
	sel, err := launch.Prompt(in, out, cfg.Launch.Port)
	if err != nil {
		return err
	}

	plan := launch.Plan(sel, cfg.Launch)
	fmt.Fprintf(out, "\nLaunching %s (%s): %s\n",
		cfg.App.Name, sel.Mode, strings.Join(plan.Argv(), " "))

	if err := executor.Exec(plan); err != nil {
		return fmt.Errorf("launching %s: %w", plan.Name, err)
	}
	return nil
}

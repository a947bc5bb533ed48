package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/lcgerke/gitmirror/internal/state"
	"github.com/lcgerke/gitmirror/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status [target]",
	Short: "Show the last mirror run per target",
	Long: `Displays the recorded outcome of the last mirror run for each target
(or a single named target): status, timestamp, branch and tag counts, and
the last error for failed runs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := newOutput()

	mgr, err := state.NewManager("")
	if err != nil {
		return err
	}

	if len(args) == 1 {
		target, err := mgr.GetTarget(args[0])
		if err != nil {
			return err
		}
		return printTargets(out, map[string]*state.Target{args[0]: target})
	}

	targets, err := mgr.ListTargets()
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		out.Info("No mirror runs recorded yet")
		return nil
	}

	return printTargets(out, targets)
}

func printTargets(out *ui.Output, targets map[string]*state.Target) error {
	if out.IsJSON() {
		return out.JSON(targets)
	}

	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		t := targets[name]
		switch t.Status {
		case state.StatusSucceeded:
			out.Successf("%s → %s", name, t.URL)
			out.Detailf("last run: %s", t.LastRun.Format("2006-01-02 15:04:05"))
			out.Detailf("mirrored: %d branch(es), %d tag(s)", t.Branches, t.Tags)
		case state.StatusFailed:
			out.Errorf("%s → %s", name, t.URL)
			out.Detailf("last run: %s", t.LastRun.Format("2006-01-02 15:04:05"))
			out.Detailf("error: %s", t.LastError)
		default:
			out.Warningf("%s → %s (status: %s)", name, t.URL, t.Status)
		}
	}

	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lcgerke/gitmirror/internal/config"
	"github.com/lcgerke/gitmirror/internal/credential"
	"github.com/lcgerke/gitmirror/internal/git"
	"github.com/lcgerke/gitmirror/internal/mirror"
	"github.com/lcgerke/gitmirror/internal/state"
)

var (
	runBranch   string
	runWorkdir  string
	runDryRun   bool
	runNoVerify bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Mirror the repository to the configured remote",
	Long: `Runs the mirror sequence for one trigger event:

1. Verifies the local clone has full history (shallow clones fail fast)
2. Installs the deploy key and host trust for the destination
3. Registers the destination as an additional remote
4. Force-pushes all branches, then all tags

Inside GitHub Actions the pushed branch is taken from the event context;
elsewhere use --branch or let the current branch act as a manual dispatch.
Events for branches other than the configured trigger branch are a no-op.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runBranch, "branch", "", "Branch the trigger event refers to (default: CI event or current branch)")
	runCmd.Flags().StringVar(&runWorkdir, "workdir", ".", "Repository to mirror")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Check preconditions only, push nothing")
	runCmd.Flags().BoolVar(&runNoVerify, "no-verify", false, "Skip the post-push ref comparison")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := newOutput()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	gitClient := git.NewClient(runWorkdir)
	if !gitClient.IsRepository() {
		return fmt.Errorf("not a git repository: %s", runWorkdir)
	}

	event, ok := resolveEvent(gitClient)
	if !ok {
		out.Info("Not a branch push event, nothing to do")
		return nil
	}
	out.Verbosef("Trigger event: push to '%s'", event.Branch)

	if event.Branch != cfg.TriggerBranch {
		out.Infof("Push to '%s' does not match trigger branch '%s', nothing to do", event.Branch, cfg.TriggerBranch)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	host, err := credential.HostFromURL(cfg.Target.URL)
	if err != nil {
		return fmt.Errorf("invalid mirror URL: %w", err)
	}

	key, err := cfg.ResolveKey(ctx)
	if err != nil {
		return err
	}
	out.Verbosef("Mirroring via remote '%s' (host %s)", cfg.Target.RemoteName, host)

	trigger := mirror.NewTrigger(
		mirror.Options{
			TriggerBranch: cfg.TriggerBranch,
			RemoteName:    cfg.Target.RemoteName,
			RemoteURL:     cfg.Target.URL,
			SkipVerify:    runNoVerify,
			DryRun:        runDryRun,
		},
		gitClient,
		mirror.NewGitPusher(gitClient),
		mirror.NewSSHTransport(gitClient, host, cfg.Target.KnownHosts),
	)

	if !runDryRun {
		out.Header(fmt.Sprintf("Mirroring to %s", cfg.Target.URL))
	}

	result, err := trigger.Run(ctx, event, key)
	recordErr := recordRun(cfg, gitClient, err)
	if err != nil {
		if recordErr != nil {
			out.Warningf("Could not record run state: %v", recordErr)
		}
		return err
	}
	if recordErr != nil {
		out.Warningf("Could not record run state: %v", recordErr)
	}

	switch {
	case result.DryRun:
		out.Success("Dry run: preconditions hold, no push performed")
	case result.Verified:
		out.Success("Mirror complete, destination refs verified")
	default:
		out.Success("Mirror complete")
	}

	return nil
}

// resolveEvent determines the trigger event: explicit --branch flag, then
// the CI environment, then the current branch as a manual dispatch
func resolveEvent(gitClient *git.Client) (mirror.Event, bool) {
	if runBranch != "" {
		return mirror.Event{Branch: runBranch}, true
	}

	if event, ok := mirror.EventFromEnvironment(); ok {
		return event, true
	}

	// The CI environment is present but describes a tag push or another
	// non-branch event
	if mirror.InCI() {
		return mirror.Event{}, false
	}

	branch, err := gitClient.GetCurrentBranch()
	if err != nil || branch == "" || branch == "HEAD" {
		return mirror.Event{}, false
	}
	return mirror.Event{Branch: branch}, true
}

// recordRun stores the run outcome in the state file; dry runs and skips
// never reach this point with a push behind them, but the record stays
// useful either way
func recordRun(cfg *config.Config, gitClient *git.Client, runErr error) error {
	if runDryRun {
		return nil
	}

	mgr, err := state.NewManager("")
	if err != nil {
		return err
	}

	record := &state.Target{
		URL:    cfg.Target.URL,
		Status: state.StatusSucceeded,
	}
	if runErr != nil {
		record.Status = state.StatusFailed
		record.LastError = runErr.Error()
	} else {
		if branches, err := gitClient.ListBranches(); err == nil {
			record.Branches = len(branches)
		}
		if tags, err := gitClient.ListTags(); err == nil {
			record.Tags = len(tags)
		}
	}

	return mgr.RecordRun(cfg.Target.Name, record)
}

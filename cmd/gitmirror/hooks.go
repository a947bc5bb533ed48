package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lcgerke/gitmirror/internal/git"
	"github.com/lcgerke/gitmirror/internal/hooks"
)

var hooksWorkdir string

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Manage the sync-on-commit hook",
	Long: `Installs or removes a post-commit hook that mirrors the repository after
each local commit. The trigger-branch filter still applies: commits on
other branches are a no-op.`,
}

var hooksInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the post-commit mirror hook",
	Args:  cobra.NoArgs,
	RunE:  runHooksInstall,
}

var hooksUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the post-commit mirror hook",
	Args:  cobra.NoArgs,
	RunE:  runHooksUninstall,
}

func init() {
	hooksCmd.PersistentFlags().StringVar(&hooksWorkdir, "workdir", ".", "Repository to manage hooks in")
	hooksCmd.AddCommand(hooksInstallCmd)
	hooksCmd.AddCommand(hooksUninstallCmd)
}

func runHooksInstall(cmd *cobra.Command, args []string) error {
	out := newOutput()

	gitClient := git.NewClient(hooksWorkdir)
	if !gitClient.IsRepository() {
		return fmt.Errorf("not a git repository: %s", hooksWorkdir)
	}

	mgr := hooks.NewManager(hooksWorkdir)
	if mgr.IsInstalled() {
		out.Info("Hook already installed")
		return nil
	}

	if err := mgr.Install(); err != nil {
		return err
	}

	out.Success("Installed post-commit mirror hook")
	if mgr.HasBackup() {
		out.Detail("previous hook saved with .gitmirror-backup suffix")
	}
	return nil
}

func runHooksUninstall(cmd *cobra.Command, args []string) error {
	out := newOutput()

	mgr := hooks.NewManager(hooksWorkdir)
	if err := mgr.Uninstall(); err != nil {
		return err
	}

	out.Success("Removed post-commit mirror hook")
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lcgerke/gitmirror/internal/errors"
	"github.com/lcgerke/gitmirror/internal/git"
)

var (
	// Global flags
	format     string
	noColor    bool
	quiet      bool
	verbose    bool
	configPath string

	// Root command
	rootCmd = &cobra.Command{
		Use:   "gitmirror",
		Short: "Force-mirror all branches and tags to a secondary remote",
		Long: `gitmirror force-pushes every branch and tag of the local repository to a
secondary remote over SSH, overwriting the destination's history on
conflict. It is meant to run inside a CI job on pushes to a designated
trigger branch, but works the same from a shell.

The mirror push is destructive by design: commits that exist only on the
destination are lost.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Verify git is installed
			if err := git.CheckGitVersion(); err != nil {
				return errors.GitNotInstalled(err)
			}
			return nil
		},
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "Output format (human|json)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to mirror.yaml (default: ./mirror.yaml)")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(hooksCmd)
}

func main() {
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

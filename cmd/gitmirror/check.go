package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lcgerke/gitmirror/internal/config"
	"github.com/lcgerke/gitmirror/internal/credential"
	"github.com/lcgerke/gitmirror/internal/git"
	"github.com/lcgerke/gitmirror/internal/github"
	"github.com/lcgerke/gitmirror/internal/ui"
)

var checkWorkdir string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run preflight diagnostics for the mirror configuration",
	Long: `Performs a health check of the mirror configuration without pushing.

Checks:
- Git installation and version
- Repository presence, commit history depth
- Mirror target configuration
- Deploy key availability (environment, key file, or Vault)
- GitHub API preflight for github.com targets (repository exists,
  token can push, branch protection allows force-pushes)`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkWorkdir, "workdir", ".", "Repository to check")
}

type checkReport struct {
	Passed   []string `json:"passed"`
	Warnings []string `json:"warnings"`
	Failures []string `json:"failures"`
}

func (r *checkReport) pass(msg string) { r.Passed = append(r.Passed, msg) }
func (r *checkReport) warn(msg string) { r.Warnings = append(r.Warnings, msg) }
func (r *checkReport) fail(msg string) { r.Failures = append(r.Failures, msg) }

func runCheck(cmd *cobra.Command, args []string) error {
	out := newOutput()
	report := &checkReport{}

	out.Header("gitmirror preflight")

	gitClient := git.NewClient(checkWorkdir)

	// Git toolchain
	if err := gitClient.ValidateGitVersion(); err != nil {
		report.fail(fmt.Sprintf("git version: %v", err))
	} else {
		report.pass("git installed, version 2.30+")
	}

	// Repository
	if !gitClient.IsRepository() {
		report.fail(fmt.Sprintf("not a git repository: %s", checkWorkdir))
	} else {
		report.pass("working directory is a git repository")

		if !gitClient.HasCommits() {
			report.warn("repository has no commits yet")
		}

		shallow, err := gitClient.IsShallowClone()
		if err != nil {
			report.warn(fmt.Sprintf("could not determine history depth: %v", err))
		} else if shallow {
			report.fail("repository is a shallow clone; a mirror run would fail fast (fetch full history first)")
		} else {
			report.pass("full commit history present")
		}
	}

	// Configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		report.fail(fmt.Sprintf("config: %v", err))
		return printReport(out, report)
	}

	if err := cfg.Validate(); err != nil {
		report.fail(fmt.Sprintf("config: %v", err))
	} else {
		report.pass(fmt.Sprintf("target '%s' → %s (remote '%s', trigger branch '%s')",
			cfg.Target.Name, cfg.Target.URL, cfg.Target.RemoteName, cfg.TriggerBranch))

		if _, err := credential.HostFromURL(cfg.Target.URL); err != nil {
			report.fail(fmt.Sprintf("mirror URL: %v", err))
		}
	}

	// Deploy key
	checkKey(cmd, cfg, report)

	// GitHub API preflight
	if cfg.Target.URL != "" && github.IsGitHubURL(cfg.Target.URL) {
		checkGitHub(cmd, cfg, report)
	}

	if err := printReport(out, report); err != nil {
		return err
	}
	if len(report.Failures) > 0 {
		return fmt.Errorf("%d check(s) failed", len(report.Failures))
	}
	return nil
}

func checkKey(cmd *cobra.Command, cfg *config.Config, report *checkReport) {
	if cfg.HasInlineKey() {
		key, _ := cfg.ResolveKey(cmd.Context())
		if err := credential.ValidateKey(key); err != nil {
			report.fail(fmt.Sprintf("deploy key (environment): %v", err))
		} else {
			report.pass("deploy key available from environment")
		}
		return
	}

	if cfg.SSHKeyFile != "" {
		data, err := os.ReadFile(cfg.SSHKeyFile)
		if err != nil {
			report.fail(fmt.Sprintf("deploy key file %s: %v", cfg.SSHKeyFile, err))
			return
		}
		if err := credential.ValidateKey(string(data)); err != nil {
			report.fail(fmt.Sprintf("deploy key file %s: %v", cfg.SSHKeyFile, err))
			return
		}
		report.pass(fmt.Sprintf("deploy key available from %s", cfg.SSHKeyFile))
		return
	}

	// Vault fallback: resolve for real, it is the only way to know the key
	// exists. Keys are never cached, so this is the same read a run does.
	key, err := cfg.ResolveKey(cmd.Context())
	if err != nil {
		report.fail(fmt.Sprintf("deploy key (vault): %v", err))
		return
	}
	if err := credential.ValidateKey(key); err != nil {
		report.fail(fmt.Sprintf("deploy key (vault): %v", err))
		return
	}
	report.pass("deploy key available from Vault")
}

func checkGitHub(cmd *cobra.Command, cfg *config.Config, report *checkReport) {
	client, err := github.NewClient(cmd.Context(), cfg.Target.URL)
	if err != nil {
		report.warn(fmt.Sprintf("GitHub API preflight skipped: %v", err))
		return
	}

	if err := client.ValidateToken(); err != nil {
		report.fail(fmt.Sprintf("GitHub token: %v", err))
		return
	}
	report.pass("GitHub token is valid")

	exists, err := client.RepositoryExists()
	if err != nil {
		report.warn(fmt.Sprintf("GitHub API: %v", err))
		return
	}
	if !exists {
		report.fail(fmt.Sprintf("destination repository %s/%s does not exist", client.GetOwner(), client.GetRepo()))
		return
	}
	report.pass(fmt.Sprintf("destination repository %s/%s exists", client.GetOwner(), client.GetRepo()))

	canPush, err := client.CanPush()
	if err != nil {
		report.warn(fmt.Sprintf("GitHub API: %v", err))
	} else if !canPush {
		report.fail("token cannot push to the destination repository")
	} else {
		report.pass("token can push to the destination")
	}

	if err := client.CheckForcePushAllowed(cfg.TriggerBranch); err != nil {
		report.fail(err.Error())
	} else {
		report.pass(fmt.Sprintf("force-pushes allowed on '%s'", cfg.TriggerBranch))
	}
}

func printReport(out *ui.Output, report *checkReport) error {
	if out.IsJSON() {
		return out.JSON(report)
	}

	for _, msg := range report.Passed {
		out.Success(msg)
	}
	for _, msg := range report.Warnings {
		out.Warning(msg)
	}
	for _, msg := range report.Failures {
		out.Error(msg)
	}
	return nil
}

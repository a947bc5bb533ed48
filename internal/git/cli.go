package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// Client wraps git CLI operations
type Client struct {
	workdir string
	mu      sync.Mutex
}

// NewClient creates a new git CLI client
func NewClient(workdir string) *Client {
	return &Client{
		workdir: workdir,
	}
}

// Workdir returns the working directory the client operates in
func (c *Client) Workdir() string {
	return c.workdir
}

// run executes a git command
func (c *Client) run(args ...string) (string, error) {
	return c.runWithContext(context.Background(), args...)
}

// runWithContext executes a git command honoring the given context
func (c *Client) runWithContext(ctx context.Context, args ...string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cmd := exec.CommandContext(ctx, "git", args...)
	if c.workdir != "" {
		cmd.Dir = c.workdir
	}
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "LC_ALL=C")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w\nstderr: %s", strings.Join(args, " "), err, stderr.String())
	}

	return strings.TrimSpace(stdout.String()), nil
}

// ConfigSet sets a repository-local git config value
func (c *Client) ConfigSet(key, value string) error {
	_, err := c.run("config", key, value)
	return err
}

// ConfigGet gets a git config value
func (c *Client) ConfigGet(key string) (string, error) {
	return c.run("config", "--get", key)
}

// Init initializes a git repository
func (c *Client) Init(bare bool) error {
	args := []string{"init"}
	if bare {
		args = append(args, "--bare")
	}

	_, err := c.run(args...)
	return err
}

// ValidateGitVersion checks git version meets minimum requirements
func (c *Client) ValidateGitVersion() error {
	output, err := c.run("--version")
	if err != nil {
		return fmt.Errorf("git is not installed: %w", err)
	}

	// Parse version: "git version 2.34.1"
	parts := strings.Fields(output)
	if len(parts) < 3 {
		return fmt.Errorf("unexpected git version output: %s", output)
	}

	version := parts[2]
	versionParts := strings.Split(version, ".")
	if len(versionParts) < 2 {
		return fmt.Errorf("invalid git version format: %s", version)
	}

	major, err := strconv.Atoi(versionParts[0])
	if err != nil {
		return fmt.Errorf("invalid major version: %s", versionParts[0])
	}

	minor, err := strconv.Atoi(versionParts[1])
	if err != nil {
		return fmt.Errorf("invalid minor version: %s", versionParts[1])
	}

	// Require Git 2.30+ (mirror refspecs and known-hosts handling behave
	// consistently from there on)
	if major < 2 || (major == 2 && minor < 30) {
		return fmt.Errorf("gitmirror requires Git 2.30.0 or newer (found: %s)\nPlease upgrade Git: https://git-scm.com/downloads", version)
	}

	return nil
}

// CheckGitVersion verifies git is installed and runs
func CheckGitVersion() error {
	cmd := exec.Command("git", "--version")
	output, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("git is not installed or not in PATH: %w", err)
	}

	if !strings.Contains(string(output), "git version") {
		return fmt.Errorf("unexpected git version output: %s", output)
	}

	return nil
}

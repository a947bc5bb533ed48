package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/lcgerke/gitmirror/internal/constants"
)

// cli_status.go contains repository inspection operations: IsRepository,
// IsShallowClone, GetCurrentBranch, GetBranchHash, ListBranches, ListTags,
// HasCommits

// IsRepository checks if the working directory is a git repository
func (c *Client) IsRepository() bool {
	_, err := c.run("rev-parse", "--git-dir")
	return err == nil
}

// IsShallowClone checks if repository has truncated history.
// `rev-parse --is-shallow-repository` is authoritative and works from
// subdirectories and worktrees; the .git/shallow stat is kept as a fallback
// for ancient git versions that predate the flag.
func (c *Client) IsShallowClone() (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.QuickOperationTimeout)
	defer cancel()

	output, err := c.runWithContext(ctx, "rev-parse", "--is-shallow-repository")
	if err == nil {
		return output == "true", nil
	}

	shallowPath := filepath.Join(c.workdir, ".git", "shallow")
	_, statErr := os.Stat(shallowPath)
	return statErr == nil, nil
}

// GetCurrentBranch returns the current branch name
func (c *Client) GetCurrentBranch() (string, error) {
	return c.run("rev-parse", "--abbrev-ref", "HEAD")
}

// GetBranchHash returns commit hash for a local branch
func (c *Client) GetBranchHash(branch string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.QuickOperationTimeout)
	defer cancel()

	return c.runWithContext(ctx, "rev-parse", branch)
}

// ListBranches returns all local branch names
func (c *Client) ListBranches() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultOperationTimeout)
	defer cancel()

	output, err := c.runWithContext(ctx, "branch", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}

	if output == "" {
		return []string{}, nil
	}
	return strings.Split(output, "\n"), nil
}

// ListTags returns all tag names
func (c *Client) ListTags() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultOperationTimeout)
	defer cancel()

	output, err := c.runWithContext(ctx, "tag", "--list")
	if err != nil {
		return nil, err
	}

	if output == "" {
		return []string{}, nil
	}
	return strings.Split(output, "\n"), nil
}

// HasCommits reports whether the repository has at least one commit
func (c *Client) HasCommits() bool {
	_, err := c.run("rev-parse", "--verify", "HEAD")
	return err == nil
}

// LocalRefs returns the local refs/heads and refs/tags tips as a
// ref-name to hash map. Annotated tags map to the tag object, matching the
// unpeeled lines of ls-remote.
func (c *Client) LocalRefs() (map[string]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultOperationTimeout)
	defer cancel()

	output, err := c.runWithContext(ctx, "for-each-ref",
		"--format=%(objectname) %(refname)", "refs/heads", "refs/tags")
	if err != nil {
		return nil, err
	}

	refs := make(map[string]string)
	if output == "" {
		return refs, nil
	}

	for _, line := range strings.Split(output, "\n") {
		parts := strings.Fields(line)
		if len(parts) != 2 {
			continue
		}
		refs[parts[1]] = parts[0]
	}

	return refs, nil
}

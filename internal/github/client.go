// Package github implements the destination preflight for github.com
// mirror targets: the repository exists, the token can push, and branch
// protection does not forbid the force-push a mirror run performs.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v58/github"
	"golang.org/x/oauth2"

	"github.com/lcgerke/gitmirror/internal/errors"
)

// Client wraps the GitHub API client for one destination repository
type Client struct {
	client *github.Client
	owner  string
	repo   string
	ctx    context.Context
}

// IsGitHubURL reports whether remoteURL points at github.com
func IsGitHubURL(remoteURL string) bool {
	return strings.Contains(remoteURL, "github.com")
}

// NewClient creates a GitHub client from a remote URL
// Supports: https://github.com/owner/repo.git, git@github.com:owner/repo.git
func NewClient(ctx context.Context, remoteURL string) (*Client, error) {
	owner, repo, err := ParseGitHubURL(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub URL: %w", err)
	}

	token, err := getGitHubToken()
	if err != nil {
		return nil, errors.GitHubAuthFailed(err)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
		ctx:    ctx,
	}, nil
}

// ParseGitHubURL extracts owner and repo from various GitHub URL formats
func ParseGitHubURL(remoteURL string) (owner, repo string, err error) {
	// Handle SSH URLs: git@github.com:owner/repo.git
	if strings.HasPrefix(remoteURL, "git@github.com:") {
		parts := strings.TrimPrefix(remoteURL, "git@github.com:")
		parts = strings.TrimSuffix(parts, ".git")

		split := strings.Split(parts, "/")
		if len(split) != 2 {
			return "", "", fmt.Errorf("invalid SSH URL format")
		}
		return split[0], split[1], nil
	}

	// Handle HTTPS and ssh:// URLs
	u, err := url.Parse(remoteURL)
	if err != nil {
		return "", "", err
	}

	if u.Hostname() != "github.com" {
		return "", "", fmt.Errorf("not a GitHub URL: %s", u.Host)
	}

	path := strings.TrimPrefix(u.Path, "/")
	path = strings.TrimSuffix(path, ".git")

	parts := strings.Split(path, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid GitHub path: %s", path)
	}

	return parts[0], parts[1], nil
}

// GetOwner returns the repository owner
func (c *Client) GetOwner() string {
	return c.owner
}

// GetRepo returns the repository name
func (c *Client) GetRepo() string {
	return c.repo
}

// RepositoryExists checks that the destination repository is reachable
// through the API
func (c *Client) RepositoryExists() (bool, error) {
	_, resp, err := c.client.Repositories.Get(c.ctx, c.owner, c.repo)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to get repository: %w", err)
	}
	return true, nil
}

// CanPush checks if the authenticated token can push to the repository
func (c *Client) CanPush() (bool, error) {
	repo, _, err := c.client.Repositories.Get(c.ctx, c.owner, c.repo)
	if err != nil {
		return false, fmt.Errorf("failed to get repository: %w", err)
	}

	perms := repo.GetPermissions()
	return perms["push"], nil
}

// CheckForcePushAllowed verifies branch protection on branch does not
// forbid force-pushes. A mirror push is a force-push by definition, so a
// protection rule with force-pushes disabled guarantees a failed run.
func (c *Client) CheckForcePushAllowed(branch string) error {
	protection, resp, err := c.client.Repositories.GetBranchProtection(c.ctx, c.owner, c.repo, branch)
	if err != nil {
		// 404 means no protection rule, force-push allowed
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("failed to get branch protection: %w", err)
	}

	if protection.GetAllowForcePushes() != nil && !protection.GetAllowForcePushes().Enabled {
		return errors.ForcePushForbidden(branch)
	}

	return nil
}

// ValidateToken checks the token works at all
func (c *Client) ValidateToken() error {
	_, _, err := c.client.Users.Get(c.ctx, "")
	if err != nil {
		return fmt.Errorf("token validation failed: %w\n\n"+
			"Your token may be expired or lack required permissions.\n"+
			"Required scopes: repo (full control of private repositories)", err)
	}

	return nil
}

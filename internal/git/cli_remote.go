package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/lcgerke/gitmirror/internal/constants"
)

// cli_remote.go contains remote operations: AddRemote, SetURL,
// AddOrUpdateRemote, GetRemoteURL, ListRemotes, LsRemoteRefs

// AddRemote adds a remote
func (c *Client) AddRemote(name, url string) error {
	_, err := c.run("remote", "add", name, url)
	return err
}

// SetURL sets the fetch URL for a remote
func (c *Client) SetURL(remote, url string) error {
	_, err := c.run("remote", "set-url", remote, url)
	return err
}

// AddOrUpdateRemote registers url under name, reconfiguring the URL when a
// remote with that name already exists
func (c *Client) AddOrUpdateRemote(name, url string) error {
	remotes, err := c.ListRemotes()
	if err != nil {
		return fmt.Errorf("failed to list remotes: %w", err)
	}

	for _, r := range remotes {
		if r == name {
			if err := c.SetURL(name, url); err != nil {
				return fmt.Errorf("failed to update remote %s: %w", name, err)
			}
			return nil
		}
	}

	if err := c.AddRemote(name, url); err != nil {
		return fmt.Errorf("failed to add remote %s: %w", name, err)
	}
	return nil
}

// GetRemoteURL gets the URL for a remote
func (c *Client) GetRemoteURL(remote string) (string, error) {
	return c.run("remote", "get-url", remote)
}

// ListRemotes lists all remotes
func (c *Client) ListRemotes() ([]string, error) {
	output, err := c.run("remote")
	if err != nil {
		return nil, err
	}

	if output == "" {
		return []string{}, nil
	}

	return strings.Split(output, "\n"), nil
}

// LsRemoteRefs returns the remote's refs/heads and refs/tags as a
// ref-name → hash map. Peeled tag entries (^{}) are dropped so the map is
// directly comparable with LocalRefs for tag objects.
func (c *Client) LsRemoteRefs(ctx context.Context, remote string) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultLsRemoteTimeout)
	defer cancel()

	output, err := c.runWithContext(ctx, "ls-remote", "--heads", "--tags", remote)
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
		if strings.HasSuffix(parts[1], "^{}") {
			continue
		}
		refs[parts[1]] = parts[0]
	}

	return refs, nil
}

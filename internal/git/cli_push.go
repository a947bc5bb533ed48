package git

import (
	"context"

	"github.com/lcgerke/gitmirror/internal/constants"
)

// cli_push.go contains push operations: ForcePushBranches, ForcePushTags

// ForcePushBranches force-pushes every local branch to the remote and prunes
// branches that no longer exist locally. Divergent history on the remote is
// overwritten, not merged: after this call the remote's branch tips equal the
// local ones.
func (c *Client) ForcePushBranches(ctx context.Context, remote string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultPushTimeout)
	defer cancel()

	_, err := c.runWithContext(ctx, "push", "--force", "--prune", remote, "refs/heads/*:refs/heads/*")
	return err
}

// ForcePushTags force-pushes every local tag to the remote, pruning tags
// that no longer exist locally
func (c *Client) ForcePushTags(ctx context.Context, remote string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultPushTimeout)
	defer cancel()

	_, err := c.runWithContext(ctx, "push", "--force", "--prune", remote, "refs/tags/*:refs/tags/*")
	return err
}

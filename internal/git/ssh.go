package git

import (
	"fmt"
)

// ConfigureSSH sets up SSH for git operations against the mirror remote.
// This configures repository-local SSH, not global ~/.ssh/config. Host keys
// are checked strictly against the given known_hosts file; the file is
// populated by the credential layer before any push runs.
//
// git runs core.sshCommand through a shell, so the paths are single-quoted
// to survive whitespace in TMPDIR.
func (c *Client) ConfigureSSH(privateKeyPath, knownHostsPath string) error {
	sshCmd := fmt.Sprintf(
		"ssh -i '%s' -o IdentitiesOnly=yes -o UserKnownHostsFile='%s' -o StrictHostKeyChecking=yes",
		privateKeyPath, knownHostsPath,
	)
	return c.ConfigSet("core.sshCommand", sshCmd)
}

// GetSSHCommand returns the current SSH command configuration
func (c *Client) GetSSHCommand() (string, error) {
	return c.ConfigGet("core.sshCommand")
}

// Package config loads the mirror configuration from mirror.yaml with
// environment-variable overrides, so a CI job can configure everything
// through its secret store without shipping a config file.
package config

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lcgerke/gitmirror/internal/constants"
	"github.com/lcgerke/gitmirror/internal/errors"
	"github.com/lcgerke/gitmirror/internal/vault"
)

// Environment variable overrides
const (
	EnvTriggerBranch = "GITMIRROR_TRIGGER_BRANCH"
	EnvRemoteURL     = "GITMIRROR_REMOTE_URL"
	EnvRemoteName    = "GITMIRROR_REMOTE_NAME"
	EnvTargetName    = "GITMIRROR_TARGET"
	EnvSSHKey        = "GITMIRROR_SSH_KEY"
	EnvSSHKeyFile    = "GITMIRROR_SSH_KEY_FILE"
	EnvKnownHosts    = "GITMIRROR_KNOWN_HOSTS"
)

// DefaultFileName is the config file looked up in the repository root
const DefaultFileName = "mirror.yaml"

// Target identifies the mirror destination
type Target struct {
	// Name is the logical target identifier, used as the Vault path segment
	// and the state file key
	Name string `yaml:"name"`
	// RemoteName is the git remote registered for the destination
	RemoteName string `yaml:"remote_name"`
	// URL is the SSH URL of the destination repository
	URL string `yaml:"url"`
	// KnownHosts is an optional pinned known_hosts entry for the
	// destination host; when empty the host key is fetched on first use
	KnownHosts string `yaml:"known_hosts"`
}

// Config is the full mirror configuration
type Config struct {
	TriggerBranch string `yaml:"trigger_branch"`
	Target        Target `yaml:"target"`

	// SSHKeyFile points at a private key on disk, an alternative to the
	// GITMIRROR_SSH_KEY environment variable and the Vault backend
	SSHKeyFile string `yaml:"ssh_key_file"`

	// sshKey holds in-memory key material from the environment.
	// Deliberately unexported and without a yaml tag: key material is never
	// read from or written to the config file.
	sshKey string
}

// Load reads the config file at path, applies environment overrides and
// defaults. An empty path means the default mirror.yaml lookup, whose
// absence is not an error (CI configures via environment). An explicitly
// given path must exist.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrorTypeConfig,
				fmt.Sprintf("failed to parse %s", path), err)
		}
	case os.IsNotExist(err):
		if explicit {
			return nil, errors.WithHint(
				errors.New(errors.ErrorTypeConfig,
					fmt.Sprintf("config file %s does not exist", path)),
				"Check the --config path, or omit the flag to configure through the environment.",
			)
		}
	default:
		return nil, errors.Wrap(errors.ErrorTypeConfig,
			fmt.Sprintf("failed to read %s", path), err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvTriggerBranch); v != "" {
		c.TriggerBranch = v
	}
	if v := os.Getenv(EnvRemoteURL); v != "" {
		c.Target.URL = v
	}
	if v := os.Getenv(EnvRemoteName); v != "" {
		c.Target.RemoteName = v
	}
	if v := os.Getenv(EnvTargetName); v != "" {
		c.Target.Name = v
	}
	if v := os.Getenv(EnvKnownHosts); v != "" {
		c.Target.KnownHosts = v
	}
	if v := os.Getenv(EnvSSHKey); v != "" {
		c.sshKey = v
	}
	if v := os.Getenv(EnvSSHKeyFile); v != "" {
		c.SSHKeyFile = v
	}
}

func (c *Config) applyDefaults() {
	if c.TriggerBranch == "" {
		c.TriggerBranch = constants.DefaultTriggerBranch
	}
	if c.Target.RemoteName == "" {
		c.Target.RemoteName = constants.DefaultMirrorRemote
	}
	if c.Target.Name == "" {
		c.Target.Name = "default"
	}
}

// Validate checks everything that can be checked before touching the
// network. Key material is resolved separately by ResolveKey.
func (c *Config) Validate() error {
	if c.Target.URL == "" {
		return errors.MissingRemoteURL()
	}
	if c.Target.RemoteName == "" {
		return errors.New(errors.ErrorTypeConfig, "mirror remote name is empty")
	}
	if c.TriggerBranch == "" {
		return errors.New(errors.ErrorTypeConfig, "trigger branch is empty")
	}
	return nil
}

// SetSSHKey injects key material directly (used by tests and by callers
// that already hold the key)
func (c *Config) SetSSHKey(material string) {
	c.sshKey = material
}

// HasInlineKey reports whether key material was supplied via environment
// or SetSSHKey
func (c *Config) HasInlineKey() bool {
	return c.sshKey != ""
}

// ResolveKey returns the private key material for the run.
// Priority: inline material (environment) > key file > Vault. Vault is only
// consulted when neither of the local sources is configured.
func (c *Config) ResolveKey(ctx context.Context) (string, error) {
	if c.sshKey != "" {
		return c.sshKey, nil
	}

	if c.SSHKeyFile != "" {
		data, err := os.ReadFile(c.SSHKeyFile)
		if err != nil {
			return "", errors.Wrap(errors.ErrorTypeConfig,
				fmt.Sprintf("failed to read SSH key file %s", c.SSHKeyFile), err)
		}
		return string(data), nil
	}

	client, err := vault.NewClient(ctx)
	if err != nil {
		return "", errors.Wrap(errors.ErrorTypeVault, "failed to create vault client", err)
	}
	if !client.IsReachable() {
		return "", errors.VaultUnreachable(client.Address(), nil)
	}

	key, err := client.GetSSHKey(c.Target.Name)
	if err != nil {
		return "", errors.SSHKeyNotFound(c.Target.Name)
	}

	return key.PrivateKey, nil
}

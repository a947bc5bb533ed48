package vault

import (
	"context"
	"fmt"
	"time"

	vault "github.com/hashicorp/vault/api"
)

// Client wraps the Vault API client. It is the optional secret backend for
// the mirror deploy key when the key is not supplied through the
// environment or a key file.
type Client struct {
	client *vault.Client
	ctx    context.Context
}

// SSHKey represents an SSH key pair
type SSHKey struct {
	PrivateKey string
	PublicKey  string
}

// NewClient creates a new Vault client
// It uses environment variables for configuration:
// - VAULT_ADDR: Vault server address
// - VAULT_TOKEN: Authentication token
func NewClient(ctx context.Context) (*Client, error) {
	config := vault.DefaultConfig()
	if config == nil {
		return nil, fmt.Errorf("failed to create default vault config")
	}

	client, err := vault.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	return &Client{
		client: client,
		ctx:    ctx,
	}, nil
}

// Address returns the configured Vault server address
func (c *Client) Address() string {
	return c.client.Address()
}

// GetSecret retrieves a secret from Vault
func (c *Client) GetSecret(path string) (map[string]interface{}, error) {
	secret, err := c.client.KVv2("secret").Get(c.ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret at %s: %w", path, err)
	}

	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("no data found at %s", path)
	}

	return secret.Data, nil
}

// IsReachable checks if Vault server is reachable
func (c *Client) IsReachable() bool {
	ctx, cancel := context.WithTimeout(c.ctx, 2*time.Second)
	defer cancel()

	_, err := c.client.Sys().HealthWithContext(ctx)
	return err == nil
}

// GetSSHKey retrieves the mirror deploy key from Vault.
// Tries the target-specific path first, falls back to the default key.
// Keys are never cached; every run reads fresh material.
func (c *Client) GetSSHKey(target string) (*SSHKey, error) {
	var data map[string]interface{}
	var err error

	if target != "" {
		path := fmt.Sprintf("gitmirror/%s/ssh", target)
		data, err = c.GetSecret(path)
		if err == nil {
			return parseSSHKey(data)
		}
	}

	data, err = c.GetSecret("gitmirror/default_ssh")
	if err != nil {
		return nil, fmt.Errorf("no SSH key found (tried target-specific and default): %w", err)
	}

	return parseSSHKey(data)
}

func parseSSHKey(data map[string]interface{}) (*SSHKey, error) {
	key := &SSHKey{}

	privateKey, ok := data["private_key"].(string)
	if !ok {
		return nil, fmt.Errorf("SSH key data missing 'private_key' field")
	}
	key.PrivateKey = privateKey

	if publicKey, ok := data["public_key"].(string); ok {
		key.PublicKey = publicKey
	}

	return key, nil
}

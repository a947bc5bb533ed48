// Package credential installs process-lifetime SSH key material for the
// mirror push. Keys live in a private temp directory with owner-only
// permissions and are removed when the run ends; nothing is written outside
// that directory and nothing survives the process.
package credential

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/lcgerke/gitmirror/internal/constants"
	"github.com/lcgerke/gitmirror/internal/errors"
)

const (
	keyFileName        = "id_mirror"
	knownHostsFileName = "known_hosts"
)

// Installed describes key material written to disk for one run
type Installed struct {
	Dir            string
	PrivateKeyPath string
	KnownHostsPath string
}

// Cleanup removes the installed key material
func (i *Installed) Cleanup() error {
	if i == nil || i.Dir == "" {
		return nil
	}
	return os.RemoveAll(i.Dir)
}

// ValidateKey checks that key material is present and carries PEM armor.
// It runs before anything touches the network or the filesystem.
func ValidateKey(material string) error {
	if strings.TrimSpace(material) == "" {
		return errors.EmptySecretKey()
	}
	if !strings.Contains(material, "PRIVATE KEY-----") {
		return errors.MalformedSecretKey()
	}
	return nil
}

// Install writes the private key and a known_hosts file for host into a
// fresh private directory. knownHostsEntry, when non-empty, is written
// verbatim (pinned host key); otherwise the host key is fetched with
// ssh-keyscan (trust-on-first-use).
func Install(ctx context.Context, material, host, knownHostsEntry string) (*Installed, error) {
	if err := ValidateKey(material); err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "gitmirror-ssh-")
	if err != nil {
		return nil, errors.KeyInstallFailed(err)
	}
	if err := os.Chmod(dir, 0700); err != nil {
		os.RemoveAll(dir)
		return nil, errors.KeyInstallFailed(err)
	}

	inst := &Installed{
		Dir:            dir,
		PrivateKeyPath: filepath.Join(dir, keyFileName),
		KnownHostsPath: filepath.Join(dir, knownHostsFileName),
	}

	// ssh rejects key files without a trailing newline
	if !strings.HasSuffix(material, "\n") {
		material += "\n"
	}
	if err := os.WriteFile(inst.PrivateKeyPath, []byte(material), 0600); err != nil {
		inst.Cleanup()
		return nil, errors.KeyInstallFailed(err)
	}

	entry := knownHostsEntry
	if entry == "" {
		entry, err = scanHostKey(ctx, host)
		if err != nil {
			inst.Cleanup()
			return nil, errors.HostTrustFailed(host, err)
		}
	}
	if !strings.HasSuffix(entry, "\n") {
		entry += "\n"
	}
	if err := os.WriteFile(inst.KnownHostsPath, []byte(entry), 0600); err != nil {
		inst.Cleanup()
		return nil, errors.HostTrustFailed(host, err)
	}

	return inst, nil
}

// scanHostKey fetches the host's public keys with ssh-keyscan
func scanHostKey(ctx context.Context, host string) (string, error) {
	if host == "" {
		return "", fmt.Errorf("no hostname to scan")
	}

	ctx, cancel := context.WithTimeout(ctx, constants.KeyscanTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ssh-keyscan", host)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ssh-keyscan %s failed: %w\nstderr: %s", host, err, stderr.String())
	}

	keys := strings.TrimSpace(stdout.String())
	if keys == "" {
		return "", fmt.Errorf("ssh-keyscan %s returned no keys", host)
	}

	return keys, nil
}

// HostFromURL extracts the hostname from an SSH remote URL.
// Supports scp-like syntax (git@github.com:owner/repo.git) and ssh:// URLs.
func HostFromURL(remoteURL string) (string, error) {
	if remoteURL == "" {
		return "", fmt.Errorf("empty remote URL")
	}

	if strings.Contains(remoteURL, "://") {
		u, err := url.Parse(remoteURL)
		if err != nil {
			return "", fmt.Errorf("invalid remote URL: %w", err)
		}
		if u.Hostname() == "" {
			return "", fmt.Errorf("remote URL has no host: %s", remoteURL)
		}
		return u.Hostname(), nil
	}

	// scp-like: [user@]host:path
	hostPart := remoteURL
	if at := strings.Index(hostPart, "@"); at >= 0 {
		hostPart = hostPart[at+1:]
	}
	colon := strings.Index(hostPart, ":")
	if colon <= 0 {
		return "", fmt.Errorf("not an SSH remote URL: %s", remoteURL)
	}

	return hostPart[:colon], nil
}

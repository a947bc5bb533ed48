package errors

import (
	"errors"
	"fmt"
)

// Error types for better error handling
type ErrorType string

const (
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeTransport  ErrorType = "transport"
	ErrorTypeGit        ErrorType = "git"
	ErrorTypeVault      ErrorType = "vault"
	ErrorTypeGitHub     ErrorType = "github"
	ErrorTypeFileSystem ErrorType = "filesystem"
	ErrorTypeValidation ErrorType = "validation"
)

// MirrorError represents a structured error with context
type MirrorError struct {
	Type    ErrorType
	Message string
	Hint    string
	Err     error
}

func (e *MirrorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *MirrorError) Unwrap() error {
	return e.Err
}

// UserFriendlyMessage returns a user-friendly error message with hint
func (e *MirrorError) UserFriendlyMessage() string {
	msg := e.Message
	if e.Hint != "" {
		msg += "\n\nSuggestion: " + e.Hint
	}
	return msg
}

// New creates a new MirrorError
func New(errType ErrorType, message string) *MirrorError {
	return &MirrorError{
		Type:    errType,
		Message: message,
	}
}

// Wrap wraps an existing error with context
func Wrap(errType ErrorType, message string, err error) *MirrorError {
	return &MirrorError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// WithHint adds a hint to an error
func WithHint(err *MirrorError, hint string) *MirrorError {
	err.Hint = hint
	return err
}

// IsConfiguration reports whether err is a configuration-class error:
// bad or missing inputs, detected before any network interaction.
func IsConfiguration(err error) bool {
	var me *MirrorError
	if !errors.As(err, &me) {
		return false
	}
	switch me.Type {
	case ErrorTypeConfig, ErrorTypeValidation, ErrorTypeFileSystem:
		return true
	}
	return false
}

// IsTransport reports whether err is a transport-class error:
// failures during key setup, host trust setup, or the push itself.
func IsTransport(err error) bool {
	var me *MirrorError
	if !errors.As(err, &me) {
		return false
	}
	switch me.Type {
	case ErrorTypeTransport, ErrorTypeGit, ErrorTypeVault, ErrorTypeGitHub:
		return true
	}
	return false
}

// Common error constructors

func MissingRemoteURL() *MirrorError {
	return WithHint(
		New(ErrorTypeConfig, "Mirror remote URL is not configured"),
		"Set target.url in mirror.yaml or the GITMIRROR_REMOTE_URL environment variable.",
	)
}

func EmptySecretKey() *MirrorError {
	return WithHint(
		New(ErrorTypeConfig, "SSH private key is empty"),
		"Provide the deploy key via GITMIRROR_SSH_KEY, a key file, or Vault at secret/gitmirror/<target>/ssh.",
	)
}

func MalformedSecretKey() *MirrorError {
	return WithHint(
		New(ErrorTypeConfig, "SSH private key is malformed (missing PEM armor)"),
		"The key must be a complete OpenSSH or PEM private key including BEGIN/END lines.",
	)
}

func ShallowRepository(path string) *MirrorError {
	return WithHint(
		New(ErrorTypeConfig, fmt.Sprintf("Repository at %s is a shallow clone", path)),
		"A shallow mirror push would silently drop history. Fetch full history first (git fetch --unshallow, or fetch-depth: 0 in CI).",
	)
}

func GitNotInstalled(err error) *MirrorError {
	return WithHint(
		Wrap(ErrorTypeGit, "Git is not installed or not in PATH", err),
		"Install git using your package manager (apt, yum, brew, etc.)",
	)
}

func PushFailed(kind, remote string, err error) *MirrorError {
	return WithHint(
		Wrap(ErrorTypeTransport, fmt.Sprintf("Force-push of %s to remote '%s' failed", kind, remote), err),
		"Check network connectivity, that the deploy key has write access, and that the destination does not forbid force-pushes.",
	)
}

func KeyInstallFailed(err error) *MirrorError {
	return Wrap(ErrorTypeTransport, "Failed to install SSH key material", err)
}

func HostTrustFailed(host string, err error) *MirrorError {
	return WithHint(
		Wrap(ErrorTypeTransport, fmt.Sprintf("Failed to establish host trust for %s", host), err),
		"Provide a pinned known_hosts entry in mirror.yaml, or ensure ssh-keyscan can reach the host.",
	)
}

func VaultUnreachable(addr string, err error) *MirrorError {
	return WithHint(
		Wrap(ErrorTypeVault, fmt.Sprintf("Vault unreachable at %s", addr), err),
		"Check that Vault is running and VAULT_ADDR/VAULT_TOKEN are set, or supply the key via GITMIRROR_SSH_KEY instead.",
	)
}

func SSHKeyNotFound(target string) *MirrorError {
	hint := "Check that the SSH key exists in Vault"
	if target != "" && target != "default" {
		hint = fmt.Sprintf("No SSH key found for target '%s'. To set a target-specific key, add it to Vault at secret/gitmirror/%s/ssh", target, target)
	}
	return WithHint(
		New(ErrorTypeVault, fmt.Sprintf("SSH key not found for '%s'", target)),
		hint,
	)
}

func VerificationFailed(detail string) *MirrorError {
	return WithHint(
		New(ErrorTypeTransport, fmt.Sprintf("Post-push verification failed: %s", detail)),
		"The destination refs do not match the local refs after the push. Re-run on the next trigger event; if it persists, check for a concurrent writer on the destination.",
	)
}

func GitHubAuthFailed(err error) *MirrorError {
	return WithHint(
		Wrap(ErrorTypeGitHub, "GitHub authentication failed", err),
		"Check that your GitHub token is valid and has the required scopes (repo). Set GITHUB_TOKEN or run 'gh auth login'.",
	)
}

func ForcePushForbidden(branch string) *MirrorError {
	return WithHint(
		New(ErrorTypeGitHub, fmt.Sprintf("Branch protection on '%s' forbids force-pushes", branch)),
		"A mirror push is a force-push by definition. Allow force-pushes on the destination branch or remove its protection rule.",
	)
}

func StateCorrupted(err error) *MirrorError {
	return WithHint(
		Wrap(ErrorTypeFileSystem, "State file is corrupted or invalid", err),
		"Backup and delete ~/.gitmirror/state.yaml; it will be recreated on the next run.",
	)
}

// Package hooks installs an optional post-commit hook that mirrors on
// local commits (sync-on-commit). The branch filter lives in the binary,
// so commits on non-trigger branches stay a no-op.
package hooks

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	backupSuffix = ".gitmirror-backup"
	hookName     = "post-commit"
)

// postCommitHookTemplate mirrors after every local commit. Failures never
// block the commit; a failed mirror surfaces on the next `gitmirror status`.
const postCommitHookTemplate = `#!/bin/bash
# gitmirror post-commit hook
# Mirrors the repository after each commit on the trigger branch

gitmirror run --quiet --branch "$(git rev-parse --abbrev-ref HEAD)" || {
    echo "gitmirror: mirror push failed (run 'gitmirror status' for details)" >&2
}
exit 0
`

// Manager handles git hook installation
type Manager struct {
	repoPath string
	hooksDir string
}

// NewManager creates a new hooks manager
func NewManager(repoPath string) *Manager {
	return &Manager{
		repoPath: repoPath,
		hooksDir: filepath.Join(repoPath, ".git", "hooks"),
	}
}

// Install installs the gitmirror post-commit hook, backing up any existing
// hook first
func (m *Manager) Install() error {
	if err := os.MkdirAll(m.hooksDir, 0755); err != nil {
		return fmt.Errorf("failed to create hooks directory: %w", err)
	}

	hookPath := filepath.Join(m.hooksDir, hookName)
	backupPath := hookPath + backupSuffix

	if _, err := os.Stat(hookPath); err == nil {
		if err := os.Rename(hookPath, backupPath); err != nil {
			return fmt.Errorf("failed to backup existing %s hook: %w", hookName, err)
		}
	}

	if err := os.WriteFile(hookPath, []byte(postCommitHookTemplate), 0755); err != nil {
		// Restore backup if write failed
		if _, statErr := os.Stat(backupPath); statErr == nil {
			_ = os.Rename(backupPath, hookPath)
		}
		return fmt.Errorf("failed to write %s hook: %w", hookName, err)
	}

	return nil
}

// Uninstall removes the gitmirror hook, restoring any backup
func (m *Manager) Uninstall() error {
	hookPath := filepath.Join(m.hooksDir, hookName)
	backupPath := hookPath + backupSuffix

	if _, err := os.Stat(hookPath); err == nil {
		if err := os.Remove(hookPath); err != nil {
			return fmt.Errorf("failed to remove %s hook: %w", hookName, err)
		}
	}

	if _, err := os.Stat(backupPath); err == nil {
		if err := os.Rename(backupPath, hookPath); err != nil {
			return fmt.Errorf("failed to restore original %s hook: %w", hookName, err)
		}
	}

	return nil
}

// IsInstalled checks if the gitmirror hook is installed
func (m *Manager) IsInstalled() bool {
	data, err := os.ReadFile(filepath.Join(m.hooksDir, hookName))
	if err != nil {
		return false
	}
	return string(data) == postCommitHookTemplate
}

// HasBackup checks if a backup exists for the hook
func (m *Manager) HasBackup() bool {
	_, err := os.Stat(filepath.Join(m.hooksDir, hookName+backupSuffix))
	return err == nil
}

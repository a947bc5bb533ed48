package hooks

import (
	"os"
	"path/filepath"
	"testing"
)

func setupRepoDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".git", "hooks"), 0755); err != nil {
		t.Fatalf("Failed to create hooks dir: %v", err)
	}
	return dir
}

func TestInstallAndUninstall(t *testing.T) {
	dir := setupRepoDir(t)
	mgr := NewManager(dir)

	if mgr.IsInstalled() {
		t.Fatal("Hook reported installed before install")
	}

	if err := mgr.Install(); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if !mgr.IsInstalled() {
		t.Error("Hook not reported installed")
	}

	hookPath := filepath.Join(dir, ".git", "hooks", "post-commit")
	info, err := os.Stat(hookPath)
	if err != nil {
		t.Fatalf("Hook not written: %v", err)
	}
	if info.Mode().Perm()&0100 == 0 {
		t.Error("Hook is not executable")
	}

	if err := mgr.Uninstall(); err != nil {
		t.Fatalf("Uninstall failed: %v", err)
	}
	if mgr.IsInstalled() {
		t.Error("Hook still installed after uninstall")
	}
}

func TestInstall_BacksUpExistingHook(t *testing.T) {
	dir := setupRepoDir(t)
	hookPath := filepath.Join(dir, ".git", "hooks", "post-commit")

	original := "#!/bin/sh\necho custom hook\n"
	if err := os.WriteFile(hookPath, []byte(original), 0755); err != nil {
		t.Fatalf("Failed to write existing hook: %v", err)
	}

	mgr := NewManager(dir)
	if err := mgr.Install(); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	if !mgr.HasBackup() {
		t.Fatal("Expected existing hook to be backed up")
	}

	// Uninstall restores the original hook
	if err := mgr.Uninstall(); err != nil {
		t.Fatalf("Uninstall failed: %v", err)
	}

	data, err := os.ReadFile(hookPath)
	if err != nil {
		t.Fatalf("Original hook not restored: %v", err)
	}
	if string(data) != original {
		t.Errorf("Restored hook differs: %q", data)
	}
}

func TestUninstall_NoHookIsNotAnError(t *testing.T) {
	mgr := NewManager(setupRepoDir(t))
	if err := mgr.Uninstall(); err != nil {
		t.Errorf("Uninstall on clean repo failed: %v", err)
	}
}

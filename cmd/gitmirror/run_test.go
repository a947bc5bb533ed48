package main

import (
	"os"
	"os/exec"
	"testing"

	"github.com/lcgerke/gitmirror/internal/git"
)

func initTestRepo(t *testing.T) *git.Client {
	t.Helper()

	dir := t.TempDir()
	for _, args := range [][]string{
		{"init", "-b", "main"},
		{"add", "."},
		{"commit", "--allow-empty", "-m", "initial commit"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v\n%s", args, err, out)
		}
	}
	return git.NewClient(dir)
}

func clearCIEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("GITHUB_EVENT_NAME", "")
	t.Setenv("GITHUB_REF", "")
	t.Setenv("CI", "")
}

func TestResolveEvent_FlagWins(t *testing.T) {
	clearCIEnv(t)
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("GITHUB_EVENT_NAME", "push")
	t.Setenv("GITHUB_REF", "refs/heads/ci-branch")

	runBranch = "flag-branch"
	defer func() { runBranch = "" }()

	event, ok := resolveEvent(initTestRepo(t))
	if !ok {
		t.Fatal("Expected an event")
	}
	if event.Branch != "flag-branch" {
		t.Errorf("Got branch %q, want the flag value", event.Branch)
	}
}

func TestResolveEvent_CIEnvironment(t *testing.T) {
	clearCIEnv(t)
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("GITHUB_EVENT_NAME", "push")
	t.Setenv("GITHUB_REF", "refs/heads/main")

	event, ok := resolveEvent(initTestRepo(t))
	if !ok {
		t.Fatal("Expected an event")
	}
	if event.Branch != "main" {
		t.Errorf("Got branch %q", event.Branch)
	}
}

func TestResolveEvent_CITagPushDoesNotQualify(t *testing.T) {
	clearCIEnv(t)
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("GITHUB_EVENT_NAME", "push")
	t.Setenv("GITHUB_REF", "refs/tags/v1.0.0")

	// In CI with a non-branch event the current branch must not be used
	// as a fallback
	if _, ok := resolveEvent(initTestRepo(t)); ok {
		t.Error("Tag push must not produce an event")
	}
}

func TestResolveEvent_LocalFallsBackToCurrentBranch(t *testing.T) {
	clearCIEnv(t)

	event, ok := resolveEvent(initTestRepo(t))
	if !ok {
		t.Fatal("Expected the current branch as a manual dispatch")
	}
	if event.Branch != "main" {
		t.Errorf("Got branch %q", event.Branch)
	}
}

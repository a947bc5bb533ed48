package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// runGit runs a raw git command for test setup
func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

// initRepo creates a repository with one commit on main
func initRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	runGit(t, dir, "init", "-b", "main")
	writeFile(t, dir, "README.md", "hello\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "initial commit")
	return dir
}

// initBare creates a bare destination repository
func initBare(t *testing.T) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "dest.git")
	cmd := exec.Command("git", "init", "--bare", "-b", "main", dir)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git init --bare failed: %v\n%s", err, out)
	}
	return dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func commit(t *testing.T, dir, name, content, message string) {
	t.Helper()
	writeFile(t, dir, name, content)
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", message)
}

func TestIsRepository(t *testing.T) {
	repo := initRepo(t)
	if !NewClient(repo).IsRepository() {
		t.Error("Expected repository to be detected")
	}

	if NewClient(t.TempDir()).IsRepository() {
		t.Error("Expected plain directory to not be a repository")
	}
}

func TestAddOrUpdateRemote(t *testing.T) {
	repo := initRepo(t)
	client := NewClient(repo)

	if err := client.AddOrUpdateRemote("mirror", "git@example.com:a/b.git"); err != nil {
		t.Fatalf("AddOrUpdateRemote failed: %v", err)
	}

	url, err := client.GetRemoteURL("mirror")
	if err != nil {
		t.Fatalf("GetRemoteURL failed: %v", err)
	}
	if url != "git@example.com:a/b.git" {
		t.Errorf("Expected registered URL, got %s", url)
	}

	// Existing remote is reconfigured, not an error
	if err := client.AddOrUpdateRemote("mirror", "git@example.com:c/d.git"); err != nil {
		t.Fatalf("AddOrUpdateRemote on existing remote failed: %v", err)
	}

	url, err = client.GetRemoteURL("mirror")
	if err != nil {
		t.Fatalf("GetRemoteURL failed: %v", err)
	}
	if url != "git@example.com:c/d.git" {
		t.Errorf("Expected updated URL, got %s", url)
	}
}

func TestForcePush_MirrorsBranchesAndTags(t *testing.T) {
	repo := initRepo(t)
	dest := initBare(t)
	client := NewClient(repo)

	runGit(t, repo, "branch", "dev")
	runGit(t, repo, "tag", "v1.0")
	runGit(t, repo, "tag", "-a", "v1.1", "-m", "annotated")

	if err := client.AddOrUpdateRemote("mirror", dest); err != nil {
		t.Fatalf("AddOrUpdateRemote failed: %v", err)
	}

	ctx := context.Background()
	if err := client.ForcePushBranches(ctx, "mirror"); err != nil {
		t.Fatalf("ForcePushBranches failed: %v", err)
	}
	if err := client.ForcePushTags(ctx, "mirror"); err != nil {
		t.Fatalf("ForcePushTags failed: %v", err)
	}

	local, err := client.LocalRefs()
	if err != nil {
		t.Fatalf("LocalRefs failed: %v", err)
	}
	remote, err := client.LsRemoteRefs(ctx, "mirror")
	if err != nil {
		t.Fatalf("LsRemoteRefs failed: %v", err)
	}

	if len(local) != len(remote) {
		t.Fatalf("Ref count mismatch: local %d, remote %d", len(local), len(remote))
	}
	for ref, hash := range local {
		if remote[ref] != hash {
			t.Errorf("Ref %s: local %s, remote %s", ref, hash, remote[ref])
		}
	}
}

func TestForcePush_IsIdempotent(t *testing.T) {
	repo := initRepo(t)
	dest := initBare(t)
	client := NewClient(repo)
	runGit(t, repo, "tag", "v1.0")

	if err := client.AddOrUpdateRemote("mirror", dest); err != nil {
		t.Fatalf("AddOrUpdateRemote failed: %v", err)
	}

	ctx := context.Background()
	var snapshots []map[string]string
	for i := 0; i < 2; i++ {
		if err := client.ForcePushBranches(ctx, "mirror"); err != nil {
			t.Fatalf("Push %d branches failed: %v", i+1, err)
		}
		if err := client.ForcePushTags(ctx, "mirror"); err != nil {
			t.Fatalf("Push %d tags failed: %v", i+1, err)
		}
		remote, err := client.LsRemoteRefs(ctx, "mirror")
		if err != nil {
			t.Fatalf("LsRemoteRefs failed: %v", err)
		}
		snapshots = append(snapshots, remote)
	}

	if len(snapshots[0]) != len(snapshots[1]) {
		t.Fatal("Second run changed the number of remote refs")
	}
	for ref, hash := range snapshots[0] {
		if snapshots[1][ref] != hash {
			t.Errorf("Ref %s changed between identical runs", ref)
		}
	}
}

func TestForcePush_OverwritesDivergedDestination(t *testing.T) {
	repo := initRepo(t)
	dest := initBare(t)
	client := NewClient(repo)

	if err := client.AddOrUpdateRemote("mirror", dest); err != nil {
		t.Fatalf("AddOrUpdateRemote failed: %v", err)
	}

	ctx := context.Background()
	if err := client.ForcePushBranches(ctx, "mirror"); err != nil {
		t.Fatalf("Initial push failed: %v", err)
	}

	// Someone pushes a commit directly to the destination
	other := t.TempDir()
	runGit(t, other, "clone", dest, "work")
	otherRepo := filepath.Join(other, "work")
	commit(t, otherRepo, "direct.txt", "pushed directly\n", "direct commit")
	runGit(t, otherRepo, "push", "origin", "main")
	direct := runGit(t, otherRepo, "rev-parse", "HEAD")

	// Local history moves on independently
	commit(t, repo, "local.txt", "local work\n", "local commit")

	if err := client.ForcePushBranches(ctx, "mirror"); err != nil {
		t.Fatalf("Force push over diverged destination failed: %v", err)
	}
	if err := client.ForcePushTags(ctx, "mirror"); err != nil {
		t.Fatalf("Tag push failed: %v", err)
	}

	// Destination main now equals local main
	localMain, err := client.GetBranchHash("main")
	if err != nil {
		t.Fatalf("GetBranchHash failed: %v", err)
	}
	destMain := runGit(t, dest, "rev-parse", "refs/heads/main")
	if destMain != localMain {
		t.Errorf("Destination main is %s, want %s", destMain, localMain)
	}

	// The directly-pushed commit is no longer reachable from any ref.
	// This destructive overwrite is the documented mirror property; the
	// assertion keeps it from being accidentally softened into a
	// non-force push.
	reachable := runGit(t, dest, "rev-list", "--all")
	if strings.Contains(reachable, direct) {
		t.Errorf("Commit %s is still reachable on the destination", direct)
	}
}

func TestForcePush_PrunesRefsDeletedLocally(t *testing.T) {
	repo := initRepo(t)
	dest := initBare(t)
	client := NewClient(repo)

	runGit(t, repo, "branch", "obsolete")
	runGit(t, repo, "tag", "old-tag")

	if err := client.AddOrUpdateRemote("mirror", dest); err != nil {
		t.Fatalf("AddOrUpdateRemote failed: %v", err)
	}

	ctx := context.Background()
	if err := client.ForcePushBranches(ctx, "mirror"); err != nil {
		t.Fatalf("Initial branch push failed: %v", err)
	}
	if err := client.ForcePushTags(ctx, "mirror"); err != nil {
		t.Fatalf("Initial tag push failed: %v", err)
	}

	runGit(t, repo, "branch", "-D", "obsolete")
	runGit(t, repo, "tag", "-d", "old-tag")

	if err := client.ForcePushBranches(ctx, "mirror"); err != nil {
		t.Fatalf("Second branch push failed: %v", err)
	}
	if err := client.ForcePushTags(ctx, "mirror"); err != nil {
		t.Fatalf("Second tag push failed: %v", err)
	}

	remote, err := client.LsRemoteRefs(ctx, "mirror")
	if err != nil {
		t.Fatalf("LsRemoteRefs failed: %v", err)
	}
	if _, ok := remote["refs/heads/obsolete"]; ok {
		t.Error("Deleted branch still present on destination")
	}
	if _, ok := remote["refs/tags/old-tag"]; ok {
		t.Error("Deleted tag still present on destination")
	}
}

func TestIsShallowClone(t *testing.T) {
	repo := initRepo(t)
	commit(t, repo, "second.txt", "more\n", "second commit")

	full := NewClient(repo)
	shallow, err := full.IsShallowClone()
	if err != nil {
		t.Fatalf("IsShallowClone failed: %v", err)
	}
	if shallow {
		t.Error("Full clone reported as shallow")
	}

	// file:// forces the smart protocol so --depth is honored
	shallowDir := filepath.Join(t.TempDir(), "shallow")
	cmd := exec.Command("git", "clone", "--depth", "1", "file://"+repo, shallowDir)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("shallow clone failed: %v\n%s", err, out)
	}

	shallow, err = NewClient(shallowDir).IsShallowClone()
	if err != nil {
		t.Fatalf("IsShallowClone failed: %v", err)
	}
	if !shallow {
		t.Error("Shallow clone not detected")
	}
}

func TestListBranchesAndTags(t *testing.T) {
	repo := initRepo(t)
	client := NewClient(repo)

	runGit(t, repo, "branch", "dev")
	runGit(t, repo, "tag", "v1.0")

	branches, err := client.ListBranches()
	if err != nil {
		t.Fatalf("ListBranches failed: %v", err)
	}
	if len(branches) != 2 {
		t.Errorf("Expected 2 branches, got %v", branches)
	}

	tags, err := client.ListTags()
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if len(tags) != 1 || tags[0] != "v1.0" {
		t.Errorf("Expected [v1.0], got %v", tags)
	}
}

func TestConfigureSSH(t *testing.T) {
	repo := initRepo(t)
	client := NewClient(repo)

	// Paths with spaces must survive the shell that runs core.sshCommand
	if err := client.ConfigureSSH("/tmp/key dir/key", "/tmp/key dir/known_hosts"); err != nil {
		t.Fatalf("ConfigureSSH failed: %v", err)
	}

	sshCmd, err := client.GetSSHCommand()
	if err != nil {
		t.Fatalf("GetSSHCommand failed: %v", err)
	}
	for _, want := range []string{
		"-i '/tmp/key dir/key'",
		"IdentitiesOnly=yes",
		"UserKnownHostsFile='/tmp/key dir/known_hosts'",
		"StrictHostKeyChecking=yes",
	} {
		if !strings.Contains(sshCmd, want) {
			t.Errorf("SSH command missing %q: %s", want, sshCmd)
		}
	}
}

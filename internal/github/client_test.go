package github

import (
	"testing"
)

func TestParseGitHubURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{"ssh url", "git@github.com:octocat/hello.git", "octocat", "hello", false},
		{"ssh url without suffix", "git@github.com:octocat/hello", "octocat", "hello", false},
		{"https url", "https://github.com/octocat/hello.git", "octocat", "hello", false},
		{"ssh scheme", "ssh://git@github.com/octocat/hello.git", "octocat", "hello", false},
		{"not github", "git@gitlab.com:octocat/hello.git", "", "", true},
		{"missing repo", "git@github.com:octocat", "", "", true},
		{"extra path", "https://github.com/a/b/c", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseGitHubURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %s", tt.url)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Errorf("Got %s/%s, want %s/%s", owner, repo, tt.wantOwner, tt.wantRepo)
			}
		})
	}
}

func TestIsGitHubURL(t *testing.T) {
	if !IsGitHubURL("git@github.com:octocat/hello.git") {
		t.Error("SSH GitHub URL not detected")
	}
	if IsGitHubURL("git@gitlab.com:octocat/hello.git") {
		t.Error("GitLab URL misdetected as GitHub")
	}
}

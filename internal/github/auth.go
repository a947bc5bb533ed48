package github

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// getGitHubToken attempts to find a GitHub token from multiple sources
// Priority: GITHUB_TOKEN env var > GH_TOKEN env var > gh CLI config > git config
func getGitHubToken() (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	if token := os.Getenv("GH_TOKEN"); token != "" {
		return token, nil
	}

	if token, err := readGhConfigToken(); err == nil && token != "" {
		return token, nil
	}

	if token, err := readGitConfigToken(); err == nil && token != "" {
		return token, nil
	}

	return "", fmt.Errorf("no GitHub token found\n\n" +
		"Please authenticate using one of:\n" +
		"  1. Set GITHUB_TOKEN environment variable\n" +
		"  2. Run: gh auth login\n" +
		"  3. Run: git config --global github.token YOUR_TOKEN")
}

// readGhConfigToken reads token from gh CLI config
func readGhConfigToken() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(home, ".config", "gh", "hosts.yml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		return "", err
	}

	var config map[string]map[string]string
	if err := yaml.Unmarshal(data, &config); err != nil {
		return "", err
	}

	if ghConfig, ok := config["github.com"]; ok {
		if token, ok := ghConfig["oauth_token"]; ok {
			return token, nil
		}
	}

	return "", fmt.Errorf("no token in gh config")
}

// readGitConfigToken reads token from git config
func readGitConfigToken() (string, error) {
	cmd := exec.Command("git", "config", "--global", "github.token")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}

	token := strings.TrimSpace(string(output))
	if token == "" {
		return "", fmt.Errorf("git config github.token is empty")
	}

	return token, nil
}

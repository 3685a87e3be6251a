package config

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const fallbackVersion = "0.1.0"

// GetVersion returns version from environment variable or calculates it from the VERSION file and git
func GetVersion() string {
	// Set by CI/CD
	if envVersion := os.Getenv("APP_VERSION"); envVersion != "" {
		return envVersion
	}

	baseVersion := getBaseVersion()
	if commitCount := getGitCommitCount(); commitCount > 0 {
		return baseVersion + "." + strconv.Itoa(commitCount)
	}
	return baseVersion
}

// getBaseVersion reads the base version from a VERSION file in the working directory or its parent
func getBaseVersion() string {
	for _, candidate := range []string{"VERSION", filepath.Join("..", "VERSION")} {
		if content, err := os.ReadFile(candidate); err == nil {
			if v := strings.TrimSpace(string(content)); v != "" {
				return v
			}
		}
	}
	return fallbackVersion
}

// getGitCommitCount gets the total commit count from git, 0 outside a repository
func getGitCommitCount() int {
	output, err := exec.Command("git", "rev-list", "--count", "HEAD").Output()
	if err != nil {
		return 0
	}
	count, err := strconv.Atoi(strings.TrimSpace(string(output)))
	if err != nil {
		return 0
	}
	return count
}

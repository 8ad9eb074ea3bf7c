// Package git wraps the git and gh command-line tools behind a small,
// mockable runner interface.
package git

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CommandRunner is an interface for running external commands.
// This allows for mocking in tests.
type CommandRunner interface {
	Run(name string, args ...string) ([]byte, error)
	RunInDir(dir, name string, args ...string) ([]byte, error)
	RunInteractive(name string, args ...string) error
}

// DefaultCommandRunner uses os/exec to run commands.
type DefaultCommandRunner struct{}

// Run executes a command in the current directory and captures its output.
func (r *DefaultCommandRunner) Run(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	return cmd.CombinedOutput()
}

// RunInDir executes a command in the specified directory.
func (r *DefaultCommandRunner) RunInDir(dir, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// RunInteractive executes a command attached to the caller's terminal.
func (r *DefaultCommandRunner) RunInteractive(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Client runs git operations for the version-bump and PR workflows.
type Client struct {
	runner CommandRunner
}

// NewClient creates a client with the default command runner.
func NewClient() *Client {
	return &Client{runner: &DefaultCommandRunner{}}
}

// NewClientWithRunner creates a client with a custom runner (for testing).
func NewClientWithRunner(runner CommandRunner) *Client {
	return &Client{runner: runner}
}

// IsAvailable reports whether git is installed and on PATH.
func (c *Client) IsAvailable() bool {
	_, err := c.runner.Run("git", "--version")
	return err == nil
}

// RemoteOriginURL returns the configured 'origin' remote URL for dir.
func (c *Client) RemoteOriginURL(dir string) (string, error) {
	out, err := c.runner.RunInDir(dir, "git", "config", "--get", "remote.origin.url")
	if err != nil {
		return "", fmt.Errorf("not a git repository or no origin remote: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// IsClean reports whether the working tree in dir has no uncommitted or
// unstaged changes.
func (c *Client) IsClean(dir string) (bool, error) {
	out, err := c.runner.RunInDir(dir, "git", "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("git status failed: %w", err)
	}
	return strings.TrimSpace(string(out)) == "", nil
}

// CommitAndTag stages file, commits with message, and creates tag.
func (c *Client) CommitAndTag(dir, file, message, tag string) error {
	if _, err := c.runner.RunInDir(dir, "git", "add", file); err != nil {
		return fmt.Errorf("git add failed: %w", err)
	}
	if _, err := c.runner.RunInDir(dir, "git", "commit", "-m", message); err != nil {
		return fmt.Errorf("git commit failed: %w", err)
	}
	if _, err := c.runner.RunInDir(dir, "git", "tag", tag); err != nil {
		return fmt.Errorf("git tag failed: %w", err)
	}
	return nil
}

// RemoteBranches lists the branch names published on the origin remote.
func (c *Client) RemoteBranches(dir string) ([]string, error) {
	out, err := c.runner.RunInDir(dir, "git", "ls-remote", "--heads", "origin")
	if err != nil {
		return nil, fmt.Errorf("git ls-remote failed: %w", err)
	}

	var branches []string
	seen := map[string]bool{}
	for _, line := range strings.Split(string(out), "\n") {
		_, ref, ok := strings.Cut(line, "refs/heads/")
		if !ok {
			continue
		}
		name := strings.TrimSpace(ref)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		branches = append(branches, name)
	}
	return branches, nil
}

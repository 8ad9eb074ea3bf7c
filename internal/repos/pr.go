package repos

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xanderwp/termutils/internal/git"
)

// PRService drives the create-and-merge pull request workflow through the
// GitHub CLI.
type PRService struct {
	runner git.CommandRunner
	out    io.Writer
}

// NewPRService creates a service using the real gh binary.
func NewPRService() *PRService {
	return &PRService{runner: &git.DefaultCommandRunner{}, out: os.Stdout}
}

// NewPRServiceWithRunner creates a service with a custom runner (for testing).
func NewPRServiceWithRunner(runner git.CommandRunner, out io.Writer) *PRService {
	return &PRService{runner: runner, out: out}
}

// CheckGH verifies the GitHub CLI is installed and on PATH.
func (s *PRService) CheckGH() error {
	if _, err := s.runner.Run("gh", "--version"); err != nil {
		return fmt.Errorf("GitHub CLI (gh) is not installed or not available in PATH")
	}
	return nil
}

// Create opens a pull request from head to base on repo.
func (s *PRService) Create(repo, head, base string) error {
	_, err := s.runner.Run("gh",
		"pr", "create",
		"--repo", repo,
		"--base", base,
		"--head", head,
		"--title", fmt.Sprintf("Merge %s into %s", head, base),
		"--body", fmt.Sprintf("Automatic pull request: %s → %s", head, base),
	)
	if err != nil {
		return fmt.Errorf("failed to create pull request: %w", err)
	}
	return nil
}

// Number returns the number of the open pull request for head on repo.
func (s *PRService) Number(repo, head string) (string, error) {
	out, err := s.runner.Run("gh",
		"pr", "list",
		"--repo", repo,
		"--head", head,
		"--json", "number",
		"--jq", ".[0].number",
	)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve pull request number: %w", err)
	}
	number := strings.TrimSpace(string(out))
	if number == "" || number == "null" {
		return "", fmt.Errorf("pull request number not found")
	}
	return number, nil
}

// Merge merges the pull request by number on repo.
func (s *PRService) Merge(repo, number string) error {
	if _, err := s.runner.Run("gh", "pr", "merge", number, "--repo", repo, "--merge"); err != nil {
		return fmt.Errorf("failed to merge pull request #%s: %w", number, err)
	}
	return nil
}

// CreateAndMerge runs the full workflow and returns the merged PR number.
func (s *PRService) CreateAndMerge(repo, head, base string) (string, error) {
	fmt.Fprintf(s.out, "\nCreating pull request from '%s' to '%s' for '%s'...\n", head, base, repo)
	if err := s.Create(repo, head, base); err != nil {
		return "", err
	}

	number, err := s.Number(repo, head)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(s.out, "Merging pull request #%s...\n", number)
	if err := s.Merge(repo, number); err != nil {
		return number, err
	}
	return number, nil
}

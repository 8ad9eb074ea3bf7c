package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/xanderwp/termutils/internal/log"
)

// metadataTimeout bounds the release metadata lookup.
const metadataTimeout = 10 * time.Second

// GitHubChecker resolves the latest release via the GitHub API.
type GitHubChecker struct {
	owner       string
	repo        string
	githubToken string // Optional, for rate limiting
	client      *http.Client
	baseURL     string // Base URL for GitHub API (for testing)
}

// githubRelease is the subset of the GitHub release response we consume.
type githubRelease struct {
	TagName    string `json:"tag_name"`
	HTMLURL    string `json:"html_url"`
	ZipballURL string `json:"zipball_url"`
}

// NewGitHubChecker creates a checker for owner/repo.
func NewGitHubChecker(owner, repo string) *GitHubChecker {
	return &GitHubChecker{
		owner: owner,
		repo:  repo,
		client: &http.Client{
			Timeout: metadataTimeout,
		},
		baseURL: "https://api.github.com",
	}
}

// WithToken sets an optional GitHub token for authentication.
func (c *GitHubChecker) WithToken(token string) *GitHubChecker {
	c.githubToken = token
	return c
}

// WithBaseURL overrides the API endpoint (for testing).
func (c *GitHubChecker) WithBaseURL(url string) *GitHubChecker {
	c.baseURL = url
	return c
}

// LatestRelease fetches the newest published release.
// Network and protocol failures wrap ErrCheckFailed so callers can tell a
// transient failure apart from "no releases".
func (c *GitHubChecker) LatestRelease(ctx context.Context) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.baseURL, c.owner, c.repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "termutils-update-check")
	if c.githubToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.githubToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCheckFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Repository exists but has no published releases.
		return nil, ErrNoReleases
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: release API returned status %d", ErrCheckFailed, resp.StatusCode)
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrCheckFailed, err)
	}

	log.Debug().Str("tag", release.TagName).Msg("fetched latest release")

	return &Release{
		Tag:        release.TagName,
		ZipballURL: release.ZipballURL,
		HTMLURL:    release.HTMLURL,
	}, nil
}

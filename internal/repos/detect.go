package repos

import "strings"

// commonBases are branch names a feature branch is typically merged into,
// used when inferring pairs for a newly discovered repository.
var commonBases = []string{"main", "master", "develop", "beta", "staging", "release"}

// maxInferredPairs caps how many pairs branch inference produces.
const maxInferredPairs = 30

// ParseRemoteSlug extracts the "owner/name" slug from a git remote URL.
// Returns "" when the URL is not recognized.
func ParseRemoteSlug(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}

	if strings.HasPrefix(url, "git@") {
		// git@github.com:owner/repo.git
		_, after, ok := strings.Cut(url, ":")
		if !ok {
			return ""
		}
		return strings.TrimSuffix(after, ".git")
	}

	for _, marker := range []string{"github.com/", "gitlab.com/"} {
		if _, after, ok := strings.Cut(url, marker); ok {
			return strings.TrimSuffix(after, ".git")
		}
	}
	return ""
}

// Detect returns the configured repositories whose slug appears in the
// given remote URL.
func Detect(configured []Repo, remoteURL string) []Repo {
	var matches []Repo
	for _, r := range configured {
		if r.Repo != "" && strings.Contains(remoteURL, r.Repo) {
			matches = append(matches, r)
		}
	}
	return matches
}

// InferPairs builds head -> base pairs from the remote branch list by
// pairing every branch with the common base branches that exist on the
// remote. Falls back to pairs over a small default set when the remote
// lists nothing useful.
func InferPairs(branches []string) []Pair {
	present := map[string]bool{}
	for _, b := range branches {
		present[b] = true
	}

	var pairs []Pair
	for _, head := range branches {
		for _, base := range commonBases {
			if present[base] && head != base {
				pairs = append(pairs, Pair{Head: head, Base: base})
			}
		}
		if len(pairs) >= maxInferredPairs {
			pairs = pairs[:maxInferredPairs]
			break
		}
	}

	if len(pairs) == 0 {
		defaults := []string{"develop", "main", "beta"}
		for _, head := range defaults {
			for _, base := range defaults {
				if head != base {
					pairs = append(pairs, Pair{Head: head, Base: base})
				}
			}
		}
	}
	return pairs
}

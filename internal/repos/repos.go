// Package repos handles the pull-request repository configuration and its
// location resolution.
//
// The configuration lists repositories and the branch pairs a pull request
// may be created between. It is stored beside the installation as
// repos.json, repos.yaml or repos.toml.
package repos

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Pair is a head -> base branch combination.
type Pair struct {
	Head string `json:"head" yaml:"head" toml:"head"`
	Base string `json:"base" yaml:"base" toml:"base"`
}

// Repo is a configured repository with its allowed branch pairs.
type Repo struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Repo  string `json:"repo" yaml:"repo" toml:"repo"` // owner/name slug
	Pairs []Pair `json:"pairs" yaml:"pairs" toml:"pairs"`
}

// tomlDocument wraps the list for TOML, which has no top-level arrays.
type tomlDocument struct {
	Repos []Repo `toml:"repos"`
}

// Format represents the file format of a repos config.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatYAML
	FormatTOML
)

// searchNames are the recognized config filenames, in precedence order.
var searchNames = []string{"repos.json", "repos.yaml", "repos.yml", "repos.toml"}

// FindConfig returns the first repos config present in dir, or "" when
// none exists.
func FindConfig(dir string) string {
	for _, name := range searchNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// detectFormat determines the file format based on extension or content.
func detectFormat(path string, content []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	}
	return sniffFormat(content)
}

// sniffFormat attempts to detect the format from content for
// extensionless files.
func sniffFormat(content []byte) Format {
	trimmed := strings.TrimSpace(string(content))

	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		// A JSON list or object; TOML table headers also start with '['
		// but are followed by a bare word, not whitespace or a quote.
		if strings.HasPrefix(trimmed, "[[") || strings.Contains(trimmed, " = ") {
			return FormatTOML
		}
		return FormatJSON
	}
	if strings.Contains(trimmed, ":") {
		return FormatYAML
	}
	return FormatUnknown
}

// Load reads and parses the repos config at path.
// A missing file is an empty configuration, not an error.
func Load(path string) ([]Repo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var repos []Repo
	switch detectFormat(path, data) {
	case FormatJSON:
		if err := json.Unmarshal(data, &repos); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &repos); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case FormatTOML:
		var doc tomlDocument
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		repos = doc.Repos
	default:
		return nil, fmt.Errorf("unrecognized repos config format: %s", path)
	}
	return repos, nil
}

// Append adds a repository to the config at path, creating the file when
// absent. The entry is written back in the file's own format.
func Append(path string, repo Repo) error {
	existing, err := Load(path)
	if err != nil {
		return err
	}
	existing = append(existing, repo)

	var data []byte
	switch detectFormat(path, nil) {
	case FormatYAML:
		data, err = yaml.Marshal(existing)
	case FormatTOML:
		data, err = toml.Marshal(tomlDocument{Repos: existing})
	default:
		data, err = json.MarshalIndent(existing, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Package manifest reads and rewrites the installation's version manifest.
//
// The manifest is a pyproject-style TOML file holding exactly one
// authoritative version string, under either the [project] section or the
// [tool.poetry] section. Only one section is populated per installation;
// extraction tries both in order and takes the first match.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the manifest file expected beside the installation.
const FileName = "pyproject.toml"

var (
	// ErrNotFound means the manifest file does not exist or is unreadable.
	ErrNotFound = errors.New("manifest not found")
	// ErrNoVersion means the manifest has no recognized version key.
	ErrNoVersion = errors.New("no version found in manifest")
)

// strategy extracts a version string from the decoded manifest document.
// Strategies are tried in order; the first non-empty result wins.
type strategy struct {
	name    string
	extract func(doc map[string]any) string
}

var strategies = []strategy{
	{
		name: "project",
		extract: func(doc map[string]any) string {
			return stringAt(doc, "project", "version")
		},
	},
	{
		name: "tool.poetry",
		extract: func(doc map[string]any) string {
			return stringAt(doc, "tool", "poetry", "version")
		},
	},
}

// stringAt walks nested maps along the given keys and returns the string
// value at the end, or "".
func stringAt(doc map[string]any, keys ...string) string {
	cur := any(doc)
	for _, key := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur, ok = m[key]
		if !ok {
			return ""
		}
	}
	s, _ := cur.(string)
	return s
}

// LocalVersion reads the authoritative local version from the manifest in
// dir. Returns ErrNotFound when the manifest is missing and ErrNoVersion
// when no recognized section carries a version.
func LocalVersion(dir string) (string, error) {
	return VersionFromFile(filepath.Join(dir, FileName))
}

// VersionFromFile reads the version from an explicit manifest path.
func VersionFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNotFound, path, err)
	}

	for _, s := range strategies {
		if v := s.extract(doc); v != "" {
			return v, nil
		}
	}
	return "", ErrNoVersion
}

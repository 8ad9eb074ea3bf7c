// Package templates provides embedded starter files for termutils init.
package templates

import (
	"embed"
	"fmt"
	"os"
	"regexp"
	"sort"
)

//go:embed servers.txt repos.json
var templatesFS embed.FS

// Template is a starter file with metadata.
type Template struct {
	Name        string
	FileName    string
	Description string
	Content     []byte
}

// templateFiles maps template names to their embedded file and description.
var templateFiles = map[string]struct {
	file        string
	description string
}{
	"servers": {file: "servers.txt", description: "SSH server list (name|user@host per line)"},
	"repos":   {file: "repos.json", description: "Pull request repository configuration"},
}

// List returns all available template names sorted alphabetically.
func List() []string {
	names := make([]string, 0, len(templateFiles))
	for name := range templateFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	entry, ok := templateFiles[name]
	if !ok {
		return nil, fmt.Errorf("template '%s' not found", name)
	}
	content, err := templatesFS.ReadFile(entry.file)
	if err != nil {
		return nil, fmt.Errorf("failed to read template '%s': %w", name, err)
	}
	return &Template{
		Name:        name,
		FileName:    entry.file,
		Description: entry.description,
		Content:     content,
	}, nil
}

// GetDescription returns the description for a template.
func GetDescription(name string) string {
	if entry, ok := templateFiles[name]; ok {
		return entry.description
	}
	return "Custom template"
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// ExpandEnvVars replaces ${VAR} and ${VAR:-default} patterns in content.
func ExpandEnvVars(content []byte) []byte {
	return envVarPattern.ReplaceAllFunc(content, func(match []byte) []byte {
		parts := envVarPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := string(parts[1])
		value := os.Getenv(varName)

		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}

		return []byte(value)
	})
}

// GetExpanded returns a template with environment variables expanded.
func GetExpanded(name string) (*Template, error) {
	tmpl, err := Get(name)
	if err != nil {
		return nil, err
	}

	tmpl.Content = ExpandEnvVars(tmpl.Content)
	return tmpl, nil
}

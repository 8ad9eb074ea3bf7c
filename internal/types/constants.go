// Package types provides type-safe constants shared across the command
// layer, replacing magic strings with typed values that carry their own
// validation.
package types

import (
	"fmt"
	"strings"
)

// ProjectKind represents the kind of project a directory holds, derived
// from which manifest file is present.
type ProjectKind string

const (
	// ProjectNPM indicates a Node.js project (package.json).
	ProjectNPM ProjectKind = "npm"
	// ProjectPython indicates a Python project (pyproject.toml).
	ProjectPython ProjectKind = "python"
)

// AllProjectKinds returns all valid project kinds.
func AllProjectKinds() []ProjectKind {
	return []ProjectKind{ProjectNPM, ProjectPython}
}

// Validate checks if the ProjectKind is a valid value.
func (k ProjectKind) Validate() error {
	switch k {
	case ProjectNPM, ProjectPython:
		return nil
	case "":
		return fmt.Errorf("project kind is required")
	default:
		return fmt.Errorf("invalid project kind '%s' (must be npm or python)", k)
	}
}

// String returns the string representation of the ProjectKind.
func (k ProjectKind) String() string {
	return string(k)
}

// ManifestFile returns the manifest filename for this project kind.
func (k ProjectKind) ManifestFile() string {
	if k == ProjectNPM {
		return "package.json"
	}
	return "pyproject.toml"
}

// ParseProjectKind parses a string into a ProjectKind.
func ParseProjectKind(s string) (ProjectKind, error) {
	k := ProjectKind(strings.ToLower(s))
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

// BumpKind represents which semantic version component to increment.
type BumpKind string

const (
	// BumpMajor increments the major component and zeroes the rest.
	BumpMajor BumpKind = "major"
	// BumpMinor increments the minor component and zeroes the patch.
	BumpMinor BumpKind = "minor"
	// BumpPatch increments the patch component.
	BumpPatch BumpKind = "patch"
)

// AllBumpKinds returns all valid bump kinds.
func AllBumpKinds() []BumpKind {
	return []BumpKind{BumpMajor, BumpMinor, BumpPatch}
}

// Validate checks if the BumpKind is a valid value.
func (k BumpKind) Validate() error {
	switch k {
	case BumpMajor, BumpMinor, BumpPatch:
		return nil
	case "":
		return fmt.Errorf("bump kind is required")
	default:
		return fmt.Errorf("invalid bump kind '%s' (must be major, minor, or patch)", k)
	}
}

// String returns the string representation of the BumpKind.
func (k BumpKind) String() string {
	return string(k)
}

// ParseBumpKind parses a string into a BumpKind.
func ParseBumpKind(s string) (BumpKind, error) {
	k := BumpKind(strings.ToLower(s))
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

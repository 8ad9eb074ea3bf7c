package update

import (
	"strconv"
	"strings"
)

// Version is an ordered sequence of numeric components extracted from a
// release tag. Parsing is greedy: components are consumed left to right and
// stop at the first non-numeric part, so "1.2.3-rc.1" yields [1 2 3].
type Version []int

// ParseVersion parses a version string into its numeric components.
// A leading 'v' or 'V' is stripped. Unparsable input yields an empty
// Version rather than an error so callers can compare against a missing
// local version without special-casing.
func ParseVersion(s string) Version {
	s = strings.TrimLeft(s, "vV")
	if s == "" {
		return nil
	}

	var parts Version
	for _, p := range strings.Split(s, ".") {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			break
		}
		parts = append(parts, n)
	}
	return parts
}

// Compare compares two versions component-wise.
// Returns:
//   - 1 if v > other
//   - 0 if v == other
//   - -1 if v < other
//
// When all shared components are equal the shorter version compares as
// less, so "1.2" < "1.2.0". The empty version compares less than any
// non-empty version.
func (v Version) Compare(other Version) int {
	for i := 0; i < len(v) && i < len(other); i++ {
		if v[i] != other[i] {
			if v[i] > other[i] {
				return 1
			}
			return -1
		}
	}

	switch {
	case len(v) > len(other):
		return 1
	case len(v) < len(other):
		return -1
	default:
		return 0
	}
}

// IsGreaterThan returns true if v > other.
func (v Version) IsGreaterThan(other Version) bool {
	return v.Compare(other) > 0
}

// String returns the dotted form of the parsed components.
func (v Version) String() string {
	if len(v) == 0 {
		return ""
	}
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// CompareVersions compares two version strings.
// Returns:
//   - 1 if a > b
//   - 0 if a == b
//   - -1 if a < b
func CompareVersions(a, b string) int {
	return ParseVersion(a).Compare(ParseVersion(b))
}

// NormalizeVersion removes the 'v' prefix if present.
func NormalizeVersion(s string) string {
	return strings.TrimLeft(s, "vV")
}

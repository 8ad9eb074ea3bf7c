package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/xanderwp/termutils/internal/types"
)

var semverRe = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

// Section-scoped replacements so a version key in an unrelated section is
// never touched. The [project] section is preferred, matching the
// extraction order.
var (
	projectVersionRe = regexp.MustCompile(`(?ms)(^\[project\].*?^version\s*=\s*")[^"]+(")`)
	poetryVersionRe  = regexp.MustCompile(`(?ms)(^\[tool\.poetry\].*?^version\s*=\s*")[^"]+(")`)
)

// Bump returns the version with the given component incremented and the
// lower components zeroed.
func Bump(version string, kind types.BumpKind) (string, error) {
	m := semverRe.FindStringSubmatch(version)
	if m == nil {
		return "", fmt.Errorf("invalid version format: %s", version)
	}

	var major, minor, patch int
	fmt.Sscanf(version, "%d.%d.%d", &major, &minor, &patch)

	switch kind {
	case types.BumpMajor:
		major++
		minor, patch = 0, 0
	case types.BumpMinor:
		minor++
		patch = 0
	case types.BumpPatch:
		patch++
	default:
		return "", fmt.Errorf("invalid bump kind: %s", kind)
	}

	return fmt.Sprintf("%d.%d.%d", major, minor, patch), nil
}

// RewriteVersion replaces the version value inside the manifest at path,
// preserving the rest of the file byte-for-byte. The replace is scoped to
// the [project] section first, then [tool.poetry].
func RewriteVersion(path, newVersion string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	content := string(data)
	replacement := "${1}" + newVersion + "${2}"

	updated := projectVersionRe.ReplaceAllString(content, replacement)
	if updated == content {
		updated = poetryVersionRe.ReplaceAllString(content, replacement)
	}
	if updated == content {
		return fmt.Errorf("failed to update version in %s: %w", path, ErrNoVersion)
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(updated), info.Mode().Perm())
}

// DetectProject reports which project kinds are present in dir, in a fixed
// order (npm first, python second).
func DetectProject(dir string) []types.ProjectKind {
	var kinds []types.ProjectKind
	for _, k := range types.AllProjectKinds() {
		if _, err := os.Stat(filepath.Join(dir, k.ManifestFile())); err == nil {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

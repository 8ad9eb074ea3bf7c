package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/xanderwp/termutils/internal/log"
	"github.com/xanderwp/termutils/internal/manifest"
	"github.com/xanderwp/termutils/internal/output"
	"github.com/xanderwp/termutils/internal/update"
)

// installRootEnv overrides the detected installation directory, mainly for
// tests and unusual packaging.
const installRootEnv = "TERMUTILS_HOME"

// installRoot returns the directory the tool is installed in: the env
// override when set, otherwise the directory holding the running binary
// with symlinks resolved.
func installRoot() (string, error) {
	if dir := os.Getenv(installRootEnv); dir != "" {
		return dir, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable path: %w", err)
	}
	return filepath.Dir(resolved), nil
}

// newChecker builds the release checker, picking up GITHUB_TOKEN when set.
func newChecker() update.Checker {
	checker := update.NewGitHubChecker(update.DefaultOwner, update.DefaultRepo)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		checker = checker.WithToken(token)
	}
	return checker
}

// newUpdateService wires the check service against the install directory's
// manifest and persisted state.
func newUpdateService(installDir string) *update.Service {
	return update.NewService(installDir, newChecker(), func() (string, error) {
		return manifest.LocalVersion(installDir)
	})
}

// newOutputWriter builds a writer for the global --output flag.
func newOutputWriter(w io.Writer) (*output.Writer, error) {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	return output.NewWriter(w, format), nil
}

// notifyUpdateAvailable prints a one-line nag when a previous check left an
// availability flag behind, then refreshes the flag in the background. The
// interactive entry points call this on startup; it never blocks on the
// network.
func notifyUpdateAvailable(w io.Writer) {
	installDir, err := installRoot()
	if err != nil {
		return
	}

	service := newUpdateService(installDir)
	if flag := service.Peek(); flag != nil {
		fmt.Fprintf(w, "Update available (%s). Run 'termutils update --apply' to install.\n", flag.Latest)
	}

	backgroundCheck()
}

// backgroundCheck re-runs the update check in a detached child process so
// the result lands in the cache and flag files for the next invocation.
func backgroundCheck() {
	exe, err := os.Executable()
	if err != nil {
		return
	}
	cmd := exec.Command(exe, "update", "--check")
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		log.Debug().Err(err).Msg("failed to start background update check")
		return
	}
	if err := cmd.Process.Release(); err != nil {
		log.Debug().Err(err).Msg("failed to detach background update check")
	}
}

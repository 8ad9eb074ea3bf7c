package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xanderwp/termutils/internal/git"
	"github.com/xanderwp/termutils/internal/interactive"
	"github.com/xanderwp/termutils/internal/manifest"
	"github.com/xanderwp/termutils/internal/types"
)

func newBumpCmd() *cobra.Command {
	var doCommit bool

	cmd := &cobra.Command{
		Use:   "bump [major|minor|patch]",
		Short: "Bump the project version in the current directory",
		Long: `Increment the version of the project in the current directory.

Node.js projects (package.json) are bumped through 'npm version'. Python
projects (pyproject.toml) are rewritten in place, preserving the rest of
the file.

Examples:
  termutils bump patch
  termutils bump minor --commit   # Also commit and tag the bump`,
		ValidArgs: []string{"major", "minor", "patch"},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			notifyUpdateAvailable(cmd.OutOrStdout())

			var kind types.BumpKind
			if len(args) == 1 {
				parsed, err := types.ParseBumpKind(args[0])
				if err != nil {
					return err
				}
				kind = parsed
			}

			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			p := interactive.NewPrompterWithIO(cmd.InOrStdin(), cmd.OutOrStdout())
			return runBump(p, &git.DefaultCommandRunner{}, git.NewClient(), cwd, kind, doCommit, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&doCommit, "commit", false, "Commit the manifest and tag the new version")

	return cmd
}

// runBump bumps the version of the project in dir. An empty kind is asked
// for interactively.
func runBump(p *interactive.Prompter, runner git.CommandRunner, gitClient *git.Client, dir string, kind types.BumpKind, doCommit bool, out io.Writer) error {
	kinds := manifest.DetectProject(dir)
	if len(kinds) == 0 {
		return fmt.Errorf("no package.json or pyproject.toml found in %s", dir)
	}

	project := kinds[0]
	if len(kinds) > 1 {
		choices := make([]string, len(kinds))
		for i, k := range kinds {
			choices[i] = fmt.Sprintf("%s (%s)", k, k.ManifestFile())
		}
		idx, err := p.Select("Multiple manifests found, which project to bump?", choices)
		if err != nil {
			if errors.Is(err, interactive.ErrCancelled) {
				return nil
			}
			return err
		}
		project = kinds[idx]
	}

	if kind == "" {
		choices := []string{"patch", "minor", "major"}
		idx, err := p.Select("Which component to bump?", choices)
		if err != nil {
			if errors.Is(err, interactive.ErrCancelled) {
				return nil
			}
			return err
		}
		kind, _ = types.ParseBumpKind(choices[idx])
	}

	switch project {
	case types.ProjectNPM:
		return bumpNPM(runner, dir, kind, out)
	default:
		return bumpPython(gitClient, dir, kind, doCommit, out)
	}
}

// bumpNPM delegates to npm, which owns package.json edits.
func bumpNPM(runner git.CommandRunner, dir string, kind types.BumpKind, out io.Writer) error {
	result, err := runner.RunInDir(dir, "npm", "version", kind.String())
	if err != nil {
		return fmt.Errorf("npm version failed: %w", err)
	}
	fmt.Fprintf(out, "Bumped npm project version: %s\n", strings.TrimSpace(string(result)))
	return nil
}

// bumpPython rewrites the pyproject.toml version in place.
func bumpPython(gitClient *git.Client, dir string, kind types.BumpKind, doCommit bool, out io.Writer) error {
	path := filepath.Join(dir, manifest.FileName)

	if doCommit {
		clean, err := gitClient.IsClean(dir)
		if err != nil {
			return err
		}
		if !clean {
			return fmt.Errorf("working tree has uncommitted changes; commit or stash them before bumping with --commit")
		}
	}

	current, err := manifest.VersionFromFile(path)
	if err != nil {
		return err
	}
	next, err := manifest.Bump(current, kind)
	if err != nil {
		return err
	}
	if err := manifest.RewriteVersion(path, next); err != nil {
		return err
	}
	fmt.Fprintf(out, "Bumped version: %s -> %s\n", current, next)

	if !doCommit {
		return nil
	}

	tag := "v" + next
	if err := gitClient.CommitAndTag(dir, manifest.FileName, fmt.Sprintf("Bump version to %s", next), tag); err != nil {
		return err
	}
	fmt.Fprintf(out, "Committed and tagged %s.\n", tag)
	return nil
}

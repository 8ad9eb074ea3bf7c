package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xanderwp/termutils/internal/git"
	"github.com/xanderwp/termutils/internal/interactive"
	"github.com/xanderwp/termutils/internal/repos"
)

func newPRCmd() *cobra.Command {
	var repoFlag, headFlag, baseFlag string

	cmd := &cobra.Command{
		Use:   "pr",
		Short: "Create and merge a pull request",
		Long: `Create a pull request between two branches and merge it, using the
GitHub CLI (gh).

With no flags the current directory's origin remote is matched against the
configured repositories and a branch pair is picked interactively.

Examples:
  termutils pr
  termutils pr --repo owner/name --head develop --base main`,
		RunE: func(cmd *cobra.Command, args []string) error {
			notifyUpdateAvailable(cmd.OutOrStdout())

			installDir, err := installRoot()
			if err != nil {
				return err
			}
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			p := interactive.NewPrompterWithIO(cmd.InOrStdin(), cmd.OutOrStdout())
			return runPR(p, repos.NewPRService(), git.NewClient(), installDir, cwd, cmd.OutOrStdout(), repoFlag, headFlag, baseFlag)
		},
	}

	cmd.Flags().StringVar(&repoFlag, "repo", "", "Repository slug (owner/name)")
	cmd.Flags().StringVar(&headFlag, "head", "", "Head branch to merge from")
	cmd.Flags().StringVar(&baseFlag, "base", "", "Base branch to merge into")

	return cmd
}

// runPR resolves the target repository and branch pair, then runs the
// create-and-merge workflow. Fully specified flags skip all prompts.
func runPR(p *interactive.Prompter, service *repos.PRService, gitClient *git.Client, installDir, dir string, out io.Writer, repoFlag, headFlag, baseFlag string) error {
	if err := service.CheckGH(); err != nil {
		return err
	}

	if repoFlag != "" && headFlag != "" && baseFlag != "" {
		number, err := service.CreateAndMerge(repoFlag, headFlag, baseFlag)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Merged pull request #%s.\n", number)
		return nil
	}

	slug, pairs, err := resolveRepo(p, gitClient, installDir, dir, out)
	if err != nil {
		return err
	}
	if slug == "" {
		fmt.Fprintln(out, "No repository selected.")
		return nil
	}

	pair, err := selectPair(p, pairs)
	if err != nil {
		if errors.Is(err, interactive.ErrCancelled) {
			return nil
		}
		return err
	}

	number, err := service.CreateAndMerge(slug, pair.Head, pair.Base)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Merged pull request #%s.\n", number)
	return nil
}

// resolveRepo finds the repository to target: a configured entry matching
// the origin remote when one exists, otherwise the remote's own slug with
// inferred branch pairs, offered for saving.
func resolveRepo(p *interactive.Prompter, gitClient *git.Client, installDir, dir string, out io.Writer) (string, []repos.Pair, error) {
	remoteURL, err := gitClient.RemoteOriginURL(dir)
	if err != nil {
		return "", nil, err
	}

	configPath := repos.FindConfig(installDir)
	var configured []repos.Repo
	if configPath != "" {
		configured, err = repos.Load(configPath)
		if err != nil {
			return "", nil, err
		}
	}

	if matches := repos.Detect(configured, remoteURL); len(matches) > 0 {
		match := matches[0]
		pairs := match.Pairs
		if len(pairs) == 0 {
			pairs = inferredPairs(gitClient, dir)
		}
		return match.Repo, pairs, nil
	}

	slug := repos.ParseRemoteSlug(remoteURL)
	if slug == "" {
		return "", nil, fmt.Errorf("could not determine repository from remote %q", remoteURL)
	}

	fmt.Fprintf(out, "Repository %s is not configured yet.\n", slug)
	pairs := inferredPairs(gitClient, dir)

	if p.Confirm(fmt.Sprintf("Save %s to the repository configuration?", slug), true) {
		if configPath == "" {
			configPath = filepath.Join(installDir, "repos.json")
		}
		entry := repos.Repo{Name: filepath.Base(slug), Repo: slug, Pairs: pairs}
		if err := repos.Append(configPath, entry); err != nil {
			return "", nil, err
		}
		fmt.Fprintf(out, "Saved to %s.\n", configPath)
	}

	return slug, pairs, nil
}

// inferredPairs derives branch pairs from the remote's branch list.
func inferredPairs(gitClient *git.Client, dir string) []repos.Pair {
	branches, err := gitClient.RemoteBranches(dir)
	if err != nil {
		branches = nil
	}
	return repos.InferPairs(branches)
}

// selectPair asks which head -> base pair to use.
func selectPair(p *interactive.Prompter, pairs []repos.Pair) (repos.Pair, error) {
	if len(pairs) == 0 {
		return repos.Pair{}, fmt.Errorf("no branch pairs available")
	}
	if len(pairs) == 1 {
		return pairs[0], nil
	}

	choices := make([]string, len(pairs))
	for i, pair := range pairs {
		choices[i] = fmt.Sprintf("%s -> %s", pair.Head, pair.Base)
	}
	idx, err := p.Select("Select the branches to merge:", choices)
	if err != nil {
		return repos.Pair{}, err
	}
	return pairs[idx], nil
}

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xanderwp/termutils/internal/templates"
)

func newInitCmd() *cobra.Command {
	var dir string
	var force bool

	cmd := &cobra.Command{
		Use:   "init [template...]",
		Short: "Create starter configuration files",
		Long: `Write starter configuration files next to the installed binary.

Available templates:
  servers    - SSH server list (servers.txt)
  repos      - Pull request repository configuration (repos.json)

With no arguments every missing file is created. Existing files are left
alone unless --force is given.

Examples:
  termutils init
  termutils init servers
  termutils init repos --force`,
		ValidArgs: templates.List(),
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := dir
			if target == "" {
				root, err := installRoot()
				if err != nil {
					return err
				}
				target = root
			}
			return runInit(cmd.OutOrStdout(), target, args, force)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory to write files into (default: install directory)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")

	return cmd
}

// runInit materializes the named templates (or all of them) into dir.
func runInit(out io.Writer, dir string, names []string, force bool) error {
	if len(names) == 0 {
		names = templates.List()
	}

	for _, name := range names {
		tmpl, err := templates.GetExpanded(name)
		if err != nil {
			return err
		}

		path := filepath.Join(dir, tmpl.FileName)
		if _, err := os.Stat(path); err == nil && !force {
			fmt.Fprintf(out, "Skipping %s: already exists (use --force to overwrite).\n", path)
			continue
		}

		if err := os.WriteFile(path, tmpl.Content, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(out, "Created %s (%s).\n", path, templates.GetDescription(name))
	}
	return nil
}

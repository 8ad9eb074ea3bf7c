package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// buildInfo is the version information stamped at build time.
type buildInfo struct {
	Version string `json:"version" yaml:"version" toml:"version"`
	Commit  string `json:"commit" yaml:"commit" toml:"commit"`
	Date    string `json:"date" yaml:"date" toml:"date"`
}

func (b buildInfo) String() string {
	return fmt.Sprintf("termutils version %s (commit %s, built %s)", b.Version, b.Commit, b.Date)
}

func newVersionCmd(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newOutputWriter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return w.Write(buildInfo{Version: version, Commit: commit, Date: date})
		},
	}
}

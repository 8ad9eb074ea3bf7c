package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xanderwp/termutils/internal/log"
)

var (
	// Global flags
	outputFormat string
	verbose      bool
)

func Execute(version, commit, date string) error {
	rootCmd := &cobra.Command{
		Use:   "termutils",
		Short: "Interactive terminal utilities for everyday dev workflows",
		Long: `termutils bundles small interactive helpers behind one binary:
SSH server shortcuts, pull request automation, version bumping, and
self-update from GitHub releases.

Run without arguments for the interactive menu.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Init(verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml, toml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newUpdateCmd())
	rootCmd.AddCommand(newSSHCmd())
	rootCmd.AddCommand(newPRCmd())
	rootCmd.AddCommand(newBumpCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))
	rootCmd.AddCommand(newCompletionCmd())

	// Register completion function for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json", "yaml", "toml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return rootCmd.Execute()
}

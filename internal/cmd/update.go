package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xanderwp/termutils/internal/interactive"
	"github.com/xanderwp/termutils/internal/manifest"
	"github.com/xanderwp/termutils/internal/output"
	"github.com/xanderwp/termutils/internal/update"
)

func newUpdateCmd() *cobra.Command {
	var checkOnly bool
	var apply bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Check for and install updates from GitHub releases",
		Long: `Check the GitHub releases of this tool for a newer version and
optionally install it over the current installation.

Examples:
  termutils update            # Check, then offer to install when newer
  termutils update --check    # Check only
  termutils update --apply    # Install the latest release`,
		RunE: func(cmd *cobra.Command, args []string) error {
			installDir, err := installRoot()
			if err != nil {
				return err
			}
			w, err := newOutputWriter(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			service := newUpdateService(installDir)
			applier := update.NewApplier(installDir, newChecker()).WithOutput(cmd.OutOrStdout())
			confirm := func() bool {
				if !interactive.IsTerminal() {
					return false
				}
				p := interactive.NewPrompterWithIO(cmd.InOrStdin(), cmd.OutOrStdout())
				return p.Confirm("Install now?", false)
			}
			return runUpdate(cmd.Context(), w, service, applier, confirm, checkOnly, apply)
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "Check for updates without installing")
	cmd.Flags().BoolVar(&apply, "apply", false, "Install the latest release")

	return cmd
}

// runUpdate drives the check/apply flow. With neither flag set it checks and
// offers to install when an update exists; --check stops after the check and
// --apply installs without asking.
func runUpdate(ctx context.Context, w *output.Writer, service *update.Service, applier *update.Applier, confirm func() bool, checkOnly, apply bool) error {
	if apply {
		return runUpdateApply(ctx, w, service, applier)
	}

	status, err := runUpdateCheck(ctx, w, service)
	if err != nil || status == nil {
		return err
	}

	if checkOnly || status.Outcome != update.OutcomeUpdateAvailable {
		return nil
	}
	if !confirm() {
		return nil
	}
	return runUpdateApply(ctx, w, service, applier)
}

// runUpdateCheck performs the check and renders the result. Failures that
// have a defined meaning are reported as messages, not errors; the returned
// status is nil in that case.
func runUpdateCheck(ctx context.Context, w *output.Writer, service *update.Service) (*update.Status, error) {
	status, err := service.Check(ctx)
	if err != nil {
		switch {
		case errors.Is(err, manifest.ErrNotFound), errors.Is(err, manifest.ErrNoVersion):
			w.Textf("Local version not found (pyproject.toml missing or invalid).\n")
			return nil, nil
		case errors.Is(err, update.ErrNoReleases):
			w.Textf("No releases found on GitHub.\n")
			return nil, nil
		case errors.Is(err, update.ErrCheckFailed):
			w.Textf("Could not reach GitHub to check for updates.\n")
			return nil, nil
		default:
			return nil, err
		}
	}

	if w.Format() != output.FormatText {
		return status, w.Write(status)
	}

	switch status.Outcome {
	case update.OutcomeUpdateAvailable:
		w.Textf("Update available: %s (local: %s). Run 'termutils update --apply' to install.\n", status.Latest, status.Local)
	case update.OutcomeUpToDate:
		w.Textf("You are up to date (version %s).\n", status.Local)
	case update.OutcomeLocalNewer:
		w.Textf("Local version (%s) is newer than latest release (%s).\n", status.Local, status.Latest)
	case update.OutcomeNoReleases:
		w.Textf("No releases found on GitHub.\n")
	}
	return status, nil
}

// runUpdateApply installs the latest release and resets the persisted check
// state so the next check sees the new installation.
func runUpdateApply(ctx context.Context, w *output.Writer, service *update.Service, applier *update.Applier) error {
	result, err := applier.Apply(ctx)
	if err != nil {
		switch {
		case errors.Is(err, update.ErrLockHeld):
			return fmt.Errorf("another update is already in progress")
		case errors.Is(err, update.ErrNoReleases):
			w.Textf("No releases found on GitHub.\n")
			return nil
		default:
			return err
		}
	}

	service.ClearState()

	for _, warning := range result.Warnings {
		w.Textf("warning: %s\n", warning)
	}
	if w.Format() != output.FormatText {
		return w.Write(result)
	}
	w.Textf("Updated to %s (%d files copied, %d skipped).\n", result.Tag, result.Copied, result.Skipped)
	return nil
}

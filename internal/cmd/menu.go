package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/xanderwp/termutils/internal/backup"
	"github.com/xanderwp/termutils/internal/git"
	"github.com/xanderwp/termutils/internal/interactive"
	"github.com/xanderwp/termutils/internal/output"
	"github.com/xanderwp/termutils/internal/repos"
	"github.com/xanderwp/termutils/internal/servers"
	"github.com/xanderwp/termutils/internal/update"
)

// menu entries, in display order.
var menuChoices = []string{
	"SSH servers",
	"Create pull request",
	"Bump project version",
	"Check for updates",
	"Exit",
}

// runMenu is the interactive dispatcher behind the bare 'termutils' command.
func runMenu(in io.Reader, out io.Writer) error {
	notifyUpdateAvailable(out)

	installDir, err := installRoot()
	if err != nil {
		return err
	}
	p := interactive.NewPrompterWithIO(in, out)

	for {
		idx, err := p.Select("What do you want to do?", menuChoices)
		if err != nil {
			if errors.Is(err, interactive.ErrCancelled) {
				return nil
			}
			return err
		}

		switch menuChoices[idx] {
		case "SSH servers":
			err = menuSSH(p, installDir, out)
		case "Create pull request":
			err = menuPR(p, installDir, out)
		case "Bump project version":
			err = menuBump(p, out)
		case "Check for updates":
			err = menuUpdate(in, out, installDir)
		default:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func menuSSH(p *interactive.Prompter, installDir string, out io.Writer) error {
	backups, err := backup.NewManager()
	if err != nil {
		return err
	}
	return runSSHMenu(p, servers.NewConnector(), &git.DefaultCommandRunner{}, backups, installDir, out)
}

func menuPR(p *interactive.Prompter, installDir string, out io.Writer) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	return runPR(p, repos.NewPRService(), git.NewClient(), installDir, cwd, out, "", "", "")
}

func menuBump(p *interactive.Prompter, out io.Writer) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	return runBump(p, &git.DefaultCommandRunner{}, git.NewClient(), cwd, "", false, out)
}

func menuUpdate(in io.Reader, out io.Writer, installDir string) error {
	w := output.NewWriter(out, output.FormatText)
	service := newUpdateService(installDir)
	applier := update.NewApplier(installDir, newChecker()).WithOutput(out)
	confirm := func() bool {
		p := interactive.NewPrompterWithIO(in, out)
		return p.Confirm("Install now?", false)
	}
	return runUpdate(context.Background(), w, service, applier, confirm, false, false)
}

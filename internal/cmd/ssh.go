package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xanderwp/termutils/internal/backup"
	"github.com/xanderwp/termutils/internal/git"
	"github.com/xanderwp/termutils/internal/interactive"
	"github.com/xanderwp/termutils/internal/output"
	"github.com/xanderwp/termutils/internal/servers"
	"github.com/xanderwp/termutils/internal/templates"
)

func newSSHCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ssh",
		Short: "Connect to a saved SSH server",
		Long: `Pick a server from the saved list and open an SSH session to it.

The list lives in servers.txt next to the installed binary. The menu can
also add servers and clear the SSH known_hosts file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			notifyUpdateAvailable(cmd.OutOrStdout())

			installDir, err := installRoot()
			if err != nil {
				return err
			}
			backups, err := backup.NewManager()
			if err != nil {
				return err
			}
			p := interactive.NewPrompterWithIO(cmd.InOrStdin(), cmd.OutOrStdout())
			return runSSHMenu(p, servers.NewConnector(), &git.DefaultCommandRunner{}, backups, installDir, cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(newSSHListCmd())
	return cmd
}

func newSSHListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the saved servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			installDir, err := installRoot()
			if err != nil {
				return err
			}
			w, err := newOutputWriter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return runSSHList(w, installDir)
		},
	}
}

// serverEntry is the listing view of a server; the stored password is never
// echoed, only its presence.
type serverEntry struct {
	Name        string `json:"name" yaml:"name" toml:"name"`
	Addr        string `json:"addr" yaml:"addr" toml:"addr"`
	HasPassword bool   `json:"has_password" yaml:"has_password" toml:"has_password"`
}

type serverList struct {
	Servers []serverEntry `json:"servers" yaml:"servers" toml:"servers"`
}

func (l serverList) String() string {
	if len(l.Servers) == 0 {
		return "No servers saved."
	}
	lines := make([]string, len(l.Servers))
	for i, s := range l.Servers {
		lines[i] = fmt.Sprintf("%s (%s)", s.Name, s.Addr)
	}
	return strings.Join(lines, "\n")
}

// runSSHList renders the saved server list in the selected format.
func runSSHList(w *output.Writer, installDir string) error {
	list, err := servers.Load(filepath.Join(installDir, servers.FileName))
	if err != nil {
		return err
	}

	view := serverList{Servers: make([]serverEntry, 0, len(list))}
	for _, s := range list {
		view.Servers = append(view.Servers, serverEntry{
			Name:        s.Name,
			Addr:        s.Addr,
			HasPassword: s.Password != "",
		})
	}
	return w.Write(view)
}

// runSSHMenu shows the server list and drives the selected action. It
// returns after launching a connection, and loops back to the menu after
// management actions.
func runSSHMenu(p *interactive.Prompter, connector *servers.Connector, runner git.CommandRunner, backups *backup.Manager, installDir string, out io.Writer) error {
	listPath := filepath.Join(installDir, servers.FileName)

	tmpl, err := templates.Get("servers")
	if err != nil {
		return err
	}
	created, err := servers.EnsureFile(listPath, tmpl.Content)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(out, "Created template server list at %s.\n", listPath)
	}

	for {
		list, err := servers.Load(listPath)
		if err != nil {
			return err
		}

		choices := make([]string, 0, len(list)+3)
		for _, s := range list {
			choices = append(choices, s.Label())
		}
		choices = append(choices, "Add server", "Clear SSH known_hosts", "Back")

		idx, err := p.Select("Select a server to connect:", choices)
		if err != nil {
			if errors.Is(err, interactive.ErrCancelled) {
				return nil
			}
			return err
		}

		switch {
		case idx < len(list):
			return connectServer(p, connector, runner, backups, list[idx], out)
		case choices[idx] == "Add server":
			if err := addServer(p, listPath, out); err != nil {
				return err
			}
		case choices[idx] == "Clear SSH known_hosts":
			if err := clearKnownHosts(p, backups, out); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// addServer collects a new entry and appends it to the list file.
func addServer(p *interactive.Prompter, listPath string, out io.Writer) error {
	name, err := p.Text("Display name")
	if err != nil {
		return nil
	}
	host, err := p.Text("Host or IP")
	if err != nil {
		return nil
	}
	user, err := p.TextRequired("User (required)")
	if err != nil {
		return nil
	}
	password, err := p.Password("Password (leave empty for key auth)")
	if err != nil {
		return nil
	}

	entry := servers.Server{Name: name, Addr: user + "@" + host, Password: password}
	if err := servers.Append(listPath, entry); err != nil {
		return err
	}
	fmt.Fprintln(out, "Server added to servers.txt. Note: passwords are stored in plain text.")
	return nil
}

// clearKnownHosts truncates ~/.ssh/known_hosts after confirmation, saving a
// snapshot first.
func clearKnownHosts(p *interactive.Prompter, backups *backup.Manager, out io.Writer) error {
	path, err := servers.KnownHostsPath()
	if err != nil {
		return err
	}
	if !p.Confirm(fmt.Sprintf("This will clear %s (a backup is saved first). Proceed?", path), false) {
		return nil
	}

	cleared, err := servers.ClearKnownHosts(path, backups)
	if err != nil {
		return err
	}
	if cleared {
		fmt.Fprintf(out, "Cleared known_hosts at %s.\n", path)
	} else {
		fmt.Fprintf(out, "No known_hosts file found at %s.\n", path)
	}
	return nil
}

// connectServer probes the destination first so a changed host key is
// caught before the interactive session, then launches ssh.
func connectServer(p *interactive.Prompter, connector *servers.Connector, runner git.CommandRunner, backups *backup.Manager, server servers.Server, out io.Writer) error {
	fmt.Fprintf(out, "Connecting to %s...\n", server.Addr)

	ok, probeOut := connector.Probe(server.Addr)
	if ok {
		return connector.Connect(server)
	}

	if servers.IsHostKeyMismatch(probeOut) {
		host := servers.Host(server.Addr)
		fmt.Fprintf(out, "Detected host key mismatch for %s.\n", host)
		if !p.Confirm(fmt.Sprintf("Host key for %s appears changed. Remove the known_hosts entry and retry?", host), false) {
			return nil
		}

		knownHosts, err := servers.KnownHostsPath()
		if err != nil {
			return err
		}
		if err := servers.RemoveKnownHost(knownHosts, host, runner, backups); err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed known_hosts entry for %s.\n", host)
		return connector.Connect(server)
	}

	if probeOut == "" {
		probeOut = "Failed to connect via ssh. Check that ssh is installed and the address is correct."
	}
	fmt.Fprintln(out, probeOut)
	return nil
}

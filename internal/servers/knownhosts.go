package servers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xanderwp/termutils/internal/backup"
	"github.com/xanderwp/termutils/internal/git"
	"github.com/xanderwp/termutils/internal/log"
)

// KnownHostsPath returns the default known_hosts location (~/.ssh/known_hosts).
func KnownHostsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".ssh", "known_hosts"), nil
}

// ClearKnownHosts truncates the known_hosts file at path, saving a snapshot
// first when a backup manager is provided. Reports whether a file existed to
// be cleared.
func ClearKnownHosts(path string, backups *backup.Manager) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	if backups != nil {
		if _, err := backups.Save(path, "known_hosts"); err != nil {
			return false, fmt.Errorf("failed to back up known_hosts: %w", err)
		}
	}

	if err := os.Truncate(path, 0); err != nil {
		return false, fmt.Errorf("failed to clear known_hosts: %w", err)
	}
	return true, nil
}

// RemoveKnownHost deletes the entries for host from the known_hosts file at
// path. It tries ssh-keygen first and falls back to filtering the file by
// hand when ssh-keygen is unavailable or fails. A snapshot is saved before
// either edit when a backup manager is provided.
func RemoveKnownHost(path, host string, runner git.CommandRunner, backups *backup.Manager) error {
	if backups != nil {
		if _, err := backups.Save(path, "known_hosts"); err != nil {
			return fmt.Errorf("failed to back up known_hosts: %w", err)
		}
	}

	if _, err := runner.Run("ssh-keygen", "-R", host, "-f", path); err == nil {
		return nil
	} else {
		log.Debug().Str("host", host).Err(err).Msg("ssh-keygen -R failed, editing known_hosts directly")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read known_hosts: %w", err)
	}

	var kept []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.Contains(line, host) {
			continue
		}
		kept = append(kept, line)
	}
	if err := os.WriteFile(path, []byte(strings.Join(kept, "\n")), 0600); err != nil {
		return fmt.Errorf("failed to rewrite known_hosts: %w", err)
	}
	return nil
}

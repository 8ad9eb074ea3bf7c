// Package backup keeps timestamped copies of files before destructive edits.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Snapshot represents a single saved copy of a file.
type Snapshot struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
}

// Manager handles snapshot operations.
type Manager struct {
	backupDir string
	now       func() time.Time
}

// NewManager creates a snapshot manager rooted at the default backup directory.
func NewManager() (*Manager, error) {
	backupDir, err := getBackupDir()
	if err != nil {
		return nil, err
	}
	return &Manager{backupDir: backupDir, now: time.Now}, nil
}

// NewManagerWithDir creates a snapshot manager with a custom directory (for testing).
func NewManagerWithDir(backupDir string) *Manager {
	return &Manager{backupDir: backupDir, now: time.Now}
}

// getBackupDir returns the default backup directory path.
func getBackupDir() (string, error) {
	// Use XDG_CACHE_HOME or default to ~/.cache
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine home directory: %w", err)
		}
		cacheDir = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheDir, "termutils", "backups"), nil
}

// Save copies the file at path into the backup directory under a timestamped
// name and returns the snapshot. A missing source file is not an error and
// returns a nil snapshot.
func (m *Manager) Save(path, label string) (*Snapshot, error) {
	src, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(m.backupDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := m.now()
	id := now.Format("2006-01-02-150405")
	if label == "" {
		label = filepath.Base(path)
	}
	name := id + "-" + sanitizeLabel(label)

	dst, err := os.OpenFile(filepath.Join(m.backupDir, name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create backup file: %w", err)
	}
	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write backup file: %w", err)
	}

	return &Snapshot{ID: name, Label: label, CreatedAt: now, Size: size}, nil
}

// List returns all snapshots sorted by creation time (newest first).
func (m *Manager) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Snapshot{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var snapshots []Snapshot
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		createdAt, label, ok := parseSnapshotName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		snapshots = append(snapshots, Snapshot{
			ID:        entry.Name(),
			Label:     label,
			CreatedAt: createdAt,
			Size:      info.Size(),
		})
	}

	// Sort by creation time, newest first
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
	})

	return snapshots, nil
}

// Restore copies the snapshot with the given ID back to destPath. Use
// "latest" to restore the most recent snapshot.
func (m *Manager) Restore(id, destPath string) error {
	if id == "latest" {
		snapshots, err := m.List()
		if err != nil {
			return err
		}
		if len(snapshots) == 0 {
			return fmt.Errorf("no backups found")
		}
		id = snapshots[0].ID
	}

	data, err := os.ReadFile(filepath.Join(m.backupDir, id))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("backup not found: %s", id)
		}
		return fmt.Errorf("failed to read backup file: %w", err)
	}
	if err := os.WriteFile(destPath, data, 0600); err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}
	return nil
}

// Delete removes a snapshot by ID.
func (m *Manager) Delete(id string) error {
	path := filepath.Join(m.backupDir, id)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", id)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete backup: %w", err)
	}
	return nil
}

// BackupDir returns the backup directory path.
func (m *Manager) BackupDir() string {
	return m.backupDir
}

// snapshotTimestampLen is the length of the "2006-01-02-150405" prefix.
const snapshotTimestampLen = 17

// parseSnapshotName splits "<timestamp>-<label>" into its parts.
func parseSnapshotName(name string) (time.Time, string, bool) {
	if len(name) < snapshotTimestampLen+2 || name[snapshotTimestampLen] != '-' {
		return time.Time{}, "", false
	}
	createdAt, err := time.ParseInLocation("2006-01-02-150405", name[:snapshotTimestampLen], time.Local)
	if err != nil {
		return time.Time{}, "", false
	}
	return createdAt, name[snapshotTimestampLen+1:], true
}

// sanitizeLabel keeps labels safe to use as file name suffixes.
func sanitizeLabel(label string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, label)
}

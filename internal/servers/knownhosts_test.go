package servers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xanderwp/termutils/internal/backup"
)

func writeKnownHosts(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "known_hosts")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestClearKnownHosts(t *testing.T) {
	path := writeKnownHosts(t, "db.example.com ssh-ed25519 AAAA\n")
	backups := backup.NewManagerWithDir(t.TempDir())

	cleared, err := ClearKnownHosts(path, backups)
	if err != nil {
		t.Fatalf("ClearKnownHosts() error = %v", err)
	}
	if !cleared {
		t.Error("cleared = false, want true")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Errorf("known_hosts size = %d, want 0", info.Size())
	}

	snapshots, err := backups.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("snapshots = %+v, want one pre-clear snapshot", snapshots)
	}
}

func TestClearKnownHostsMissingFile(t *testing.T) {
	cleared, err := ClearKnownHosts(filepath.Join(t.TempDir(), "known_hosts"), nil)
	if err != nil {
		t.Fatalf("ClearKnownHosts() error = %v", err)
	}
	if cleared {
		t.Error("cleared = true, want false for a missing file")
	}
}

func TestRemoveKnownHostViaKeygen(t *testing.T) {
	path := writeKnownHosts(t, "db.example.com ssh-ed25519 AAAA\n")
	runner := newFakeRunner()

	if err := RemoveKnownHost(path, "db.example.com", runner, nil); err != nil {
		t.Fatalf("RemoveKnownHost() error = %v", err)
	}
	wantCall := "ssh-keygen -R db.example.com -f " + path
	if len(runner.calls) != 1 || runner.calls[0] != wantCall {
		t.Errorf("calls = %v, want %q", runner.calls, wantCall)
	}

	// ssh-keygen succeeded, so the file is left to it.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "db.example.com") {
		t.Error("manual filter should not run when ssh-keygen succeeds")
	}
}

func TestRemoveKnownHostManualFallback(t *testing.T) {
	path := writeKnownHosts(t, "db.example.com ssh-ed25519 AAAA\nother.example.com ssh-rsa BBBB\n")
	runner := newFakeRunner()
	runner.errs["ssh-keygen -R db.example.com -f "+path] = errors.New("not installed")

	if err := RemoveKnownHost(path, "db.example.com", runner, nil); err != nil {
		t.Fatalf("RemoveKnownHost() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "db.example.com") {
		t.Error("entry for db.example.com should be removed")
	}
	if !strings.Contains(string(data), "other.example.com") {
		t.Error("unrelated entries must survive")
	}
}

func TestRemoveKnownHostSavesBackup(t *testing.T) {
	path := writeKnownHosts(t, "db.example.com ssh-ed25519 AAAA\n")
	backups := backup.NewManagerWithDir(t.TempDir())
	runner := newFakeRunner()

	if err := RemoveKnownHost(path, "db.example.com", runner, backups); err != nil {
		t.Fatalf("RemoveKnownHost() error = %v", err)
	}
	snapshots, err := backups.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshots) != 1 {
		t.Errorf("snapshots = %+v, want one", snapshots)
	}
}

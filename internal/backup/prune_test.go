package backup

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPrune(t *testing.T) {
	m := newTestManager(t)
	src := filepath.Join(t.TempDir(), "known_hosts")
	if err := os.WriteFile(src, []byte("x\n"), 0600); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		if _, err := m.Save(src, "known_hosts"); err != nil {
			t.Fatal(err)
		}
	}

	result, err := m.Prune(2)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if result.Kept != 2 || len(result.Deleted) != 3 {
		t.Errorf("Prune() kept %d deleted %d, want 2 and 3", result.Kept, len(result.Deleted))
	}

	snapshots, err := m.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshots) != 2 {
		t.Errorf("len(snapshots) after prune = %d, want 2", len(snapshots))
	}
}

func TestPruneFewerThanKeep(t *testing.T) {
	m := newTestManager(t)
	src := filepath.Join(t.TempDir(), "known_hosts")
	if err := os.WriteFile(src, []byte("x\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Save(src, "known_hosts"); err != nil {
		t.Fatal(err)
	}

	result, err := m.Prune(DefaultKeepCount)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if result.Kept != 1 || len(result.Deleted) != 0 {
		t.Errorf("Prune() = %+v, want nothing deleted", result)
	}
}

func TestPruneNegativeKeep(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.Prune(-1); err == nil {
		t.Error("Prune(-1) should fail")
	}
}

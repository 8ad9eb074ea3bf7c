package servers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	content := `# comment line
Prod DB | deploy@db.example.com

Staging|admin@staging.example.com:2222|hunter2
not a server entry
Bare host|192.168.1.10
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	servers, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []Server{
		{Name: "Prod DB", Addr: "deploy@db.example.com"},
		{Name: "Staging", Addr: "admin@staging.example.com:2222", Password: "hunter2"},
		{Name: "Bare host", Addr: "192.168.1.10"},
	}
	if len(servers) != len(want) {
		t.Fatalf("len(servers) = %d, want %d: %+v", len(servers), len(want), servers)
	}
	for i := range want {
		if servers[i] != want[i] {
			t.Errorf("servers[%d] = %+v, want %+v", i, servers[i], want[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	servers, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for missing file", err)
	}
	if servers != nil {
		t.Errorf("servers = %+v, want nil", servers)
	}
}

func TestAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	if err := Append(path, Server{Name: "One", Addr: "a@one"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := Append(path, Server{Name: "Two", Addr: "b@two", Password: "pw"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	servers, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(servers) != 2 {
		t.Fatalf("len(servers) = %d, want 2", len(servers))
	}
	if servers[1].Password != "pw" {
		t.Errorf("Password = %q, want pw", servers[1].Password)
	}
}

func TestEnsureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	template := []byte("# Format: Display Name|user@host\n")

	created, err := EnsureFile(path, template)
	if err != nil {
		t.Fatalf("EnsureFile() error = %v", err)
	}
	if !created {
		t.Error("EnsureFile() should create a missing file")
	}

	// A second call must not clobber the existing file.
	if err := Append(path, Server{Name: "X", Addr: "y@z"}); err != nil {
		t.Fatal(err)
	}
	created, err = EnsureFile(path, template)
	if err != nil {
		t.Fatalf("EnsureFile() error = %v", err)
	}
	if created {
		t.Error("EnsureFile() should not recreate an existing file")
	}
	servers, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(servers) != 1 {
		t.Errorf("servers = %+v, want the appended entry to survive", servers)
	}
}

func TestHost(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{addr: "deploy@db.example.com", want: "db.example.com"},
		{addr: "admin@staging.example.com:2222", want: "staging.example.com"},
		{addr: "192.168.1.10", want: "192.168.1.10"},
		{addr: "host:22", want: "host"},
	}
	for _, tt := range tests {
		if got := Host(tt.addr); got != tt.want {
			t.Errorf("Host(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestLabel(t *testing.T) {
	s := Server{Name: "Prod", Addr: "deploy@db"}
	if got := s.Label(); got != "Prod (deploy@db)" {
		t.Errorf("Label() = %q", got)
	}
}

package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xanderwp/termutils/internal/backup"
	"github.com/xanderwp/termutils/internal/interactive"
	"github.com/xanderwp/termutils/internal/output"
	"github.com/xanderwp/termutils/internal/servers"
)

func noTools(string) (string, error) {
	return "", errors.New("not found")
}

func writeServerList(t *testing.T, dir string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, servers.FileName)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func sshFixture(t *testing.T, input string) (*interactive.Prompter, *fakeRunner, *servers.Connector, *backup.Manager, *bytes.Buffer) {
	t.Helper()
	runner := newFakeRunner()
	connector := servers.NewConnectorWithRunner(runner, noTools)
	backups := backup.NewManagerWithDir(t.TempDir())
	var out bytes.Buffer
	p := interactive.NewPrompterWithIO(strings.NewReader(input), &out)
	return p, runner, connector, backups, &out
}

const webProbeKey = "ssh -o BatchMode=yes -o ConnectTimeout=5 -o StrictHostKeyChecking=yes root@web true"

func TestSSHMenuCreatesTemplateList(t *testing.T) {
	installDir := t.TempDir()
	p, runner, connector, backups, out := sshFixture(t, "")

	if err := runSSHMenu(p, connector, runner, backups, installDir, out); err != nil {
		t.Fatalf("runSSHMenu() error = %v", err)
	}
	if !strings.Contains(out.String(), "Created template server list") {
		t.Errorf("output = %q", out.String())
	}

	data, err := os.ReadFile(filepath.Join(installDir, servers.FileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "#") {
		t.Errorf("template content = %q", data)
	}
}

func TestSSHMenuAddServer(t *testing.T) {
	installDir := t.TempDir()
	// Empty list: 1=Add server. Then re-shown with one entry: 4=Back.
	p, runner, connector, backups, out := sshFixture(t, "1\nWeb\nweb.example.com\nroot\nsecret\n4\n")

	if err := runSSHMenu(p, connector, runner, backups, installDir, out); err != nil {
		t.Fatalf("runSSHMenu() error = %v", err)
	}

	list, err := servers.Load(filepath.Join(installDir, servers.FileName))
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("list = %+v, want one entry", list)
	}
	want := servers.Server{Name: "Web", Addr: "root@web.example.com", Password: "secret"}
	if list[0] != want {
		t.Errorf("entry = %+v, want %+v", list[0], want)
	}
	if !strings.Contains(out.String(), "passwords are stored in plain text") {
		t.Errorf("output = %q", out.String())
	}
}

func TestSSHMenuConnect(t *testing.T) {
	installDir := t.TempDir()
	writeServerList(t, installDir, "Web|root@web")
	p, runner, connector, backups, out := sshFixture(t, "1\n")

	if err := runSSHMenu(p, connector, runner, backups, installDir, out); err != nil {
		t.Fatalf("runSSHMenu() error = %v", err)
	}

	want := []string{webProbeKey, "ssh root@web"}
	if len(runner.calls) != 2 || runner.calls[0] != want[0] || runner.calls[1] != want[1] {
		t.Errorf("calls = %v, want %v", runner.calls, want)
	}
	if !strings.Contains(out.String(), "Connecting to root@web...") {
		t.Errorf("output = %q", out.String())
	}
}

func TestSSHMenuHostKeyMismatchRetry(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	installDir := t.TempDir()
	writeServerList(t, installDir, "Web|root@web")
	// Select the server, then confirm the known_hosts removal.
	p, runner, connector, backups, out := sshFixture(t, "1\ny\n")
	runner.errs[webProbeKey] = errors.New("exit status 255")
	runner.outputs[webProbeKey] = []byte("WARNING: REMOTE HOST IDENTIFICATION HAS CHANGED!\n")

	if err := runSSHMenu(p, connector, runner, backups, installDir, out); err != nil {
		t.Fatalf("runSSHMenu() error = %v", err)
	}

	if !strings.Contains(out.String(), "Detected host key mismatch for web.") {
		t.Errorf("output = %q", out.String())
	}
	if !runner.called("ssh-keygen -R web") {
		t.Errorf("calls = %v, want ssh-keygen removal", runner.calls)
	}
	if runner.calls[len(runner.calls)-1] != "ssh root@web" {
		t.Errorf("calls = %v, want a retry as the last call", runner.calls)
	}
}

func TestSSHMenuHostKeyMismatchDeclined(t *testing.T) {
	installDir := t.TempDir()
	writeServerList(t, installDir, "Web|root@web")
	p, runner, connector, backups, out := sshFixture(t, "1\nn\n")
	runner.errs[webProbeKey] = errors.New("exit status 255")
	runner.outputs[webProbeKey] = []byte("Host key verification failed.\n")

	if err := runSSHMenu(p, connector, runner, backups, installDir, out); err != nil {
		t.Fatalf("runSSHMenu() error = %v", err)
	}
	if runner.called("ssh-keygen") {
		t.Errorf("calls = %v, removal must not run when declined", runner.calls)
	}
	if runner.called("ssh root@web") {
		t.Errorf("calls = %v, no retry when declined", runner.calls)
	}
}

func TestSSHMenuProbeFailureShowsOutput(t *testing.T) {
	installDir := t.TempDir()
	writeServerList(t, installDir, "Web|root@web")
	p, runner, connector, backups, out := sshFixture(t, "1\n")
	runner.errs[webProbeKey] = errors.New("exit status 255")
	runner.outputs[webProbeKey] = []byte("Connection refused\n")

	if err := runSSHMenu(p, connector, runner, backups, installDir, out); err != nil {
		t.Fatalf("runSSHMenu() error = %v", err)
	}
	if !strings.Contains(out.String(), "Connection refused") {
		t.Errorf("output = %q", out.String())
	}
	if runner.called("ssh root@web") {
		t.Errorf("calls = %v, no session for a refused probe", runner.calls)
	}
}

func TestSSHListText(t *testing.T) {
	installDir := t.TempDir()
	writeServerList(t, installDir, "Web|root@web", "DB|admin@db|hunter2")

	var buf bytes.Buffer
	if err := runSSHList(output.NewWriter(&buf, output.FormatText), installDir); err != nil {
		t.Fatalf("runSSHList() error = %v", err)
	}
	if buf.String() != "Web (root@web)\nDB (admin@db)\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSSHListJSONHidesPasswords(t *testing.T) {
	installDir := t.TempDir()
	writeServerList(t, installDir, "DB|admin@db|hunter2")

	var buf bytes.Buffer
	if err := runSSHList(output.NewWriter(&buf, output.FormatJSON), installDir); err != nil {
		t.Fatalf("runSSHList() error = %v", err)
	}
	if strings.Contains(buf.String(), "hunter2") {
		t.Errorf("password leaked: %q", buf.String())
	}
	if !strings.Contains(buf.String(), `"has_password": true`) {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSSHListEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := runSSHList(output.NewWriter(&buf, output.FormatText), t.TempDir()); err != nil {
		t.Fatalf("runSSHList() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No servers saved.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSSHMenuBack(t *testing.T) {
	installDir := t.TempDir()
	writeServerList(t, installDir, "Web|root@web")
	p, runner, connector, backups, out := sshFixture(t, "4\n")

	if err := runSSHMenu(p, connector, runner, backups, installDir, out); err != nil {
		t.Fatalf("runSSHMenu() error = %v", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("calls = %v, want none", runner.calls)
	}
}

package templates

import (
	"strings"
	"testing"
)

func TestList(t *testing.T) {
	names := List()
	if len(names) != 2 || names[0] != "repos" || names[1] != "servers" {
		t.Errorf("List() = %v, want [repos servers]", names)
	}
}

func TestGet(t *testing.T) {
	tmpl, err := Get("servers")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if tmpl.FileName != "servers.txt" {
		t.Errorf("FileName = %q", tmpl.FileName)
	}
	if !strings.Contains(string(tmpl.Content), "Display Name|user@host") {
		t.Errorf("servers template missing format line: %q", tmpl.Content)
	}
}

func TestGetUnknown(t *testing.T) {
	if _, err := Get("nope"); err == nil {
		t.Error("Get() should fail for unknown template")
	}
}

func TestGetDescription(t *testing.T) {
	if got := GetDescription("repos"); !strings.Contains(got, "repository") {
		t.Errorf("GetDescription(repos) = %q", got)
	}
	if got := GetDescription("nope"); got != "Custom template" {
		t.Errorf("GetDescription(nope) = %q", got)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TU_TEST_OWNER", "someone")

	got := ExpandEnvVars([]byte(`"${TU_TEST_OWNER}/x" "${TU_UNSET_VAR:-fallback}"`))
	if string(got) != `"someone/x" "fallback"` {
		t.Errorf("ExpandEnvVars() = %q", got)
	}
}

func TestGetExpanded(t *testing.T) {
	t.Setenv("GITHUB_OWNER", "")

	tmpl, err := GetExpanded("repos")
	if err != nil {
		t.Fatalf("GetExpanded() error = %v", err)
	}
	if !strings.Contains(string(tmpl.Content), "xanderwp/example") {
		t.Errorf("repos template should default the owner: %q", tmpl.Content)
	}
	if strings.Contains(string(tmpl.Content), "${") {
		t.Errorf("unexpanded variables remain: %q", tmpl.Content)
	}
}

package servers

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/xanderwp/termutils/internal/git"
)

// probeTimeoutSeconds bounds the non-interactive connectivity probe.
const probeTimeoutSeconds = 5

// Connector launches SSH sessions through the system ssh client.
type Connector struct {
	runner   git.CommandRunner
	lookPath func(string) (string, error)
}

// NewConnector creates a connector using the real ssh binary.
func NewConnector() *Connector {
	return &Connector{runner: &git.DefaultCommandRunner{}, lookPath: exec.LookPath}
}

// NewConnectorWithRunner creates a connector with custom process hooks (for testing).
func NewConnectorWithRunner(runner git.CommandRunner, lookPath func(string) (string, error)) *Connector {
	return &Connector{runner: runner, lookPath: lookPath}
}

// Probe runs a quick non-interactive connection attempt. BatchMode prevents
// password prompts so a host key problem surfaces as an error instead of a
// hang. Returns whether the probe succeeded and the client's output.
func (c *Connector) Probe(addr string) (bool, string) {
	out, err := c.runner.Run("ssh",
		"-o", "BatchMode=yes",
		"-o", fmt.Sprintf("ConnectTimeout=%d", probeTimeoutSeconds),
		"-o", "StrictHostKeyChecking=yes",
		addr, "true",
	)
	return err == nil, string(out)
}

// IsHostKeyMismatch reports whether ssh output indicates a changed or
// unverifiable host key.
func IsHostKeyMismatch(output string) bool {
	up := strings.ToUpper(output)
	return strings.Contains(up, "REMOTE HOST IDENTIFICATION HAS CHANGED") ||
		strings.Contains(up, "HOST KEY VERIFICATION FAILED")
}

// Connect opens an interactive session to the server. When the server has a
// stored password it is passed through sshpass or plink if either is
// installed; otherwise the session falls back to plain ssh and the user is
// prompted as usual.
func (c *Connector) Connect(server Server) error {
	if server.Password != "" {
		if _, err := c.lookPath("sshpass"); err == nil {
			return c.runner.RunInteractive("sshpass", "-p", server.Password, "ssh", server.Addr)
		}
		if _, err := c.lookPath("plink"); err == nil {
			return c.runner.RunInteractive("plink", server.Addr, "-pw", server.Password)
		}
	}
	return c.runner.RunInteractive("ssh", server.Addr)
}

// Package servers manages the saved SSH server list and connections.
//
// The list lives in a plain text file, one server per line:
//
//	Display Name|user@host[:port][|password]
//
// Lines starting with '#' and empty lines are ignored.
package servers

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// FileName is the server list file name inside the install directory.
const FileName = "servers.txt"

// Server is a single saved SSH destination.
type Server struct {
	Name     string
	Addr     string // user@host or user@host:port
	Password string // optional, stored in plain text
}

// Label formats the server for menu display.
func (s Server) Label() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.Addr)
}

// Load reads the server list from path. A missing file yields an empty
// list; invalid lines are skipped.
func Load(path string) ([]Server, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read server list: %w", err)
	}
	defer f.Close()

	var servers []Server
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.Contains(line, "|") {
			continue
		}
		parts := strings.Split(line, "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		server := Server{Name: parts[0]}
		if len(parts) > 1 {
			server.Addr = parts[1]
		}
		if len(parts) > 2 {
			server.Password = parts[2]
		}
		servers = append(servers, server)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read server list: %w", err)
	}
	return servers, nil
}

// Append adds a server to the list file, creating it when missing.
func Append(path string, server Server) error {
	entry := server.Name + "|" + server.Addr
	if server.Password != "" {
		entry += "|" + server.Password
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open server list: %w", err)
	}
	_, err = f.WriteString(entry + "\n")
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write server list: %w", err)
	}
	return nil
}

// EnsureFile writes the template to path when no server list exists yet.
// Reports whether a new file was created.
func EnsureFile(path string, template []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}
	if err := os.WriteFile(path, template, 0600); err != nil {
		return false, fmt.Errorf("failed to create server list: %w", err)
	}
	return true, nil
}

// Host extracts the bare host name from an address of the form
// user@host[:port].
func Host(addr string) string {
	if _, after, ok := strings.Cut(addr, "@"); ok {
		addr = after
	}
	if before, _, ok := strings.Cut(addr, ":"); ok {
		addr = before
	}
	return addr
}

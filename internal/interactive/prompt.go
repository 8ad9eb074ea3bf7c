// Package interactive provides terminal prompts for menus and confirmation.
package interactive

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ErrCancelled is returned when the user abandons a prompt (EOF or an
// explicit quit choice).
var ErrCancelled = fmt.Errorf("cancelled")

// Prompter reads answers from a terminal.
type Prompter struct {
	in      io.Reader
	out     io.Writer
	scanner *bufio.Scanner
}

// NewPrompter creates a prompter with stdin/stdout.
func NewPrompter() *Prompter {
	return NewPrompterWithIO(os.Stdin, os.Stdout)
}

// NewPrompterWithIO creates a prompter with custom input/output (for testing).
func NewPrompterWithIO(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:      in,
		out:     out,
		scanner: bufio.NewScanner(in),
	}
}

// IsTerminal checks if stdin is a terminal (TTY).
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Select shows a numbered menu and returns the index of the chosen entry.
// An empty answer, EOF, or an out-of-range number returns ErrCancelled.
func (p *Prompter) Select(title string, choices []string) (int, error) {
	_, _ = fmt.Fprintf(p.out, "\n%s\n", title)
	for i, choice := range choices {
		_, _ = fmt.Fprintf(p.out, "  %d) %s\n", i+1, choice)
	}
	_, _ = fmt.Fprintf(p.out, "Choice [1-%d]: ", len(choices))

	if !p.scanner.Scan() {
		return 0, ErrCancelled
	}
	answer := strings.TrimSpace(p.scanner.Text())
	if answer == "" {
		return 0, ErrCancelled
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(choices) {
		return 0, ErrCancelled
	}
	return n - 1, nil
}

// Confirm asks a yes/no question. EOF and unrecognized answers yield the
// default.
func (p *Prompter) Confirm(question string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	_, _ = fmt.Fprintf(p.out, "%s %s ", question, hint)

	if !p.scanner.Scan() {
		return defaultYes
	}
	switch strings.ToLower(strings.TrimSpace(p.scanner.Text())) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return defaultYes
	}
}

// Text asks for a free-form answer.
func (p *Prompter) Text(label string) (string, error) {
	_, _ = fmt.Fprintf(p.out, "%s: ", label)
	if !p.scanner.Scan() {
		return "", ErrCancelled
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// TextRequired asks for a free-form answer and re-prompts until it gets a
// non-empty one.
func (p *Prompter) TextRequired(label string) (string, error) {
	for {
		answer, err := p.Text(label)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		_, _ = fmt.Fprintln(p.out, "A value is required.")
	}
}

// Password asks for a secret. When input is a real terminal the echo is
// suppressed; otherwise it falls back to a plain line read so tests and
// pipes keep working.
func (p *Prompter) Password(label string) (string, error) {
	_, _ = fmt.Fprintf(p.out, "%s: ", label)

	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}

	if !p.scanner.Scan() {
		return "", ErrCancelled
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// Package credential makes sure a provider API key is available before any
// model call is made.
package credential

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/gorewood/docflow/internal/envfile"
	"github.com/gorewood/docflow/internal/output"
)

// SecretReader reads one line of secret input.
type SecretReader interface {
	ReadSecret() (string, error)
}

// Gate checks an API key variable for a required prefix and prompts once
// when it is missing or malformed.
type Gate struct {
	EnvVar string
	Prefix string
	Prompt string
	Reader SecretReader
	Out    io.Writer
}

// Ensure leaves a valid key untouched. Otherwise it prompts, validates the
// entered value once, and records it in env. An invalid entry is a fatal
// user error; there is no retry.
func (g *Gate) Ensure(env *envfile.Env) error {
	if g.EnvVar == "" {
		return nil
	}
	if v := env.Get(g.EnvVar); v != "" && strings.HasPrefix(v, g.Prefix) {
		return nil
	}

	prompt := g.Prompt
	if prompt == "" {
		prompt = fmt.Sprintf("Enter your %s: ", g.EnvVar)
	}
	if g.Out != nil {
		_, _ = fmt.Fprint(g.Out, prompt)
	}

	value, err := g.Reader.ReadSecret()
	if g.Out != nil {
		_, _ = fmt.Fprintln(g.Out)
	}
	if err != nil {
		return output.NewUserErrorWithCause("reading "+g.EnvVar, err)
	}

	value = strings.TrimSpace(value)
	if value == "" || !strings.HasPrefix(value, g.Prefix) {
		return output.NewUserError(fmt.Sprintf("%s... is not a valid key", head(value, 5)))
	}

	env.Set(g.EnvVar, value)
	return nil
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// TerminalReader reads from f with echo disabled when f is a terminal, and
// falls back to a plain line read otherwise.
type TerminalReader struct {
	File *os.File
	// Lines, when set, buffers File for the plain read so later prompts
	// on the same input see the remaining lines.
	Lines *bufio.Reader
}

// ReadSecret implements SecretReader.
func (r TerminalReader) ReadSecret() (string, error) {
	fd := int(r.File.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}
	if r.Lines != nil {
		return ReadLine(r.Lines)
	}
	return ReadLine(r.File)
}

// ReadLine reads a single line from r without the trailing newline. A
// *bufio.Reader is read directly so nothing past the line is consumed.
func ReadLine(r io.Reader) (string, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	line, err := br.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

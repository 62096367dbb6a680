// Package git shells out to the git executable.
//
// Failures are returned as *output.ExitError with the system exit code and
// git's stderr in the message.
package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/gorewood/docflow/internal/output"
)

// RunContext executes a git command with the given context and returns its
// trimmed stdout.
func RunContext(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", output.NewSystemError("git not found: ensure git is installed and in PATH")
		}

		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = err.Error()
		}
		return "", output.NewSystemErrorWithCause("git command failed: "+errMsg, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// Version returns the output of "git version".
func Version(ctx context.Context) (string, error) {
	return RunContext(ctx, "version")
}

// Cloner clones repositories with "git clone".
type Cloner struct{}

// Clone runs "git clone <url> <dest>". git creates dest and any missing
// parent directories.
func (Cloner) Clone(ctx context.Context, url, dest string) error {
	if _, err := RunContext(ctx, "clone", "--", url, dest); err != nil {
		return err
	}
	return nil
}

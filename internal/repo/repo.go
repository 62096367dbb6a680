// Package repo prepares a fresh local clone of the repository to document.
package repo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorewood/docflow/internal/output"
)

// Cloner performs the clone itself.
type Cloner interface {
	Clone(ctx context.Context, url, dest string) error
}

// Name derives the local directory name from a repository URL: the last
// path segment with any trailing ".git" removed.
func Name(url string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(url), "/")
	segment := trimmed
	if i := strings.LastIndexAny(trimmed, "/:"); i >= 0 {
		segment = trimmed[i+1:]
	}
	segment = strings.TrimSuffix(segment, ".git")

	if segment == "" || segment == "." || segment == ".." {
		return "", output.NewUserError(fmt.Sprintf("cannot derive a repository name from %q", url))
	}
	return segment, nil
}

// Acquirer clones repositories into WorkDir, replacing any previous copy.
type Acquirer struct {
	WorkDir string
	Cloner  Cloner
	// Remove deletes a stale copy; os.RemoveAll when nil.
	Remove func(path string) error
	// Replacing, if set, is called before an existing copy is removed.
	Replacing func(path string)
	Logger    *slog.Logger
}

// Path returns the clone target for url without touching the filesystem.
func (a *Acquirer) Path(url string) (string, error) {
	name, err := Name(url)
	if err != nil {
		return "", err
	}
	return filepath.Join(a.WorkDir, name), nil
}

// Acquire removes an existing copy at the target path, then clones url into
// it. The removal is recursive and unconditional. Clone errors are returned
// as-is.
func (a *Acquirer) Acquire(ctx context.Context, url string) (string, error) {
	target, err := a.Path(url)
	if err != nil {
		return "", err
	}

	if _, err := os.Lstat(target); err == nil {
		a.logger().Info("removing existing clone", "path", target)
		if a.Replacing != nil {
			a.Replacing(target)
		}
		remove := a.Remove
		if remove == nil {
			remove = os.RemoveAll
		}
		if err := remove(target); err != nil {
			return "", output.NewSystemErrorWithCause("removing existing clone at "+target, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", output.NewSystemErrorWithCause("checking clone target "+target, err)
	}

	a.logger().Info("cloning repository", "url", url, "path", target)
	if err := a.Cloner.Clone(ctx, url, target); err != nil {
		return "", err
	}
	return target, nil
}

func (a *Acquirer) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

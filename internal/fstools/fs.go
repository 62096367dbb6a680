// Package fstools gives agents read-only access to a cloned repository.
//
// Every path is resolved against FS.Root and refused if it would leave it.
// The same capabilities back the eino tools handed to the crew engine and
// the MCP server.
package fstools

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Limits applied to tool output so a single call cannot flood the model's
// context.
const (
	MaxListEntries = 1000
	MaxReadBytes   = 256 * 1024
)

// ErrOutsideRoot is returned for paths that resolve outside FS.Root.
var ErrOutsideRoot = errors.New("path is outside the repository")

// FS is a directory tree rooted at Root.
type FS struct {
	Root string
}

// New returns an FS rooted at root.
func New(root string) *FS {
	return &FS{Root: root}
}

// Listing is the result of List.
type Listing struct {
	Dir       string   `json:"dir"`
	Entries   []string `json:"entries"`
	Truncated bool     `json:"truncated,omitempty"`
}

// List walks dir recursively and returns file paths relative to Root,
// slash-separated and sorted. Directories named .git are skipped.
func (f *FS) List(dir string) (*Listing, error) {
	abs, rel, err := f.resolve(dir)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", rel)
	}

	rootAbs, err := filepath.Abs(f.Root)
	if err != nil {
		return nil, err
	}

	entries := []string{}
	truncated := false
	errStop := errors.New("stop")
	walkErr := filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped rather than failing the listing.
			if d != nil && d.IsDir() && path != abs {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return fs.SkipDir
			}
			return nil
		}
		if len(entries) >= MaxListEntries {
			truncated = true
			return errStop
		}
		r, err := filepath.Rel(rootAbs, path)
		if err != nil {
			return err
		}
		entries = append(entries, filepath.ToSlash(r))
		return nil
	})
	if walkErr != nil && !errors.Is(walkErr, errStop) {
		return nil, walkErr
	}

	sort.Strings(entries)
	return &Listing{Dir: filepath.ToSlash(rel), Entries: entries, Truncated: truncated}, nil
}

// FileContent is the result of Read.
type FileContent struct {
	Path      string `json:"path"`
	Content   string `json:"content"`
	Truncated bool   `json:"truncated,omitempty"`
}

// Read returns the content of path. A positive startLine selects a 1-based
// line window of lineCount lines (to end of file when lineCount <= 0).
// Content beyond MaxReadBytes is cut off.
func (f *FS) Read(path string, startLine, lineCount int) (*FileContent, error) {
	_, rel, err := f.resolve(path)
	if err != nil {
		return nil, err
	}

	// os.Root also refuses symlinks that point out of the tree.
	root, err := os.OpenRoot(f.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = root.Close() }()

	info, err := root.Stat(rel)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory; use list_directory", filepath.ToSlash(rel))
	}

	file, err := root.Open(rel)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var src io.Reader = file
	if startLine > 0 {
		window, err := lineWindow(file, startLine, lineCount)
		if err != nil {
			return nil, err
		}
		src = bytes.NewReader(window)
	}

	data, err := io.ReadAll(io.LimitReader(src, MaxReadBytes+1))
	if err != nil {
		return nil, err
	}
	truncated := len(data) > MaxReadBytes
	if truncated {
		data = data[:MaxReadBytes]
	}

	return &FileContent{Path: filepath.ToSlash(rel), Content: string(data), Truncated: truncated}, nil
}

func lineWindow(r io.Reader, startLine, lineCount int) ([]byte, error) {
	var buf bytes.Buffer
	reader := bufio.NewReader(r)
	line := 0
	for {
		chunk, err := reader.ReadBytes('\n')
		if len(chunk) > 0 {
			line++
			if line >= startLine && (lineCount <= 0 || line < startLine+lineCount) {
				buf.Write(chunk)
			}
			if buf.Len() > MaxReadBytes || (lineCount > 0 && line >= startLine+lineCount-1) {
				return buf.Bytes(), nil
			}
		}
		if errors.Is(err, io.EOF) {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// resolve maps a caller-supplied path onto the filesystem. Relative paths
// are taken relative to Root; a relative path that already starts with Root
// (as the prompts spell it) is accepted too. Absolute paths must lie inside
// Root.
func (f *FS) resolve(path string) (abs, rel string, err error) {
	root := filepath.Clean(f.Root)
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", "", err
	}

	p := filepath.Clean(filepath.FromSlash(strings.TrimSpace(path)))
	switch {
	case p == "" || p == ".":
		rel = "."
	case filepath.IsAbs(p):
		rel, err = filepath.Rel(rootAbs, p)
		if err != nil {
			return "", "", ErrOutsideRoot
		}
	case !filepath.IsAbs(root) && (p == root || strings.HasPrefix(p, root+string(filepath.Separator))):
		rel, _ = filepath.Rel(root, p)
	default:
		rel = p
	}

	if rel != "." && !filepath.IsLocal(rel) {
		return "", "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return filepath.Join(rootAbs, rel), rel, nil
}

package crew

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gorewood/docflow/internal/output"
)

//go:embed defaults/*.yaml
var builtinFS embed.FS

// Builtin returns the built-in content of a definition file.
func Builtin(name string) ([]byte, error) {
	data, err := builtinFS.ReadFile("defaults/" + name)
	if err != nil {
		return nil, output.NewUserErrorWithCause("no built-in definition named "+name, err)
	}
	return data, nil
}

// WriteResult reports what WriteBuiltins did with each file.
type WriteResult struct {
	Path    string `json:"path"`
	Written bool   `json:"written"`
}

// WriteBuiltins writes the built-in definition files into dir. Existing
// files are left alone unless force is set.
func WriteBuiltins(dir string, force bool) ([]WriteResult, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, output.NewSystemErrorWithCause("creating config directory "+dir, err)
	}

	results := make([]WriteResult, 0, len(DefinitionFiles))
	for _, name := range DefinitionFiles {
		path := filepath.Join(dir, name)

		if !force {
			if _, err := os.Stat(path); err == nil {
				results = append(results, WriteResult{Path: path})
				continue
			} else if !errors.Is(err, fs.ErrNotExist) {
				return results, output.NewSystemErrorWithCause("checking "+path, err)
			}
		}

		data, err := Builtin(name)
		if err != nil {
			return results, err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return results, output.NewSystemErrorWithCause("writing "+path, err)
		}
		results = append(results, WriteResult{Path: path, Written: true})
	}
	return results, nil
}

// Package envfile reads dotenv settings files into an explicit Env value.
//
// Values read from files are layered over the process environment: a
// non-empty value in a settings file wins over the same key in the process
// environment. The process environment itself is never modified.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Env is a read/write view of settings-file values over the process
// environment.
type Env struct {
	values    map[string]string
	lookupEnv func(string) (string, bool)
}

// New creates an Env from explicit values. A nil lookup disables the
// process-environment fallback.
func New(values map[string]string, lookup func(string) (string, bool)) *Env {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	return &Env{values: copied, lookupEnv: lookup}
}

// Load reads each settings file in order and returns an Env backed by the
// process environment. For a key present in several files, the first file
// wins. Missing files are skipped.
func Load(paths ...string) (*Env, error) {
	merged := make(map[string]string)
	for _, path := range paths {
		values, err := Read(path)
		if err != nil {
			return nil, err
		}
		for k, v := range values {
			if _, seen := merged[k]; !seen {
				merged[k] = v
			}
		}
	}
	return New(merged, os.LookupEnv), nil
}

// Read parses a single dotenv file. A missing file yields an empty map and
// no error. Pairs with an empty key or empty value are dropped.
func Read(path string) (map[string]string, error) {
	raw, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		k = strings.TrimSpace(k)
		if k == "" || v == "" {
			continue
		}
		values[k] = v
	}
	return values, nil
}

// Lookup returns the value for key, preferring settings-file values over the
// process environment. Keys match literally.
func (e *Env) Lookup(key string) (string, bool) {
	if v, ok := e.values[key]; ok {
		return v, true
	}
	return e.lookupEnv(key)
}

// Get returns the value for key, or "" when unset.
func (e *Env) Get(key string) string {
	v, _ := e.Lookup(key)
	return v
}

// Set records a value in the Env. It shadows both files and the process
// environment for the lifetime of this Env.
func (e *Env) Set(key, value string) {
	e.values[key] = value
}

// Keys returns the keys that came from settings files or Set.
func (e *Env) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	return keys
}

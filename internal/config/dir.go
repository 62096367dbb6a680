// Package config resolves docflow's runtime settings.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the docflow configuration home.
//
// Resolution:
//   - $DOCFLOW_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/docflow if set
//   - %AppData%/docflow on Windows
//   - ~/.config/docflow on macOS and Linux
//
// Dir reads the process environment directly: it runs before any settings
// file has been loaded.
func Dir() string {
	if dir := os.Getenv("DOCFLOW_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "docflow")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "docflow")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "docflow")
}

// EnvFiles returns the settings files to load, highest priority first:
// .env.local and .env in the working directory, then the global env file.
func EnvFiles() []string {
	files := []string{".env.local", ".env"}
	if dir := Dir(); dir != "" {
		files = append(files, filepath.Join(dir, "env"))
	}
	return files
}

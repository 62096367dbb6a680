package config

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestDir_Default(t *testing.T) {
	t.Setenv("DOCFLOW_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "")

	dir := Dir()
	if dir == "" {
		t.Fatal("Dir() returned empty string")
	}

	if runtime.GOOS != "windows" {
		if filepath.Base(dir) != "docflow" {
			t.Errorf("Dir() = %q, want path ending in 'docflow'", dir)
		}
	}
}

func TestDir_ExplicitOverride(t *testing.T) {
	t.Setenv("DOCFLOW_CONFIG_HOME", "/custom/path")
	if got := Dir(); got != "/custom/path" {
		t.Errorf("Dir() = %q, want %q", got, "/custom/path")
	}
}

func TestDir_XDGOverride(t *testing.T) {
	t.Setenv("DOCFLOW_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	if got := Dir(); got != filepath.Join("/xdg/config", "docflow") {
		t.Errorf("Dir() = %q, want %q", got, filepath.Join("/xdg/config", "docflow"))
	}
}

func TestEnvFiles_Order(t *testing.T) {
	t.Setenv("DOCFLOW_CONFIG_HOME", "/cfg")

	files := EnvFiles()
	want := []string{".env.local", ".env", filepath.Join("/cfg", "env")}
	if len(files) != len(want) {
		t.Fatalf("EnvFiles() = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("EnvFiles()[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

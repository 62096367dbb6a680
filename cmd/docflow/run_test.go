package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunFlow_EmptyURLIsUserError(t *testing.T) {
	isolate(t)

	out, stderr, err := execute(t, "\n", "--json", "--provider", "local")
	if err == nil {
		t.Fatal("expected an error for an empty URL")
	}

	result := decodeJSON(t, out)
	if result["code"] != float64(1) {
		t.Errorf("code = %v, want 1", result["code"])
	}
	if !strings.Contains(result["error"].(string), "repository URL is required") {
		t.Errorf("error = %v", result["error"])
	}
	if !strings.Contains(stderr, urlPrompt) {
		t.Errorf("stderr should carry the URL prompt: %q", stderr)
	}
}

func TestRunFlow_InvalidKeyStopsBeforeURLPrompt(t *testing.T) {
	isolate(t)

	out, stderr, err := execute(t, "bad-key\nhttps://example.com/a/b.git\n", "--json")
	if err == nil {
		t.Fatal("expected an error for an invalid key")
	}

	result := decodeJSON(t, out)
	if result["code"] != float64(1) {
		t.Errorf("code = %v, want 1", result["code"])
	}
	if got := result["error"].(string); got != "bad-k... is not a valid key" {
		t.Errorf("error = %q", got)
	}
	if !strings.Contains(stderr, "Enter your NVIDIA API key: ") {
		t.Errorf("stderr should carry the key prompt: %q", stderr)
	}
	if strings.Contains(stderr, urlPrompt) {
		t.Errorf("URL prompt should not be shown after a bad key: %q", stderr)
	}
}

func TestRunFlow_KeyAndURLShareStdin(t *testing.T) {
	isolate(t)

	// The key is accepted; the second (empty) line is the URL answer.
	out, stderr, err := execute(t, "nvapi-test\n\n", "--json")
	if err == nil {
		t.Fatal("expected an error for an empty URL")
	}
	result := decodeJSON(t, out)
	if !strings.Contains(result["error"].(string), "repository URL is required") {
		t.Errorf("error = %v", result["error"])
	}
	if !strings.Contains(stderr, urlPrompt) {
		t.Errorf("stderr should carry the URL prompt: %q", stderr)
	}
}

func TestRunFlow_MissingDefinitions(t *testing.T) {
	src := sourceRepo(t)
	isolate(t)

	out, _, err := execute(t, "", "--provider", "local", src)
	if err == nil {
		t.Fatal("expected an error without crew definitions")
	}
	if !strings.Contains(err.Error(), "docflow init") {
		t.Errorf("error should point at 'docflow init': %v", err)
	}

	clone := filepath.Join("workdir", "widgets")
	for _, want := range []string{
		"# Cloning repository: " + src + "\n\n",
		"# Planning documentation for: " + clone + "\n\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout should contain %q: %q", want, out)
		}
	}
	if strings.Contains(out, "# Creating documentation") {
		t.Errorf("drafting should not start: %q", out)
	}
	if _, err := os.Stat(filepath.Join(clone, "README.md")); err != nil {
		t.Errorf("clone missing: %v", err)
	}
}

func TestRunFlow_ReplacesExistingClone(t *testing.T) {
	src := sourceRepo(t)
	isolate(t)

	stale := filepath.Join("workdir", "widgets", "stale.txt")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, _, _ := execute(t, "", "--provider", "local", src)

	want := "# Repository already exists at " + filepath.Join("workdir", "widgets") + ", removing it..."
	if !strings.Contains(out, want) {
		t.Errorf("stdout should contain %q: %q", want, out)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale file should be gone, stat err = %v", err)
	}
}

// sourceRepo creates a one-commit git repository named widgets.
func sourceRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := filepath.Join(t.TempDir(), "widgets")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# widgets\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	runGit(t, dir, "init", "-q")
	runGit(t, dir, "add", "README.md")
	runGit(t, dir, "-c", "user.email=test@test.com", "-c", "user.name=Test User", "commit", "-q", "-m", "Initial commit")
	return dir
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.CommandContext(t.Context(), "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\nOutput: %s", args, err, out)
	}
}

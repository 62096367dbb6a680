package envfile

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeEnvFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRead_NonexistentFile(t *testing.T) {
	values, err := Read("/nonexistent/.env")
	if err != nil {
		t.Fatalf("expected nil for nonexistent file, got %v", err)
	}
	if len(values) != 0 {
		t.Errorf("values = %v, want empty", values)
	}
}

func TestRead_DropsEmptyValues(t *testing.T) {
	path := writeEnvFile(t, t.TempDir(), ".env", "NVIDIA_NIM_API_KEY=\nDOCFLOW_MODEL=llama-70b\n")

	values, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := values["NVIDIA_NIM_API_KEY"]; ok {
		t.Error("empty value should be dropped")
	}
	if values["DOCFLOW_MODEL"] != "llama-70b" {
		t.Errorf("DOCFLOW_MODEL = %q, want %q", values["DOCFLOW_MODEL"], "llama-70b")
	}
}

func TestRead_QuotesCommentsAndExport(t *testing.T) {
	content := "# comment\n\nexport A_KEY=\"quoted value\"\nB_KEY='single'\nC_KEY=plain\n"
	path := writeEnvFile(t, t.TempDir(), ".env", content)

	values, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]string{"A_KEY": "quoted value", "B_KEY": "single", "C_KEY": "plain"}
	for k, v := range want {
		if values[k] != v {
			t.Errorf("%s = %q, want %q", k, values[k], v)
		}
	}
}

func TestLoad_FileWinsOverProcessEnv(t *testing.T) {
	path := writeEnvFile(t, t.TempDir(), ".env", "TEST_DOCFLOW_ENV_A=from_file\n")
	t.Setenv("TEST_DOCFLOW_ENV_A", "from_env")

	env, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := env.Get("TEST_DOCFLOW_ENV_A"); got != "from_file" {
		t.Errorf("Get() = %q, want %q", got, "from_file")
	}
	if got := os.Getenv("TEST_DOCFLOW_ENV_A"); got != "from_env" {
		t.Errorf("process env was modified: %q", got)
	}
}

func TestLoad_FallsBackToProcessEnv(t *testing.T) {
	t.Setenv("TEST_DOCFLOW_ENV_B", "from_env")

	env, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatal(err)
	}

	if got := env.Get("TEST_DOCFLOW_ENV_B"); got != "from_env" {
		t.Errorf("Get() = %q, want %q", got, "from_env")
	}
}

func TestLoad_FirstFileWins(t *testing.T) {
	dir := t.TempDir()
	local := writeEnvFile(t, dir, ".env.local", "SHARED=local\n")
	shared := writeEnvFile(t, dir, ".env", "SHARED=shared\nONLY_SHARED=yes\n")

	env, err := Load(local, shared)
	if err != nil {
		t.Fatal(err)
	}

	if got := env.Get("SHARED"); got != "local" {
		t.Errorf("SHARED = %q, want %q", got, "local")
	}
	if got := env.Get("ONLY_SHARED"); got != "yes" {
		t.Errorf("ONLY_SHARED = %q, want %q", got, "yes")
	}
}

func TestEnv_KeyMatchIsLiteral(t *testing.T) {
	env := New(map[string]string{"Api_Key": "x"}, nil)

	if _, ok := env.Lookup("API_KEY"); ok {
		t.Error("lookup should not fold case")
	}
	if got := env.Get("Api_Key"); got != "x" {
		t.Errorf("Get() = %q, want %q", got, "x")
	}
}

func TestEnv_Set(t *testing.T) {
	env := New(nil, func(string) (string, bool) { return "from_env", true })
	env.Set("NVIDIA_NIM_API_KEY", "nvapi-abc")

	if got := env.Get("NVIDIA_NIM_API_KEY"); got != "nvapi-abc" {
		t.Errorf("Get() = %q, want %q", got, "nvapi-abc")
	}
	if !slices.Contains(env.Keys(), "NVIDIA_NIM_API_KEY") {
		t.Error("Keys() should include values recorded with Set")
	}
}

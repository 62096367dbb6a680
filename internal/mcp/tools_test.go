package mcp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/docflow/internal/fstools"
)

func makeRepo(t *testing.T) *fstools.FS {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"README.md":   "# widgets\n",
		"cmd/main.go": "package main\n\nfunc main() {}\n",
		".git/HEAD":   "ref: refs/heads/main\n",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return fstools.New(root)
}

// --- list_directory handler tests ---

func TestHandleListDirectory(t *testing.T) {
	handler := handleListDirectory(makeRepo(t))

	_, out, err := handler(context.Background(), &mcp.CallToolRequest{}, fstools.ListArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"README.md", "cmd/main.go"}; !slices.Equal(out.Entries, want) {
		t.Errorf("Entries = %v, want %v", out.Entries, want)
	}
}

func TestHandleListDirectory_Escape(t *testing.T) {
	handler := handleListDirectory(makeRepo(t))

	_, _, err := handler(context.Background(), &mcp.CallToolRequest{}, fstools.ListArgs{Path: "../"})
	if !errors.Is(err, fstools.ErrOutsideRoot) {
		t.Errorf("err = %v, want ErrOutsideRoot", err)
	}
}

// --- read_file handler tests ---

func TestHandleReadFile(t *testing.T) {
	handler := handleReadFile(makeRepo(t))

	_, out, err := handler(context.Background(), &mcp.CallToolRequest{}, fstools.ReadArgs{Path: "cmd/main.go", StartLine: 3, LineCount: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Content != "func main() {}\n" {
		t.Errorf("Content = %q", out.Content)
	}
}

func TestHandleReadFile_Invalid(t *testing.T) {
	handler := handleReadFile(makeRepo(t))

	tests := []struct {
		name string
		in   fstools.ReadArgs
		want string
	}{
		{"missing path", fstools.ReadArgs{}, "path is required"},
		{"negative window", fstools.ReadArgs{Path: "README.md", StartLine: -1}, "must not be negative"},
		{"directory", fstools.ReadArgs{Path: "cmd"}, "is a directory"},
		{"missing file", fstools.ReadArgs{Path: "nope.go"}, "reading nope.go"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := handler(context.Background(), &mcp.CallToolRequest{}, tt.in)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want substring %q", err, tt.want)
			}
		})
	}
}

// --- server wiring ---

func TestNewServer_ListsTools(t *testing.T) {
	ctx := context.Background()
	server := NewServer("test", makeRepo(t))

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer func() { _ = serverSession.Close() }()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer func() { _ = session.Close() }()

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
		if tool.Annotations == nil || !tool.Annotations.ReadOnlyHint {
			t.Errorf("tool %s should be annotated read-only", tool.Name)
		}
	}
	slices.Sort(names)
	if want := []string{fstools.ToolListDirectory, fstools.ToolReadFile}; !slices.Equal(names, want) {
		t.Errorf("tools = %v, want %v", names, want)
	}
}

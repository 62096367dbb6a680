package fstools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/tool"
)

func invokable(t *testing.T, tools []tool.BaseTool, name string) tool.InvokableTool {
	t.Helper()
	for _, bt := range tools {
		info, err := bt.Info(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if info.Name == name {
			it, ok := bt.(tool.InvokableTool)
			if !ok {
				t.Fatalf("%s is not invokable", name)
			}
			return it
		}
	}
	t.Fatalf("tool %s not found", name)
	return nil
}

func TestTools_Names(t *testing.T) {
	tools := New(t.TempDir()).Tools()
	if len(tools) != 2 {
		t.Fatalf("len(tools) = %d, want 2", len(tools))
	}
	invokable(t, tools, ToolListDirectory)
	invokable(t, tools, ToolReadFile)
}

func TestListDirectoryTool(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.go": "package a"})

	out, err := invokable(t, New(root).Tools(), ToolListDirectory).InvokableRun(context.Background(), `{}`)
	if err != nil {
		t.Fatalf("InvokableRun() error = %v", err)
	}

	var listing Listing
	if err := json.Unmarshal([]byte(out), &listing); err != nil {
		t.Fatalf("unmarshal %q: %v", out, err)
	}
	if len(listing.Entries) != 1 || listing.Entries[0] != "a.go" {
		t.Errorf("entries = %v", listing.Entries)
	}
}

func TestReadFileTool(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.go": "one\ntwo\n"})
	read := invokable(t, New(root).Tools(), ToolReadFile)

	out, err := read.InvokableRun(context.Background(), `{"path":"a.go","start_line":2,"line_count":1}`)
	if err != nil {
		t.Fatalf("InvokableRun() error = %v", err)
	}
	var content FileContent
	if err := json.Unmarshal([]byte(out), &content); err != nil {
		t.Fatal(err)
	}
	if content.Content != "two\n" {
		t.Errorf("content = %q", content.Content)
	}
}

func TestTools_ErrorsAreReportedToTheModel(t *testing.T) {
	read := invokable(t, New(t.TempDir()).Tools(), ToolReadFile)

	tests := []struct {
		name string
		args string
		want string
	}{
		{"bad json", `{"path":`, "invalid arguments"},
		{"missing path", `{}`, "path is required"},
		{"escape", `{"path":"../../etc/passwd"}`, "outside the repository"},
		{"missing file", `{"path":"nope.txt"}`, "nope.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := read.InvokableRun(context.Background(), tt.args)
			if err != nil {
				t.Fatalf("tool errors must not surface as Go errors: %v", err)
			}
			var payload map[string]string
			if err := json.Unmarshal([]byte(out), &payload); err != nil {
				t.Fatalf("unmarshal %q: %v", out, err)
			}
			if !strings.Contains(payload["error"], tt.want) {
				t.Errorf("error = %q, want substring %q", payload["error"], tt.want)
			}
		})
	}
}

// Package mcp provides a Model Context Protocol server for docflow.
// It exposes the read-only repository tools the agent crews use, so any
// MCP-capable agent can explore a clone the same way.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/docflow/internal/fstools"
)

// NewServer creates an MCP server with the repository tools registered,
// rooted at fsys.Root.
func NewServer(version string, fsys *fstools.FS) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "docflow",
		Version: version,
	}, nil)
	registerTools(server, fsys)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// registerTools adds the repository tools to the server.
func registerTools(server *mcp.Server, fsys *fstools.FS) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        fstools.ToolListDirectory,
		Description: "List every file under a directory of the repository, recursively. Paths are relative to the repository root; .git is skipped.",
		Annotations: readOnlyAnnotations(),
	}, handleListDirectory(fsys))

	mcp.AddTool(server, &mcp.Tool{
		Name:        fstools.ToolReadFile,
		Description: "Read a text file from the repository, optionally restricted to a window of lines.",
		Annotations: readOnlyAnnotations(),
	}, handleReadFile(fsys))
}

package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/docflow/internal/fstools"
)

func handleListDirectory(fsys *fstools.FS) mcp.ToolHandlerFor[fstools.ListArgs, fstools.Listing] {
	return func(_ context.Context, _ *mcp.CallToolRequest, in fstools.ListArgs) (*mcp.CallToolResult, fstools.Listing, error) {
		listing, err := fsys.List(in.Path)
		if err != nil {
			return nil, fstools.Listing{}, fmt.Errorf("listing %s: %w", displayPath(in.Path), err)
		}
		return nil, *listing, nil
	}
}

func handleReadFile(fsys *fstools.FS) mcp.ToolHandlerFor[fstools.ReadArgs, fstools.FileContent] {
	return func(_ context.Context, _ *mcp.CallToolRequest, in fstools.ReadArgs) (*mcp.CallToolResult, fstools.FileContent, error) {
		if strings.TrimSpace(in.Path) == "" {
			return nil, fstools.FileContent{}, errors.New("path is required")
		}
		if in.StartLine < 0 || in.LineCount < 0 {
			return nil, fstools.FileContent{}, errors.New("start_line and line_count must not be negative")
		}
		content, err := fsys.Read(in.Path, in.StartLine, in.LineCount)
		if err != nil {
			return nil, fstools.FileContent{}, fmt.Errorf("reading %s: %w", in.Path, err)
		}
		return nil, *content, nil
	}
}

func displayPath(p string) string {
	if p == "" {
		return "."
	}
	return p
}

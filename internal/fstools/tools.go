package fstools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

// Tool names as seen by the model and in agent definitions.
const (
	ToolListDirectory = "list_directory"
	ToolReadFile      = "read_file"
)

// Tools returns the repository capabilities as eino tools.
func (f *FS) Tools() []tool.BaseTool {
	return []tool.BaseTool{&listDirectoryTool{fs: f}, &readFileTool{fs: f}}
}

// ListArgs are the list_directory arguments.
type ListArgs struct {
	Path string `json:"path,omitempty" jsonschema:"Directory to list, relative to the repository root. Defaults to the root."`
}

// ReadArgs are the read_file arguments.
type ReadArgs struct {
	Path      string `json:"path" jsonschema:"File to read, relative to the repository root."`
	StartLine int    `json:"start_line,omitempty" jsonschema:"Optional 1-based first line to return."`
	LineCount int    `json:"line_count,omitempty" jsonschema:"Optional number of lines to return from start_line."`
}

const (
	listDesc = "List every file under a directory of the repository, recursively. Returns paths relative to the repository root."
	readDesc = "Read a text file from the repository. Optionally restrict the result to a window of lines."
)

type listDirectoryTool struct {
	fs *FS
}

func (t *listDirectoryTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: ToolListDirectory,
		Desc: listDesc,
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"path": {Type: schema.String, Desc: "Directory to list, relative to the repository root. Defaults to the root."},
		}),
	}, nil
}

func (t *listDirectoryTool) InvokableRun(_ context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var args ListArgs
	if err := decodeArgs(argumentsInJSON, &args); err != nil {
		return ErrorPayload("invalid arguments: " + err.Error()), nil
	}
	listing, err := t.fs.List(args.Path)
	if err != nil {
		return ErrorPayload(err.Error()), nil
	}
	return jsonPayload(listing), nil
}

type readFileTool struct {
	fs *FS
}

func (t *readFileTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: ToolReadFile,
		Desc: readDesc,
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"path":       {Type: schema.String, Desc: "File to read, relative to the repository root.", Required: true},
			"start_line": {Type: schema.Integer, Desc: "Optional 1-based first line to return."},
			"line_count": {Type: schema.Integer, Desc: "Optional number of lines to return from start_line."},
		}),
	}, nil
}

func (t *readFileTool) InvokableRun(_ context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var args ReadArgs
	if err := decodeArgs(argumentsInJSON, &args); err != nil {
		return ErrorPayload("invalid arguments: " + err.Error()), nil
	}
	if strings.TrimSpace(args.Path) == "" {
		return ErrorPayload("path is required"), nil
	}
	content, err := t.fs.Read(args.Path, args.StartLine, args.LineCount)
	if err != nil {
		return ErrorPayload(err.Error()), nil
	}
	return jsonPayload(content), nil
}

func decodeArgs(raw string, v any) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), v)
}

func jsonPayload(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ErrorPayload(err.Error())
	}
	return string(b)
}

// ErrorPayload formats msg the way tool failures are reported to the model.
func ErrorPayload(msg string) string {
	b, _ := json.Marshal(map[string]string{"error": msg})
	return string(b)
}

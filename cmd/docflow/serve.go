package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/gorewood/docflow/internal/fstools"
	docflowmcp "github.com/gorewood/docflow/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the repository tools over MCP (stdio transport)",
		Long: `Run docflow as a Model Context Protocol (MCP) server over stdio.

The server exposes the same read-only tools the crews use, rooted at
--root (default: the workdir setting), so another agent can explore
cloned repositories the way docflow's agents do.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "docflow": {
        "command": "docflow",
        "args": ["serve", "--root", "workdir"]
      }
    }
  }

Available tools: list_directory, read_file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if root == "" {
				printer := newPrinter(cmd)
				a, err := loadApp(cmd, printer)
				if err != nil {
					printer.Error(err)
					return err
				}
				root = a.settings.WorkDir
			}
			server := docflowmcp.NewServer(buildVersion(), fstools.New(root))
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Directory the tools may read (default: workdir setting)")

	return cmd
}

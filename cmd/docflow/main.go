// Package main provides the entry point for the docflow CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gorewood/docflow/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	return persistentFlag(cmd, "json") == "true"
}

// useColor resolves --color against the command's output.
func useColor(cmd *cobra.Command) bool {
	return output.ResolveColorMode(persistentFlag(cmd, "color"), output.IsTTY(cmd.OutOrStdout()))
}

// persistentFlag returns the string value of a flag, walking up to the root
// when the command does not define it.
func persistentFlag(cmd *cobra.Command, name string) string {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup(name)
	}
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

// newPrinter builds the printer every command reports through.
func newPrinter(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).
		WithStderr(cmd.ErrOrStderr())
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	err := fang.Execute(ctx, cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the docflow CLI. Run without a
// subcommand it executes the full documentation flow.
func newRootCmd() *cobra.Command {
	flags := &flowFlags{}

	cmd := &cobra.Command{
		Use:   "docflow [repository-url]",
		Short: "Generate MDX documentation for a Git repository with an agent crew",
		Long: `docflow clones a repository, has a planning crew outline its documentation,
then has a writing crew draft and review every planned page.

Pages are written to <workdir>/<repo>/docs/<title>.mdx. Without a URL
argument docflow asks for one.

Crew definitions are read from the config directory (default ./config).
Run 'docflow init' to write the built-in definitions there.

Examples:
  docflow https://github.com/acme/widgets.git
  docflow --provider openai --model mini https://github.com/acme/widgets
  docflow                                 # prompts for the URL`,
		Version:       buildVersion(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlow(cmd, args, flags)
		},
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("color", "auto", "Color output: auto, always, never")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")
	cmd.PersistentFlags().String("config", "", "Settings file (default ./"+configFileName+")")
	cmd.PersistentFlags().StringP("model", "m", "", "Model name or alias (see 'docflow models')")
	cmd.PersistentFlags().StringP("provider", "p", "", "Provider: nvidia, openai, local")

	cmd.Flags().BoolVar(&flags.sanitize, "sanitize", false, "Strip chat preambles and a wrapping code fence from each page")

	// Configure lipgloss for TTY detection
	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd)

	return cmd
}

// addCommandGroups defines the command groups for help output.
func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "admin", Title: "Admin Commands:"})
}

// addCommands adds all subcommands with their group assignments.
func addCommands(cmd *cobra.Command) {
	addGroupedCommand(cmd, newPlanCmd(), "core")
	addGroupedCommand(cmd, newServeCmd(), "core")

	addGroupedCommand(cmd, newInitCmd(), "admin")
	addGroupedCommand(cmd, newModelsCmd(), "admin")
	addGroupedCommand(cmd, newDoctorCmd(), "admin")
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}

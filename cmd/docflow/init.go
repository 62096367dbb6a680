package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/docflow/internal/crew"
)

// initFlags holds the command-line flags for the init command.
type initFlags struct {
	force bool
	dir   string
}

// newInitCmd creates the init command.
func newInitCmd() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the built-in crew definitions to the config directory",
		Long: `Write the built-in agent and task definitions used by the planning and
writing crews.

Four files are written to the config directory (default ./config):
  planner_agents.yaml         code_explorer, documentation_planner
  planner_tasks.yaml          analyze_codebase, create_documentation_plan
  documentation_agents.yaml   overview_writer, documentation_reviewer
  documentation_tasks.yaml    draft_documentation, qa_review_documentation

Existing files are kept unless --force is given. Edit them to change how
the crews explore, plan and write.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.force, "force", false, "Overwrite existing definition files")
	cmd.Flags().StringVar(&flags.dir, "dir", "", "Target directory (default: config_dir setting)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	printer := newPrinter(cmd)

	dir := flags.dir
	if dir == "" {
		a, err := loadApp(cmd, printer)
		if err != nil {
			printer.Error(err)
			return err
		}
		dir = a.settings.ConfigDir
	}

	results, err := crew.WriteBuiltins(dir, flags.force)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{"dir": dir, "files": results})
	}

	written := 0
	for _, r := range results {
		if r.Written {
			written++
			printer.Print("  %s  %s\n", statusIcon(checkPass), r.Path)
			continue
		}
		printer.Print("  %s  %s (exists, use --force to overwrite)\n", statusIcon(checkWarn), r.Path)
	}
	printer.Println()
	printer.Print("%d of %d definition files written to %s\n", written, len(results), dir)
	return nil
}

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gorewood/docflow/internal/draft"
	"github.com/gorewood/docflow/internal/flow"
	"github.com/gorewood/docflow/internal/output"
	"github.com/gorewood/docflow/internal/plan"
)

// newPlanCmd creates the plan command.
func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan [repository-url]",
		Short: "Clone a repository and print its documentation plan",
		Long: `Clone a repository and run only the planning crew.

The plan lists every page the writing crew would produce, with the file
name each page would get. Nothing is written under docs/.

Examples:
  docflow plan https://github.com/acme/widgets.git
  docflow plan --json https://github.com/acme/widgets.git > plan.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, args)
		},
	}
}

func runPlan(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	docPlan, err := executePlan(cmd, args, printer)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(docPlan)
	}
	describePlan(printer, docPlan)
	return nil
}

func executePlan(cmd *cobra.Command, args []string, printer *output.Printer) (*plan.DocPlan, error) {
	a, err := loadApp(cmd, printer)
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runner, err := a.newRunner(ctx, cmd)
	if err != nil {
		return nil, err
	}
	url, err := a.resolveURL(cmd, args)
	if err != nil {
		return nil, err
	}

	indicator := a.indicator(cmd, printer)

	indicator.Start(flow.LabelCloning)
	repoPath, err := a.acquirer(printer).Acquire(ctx, url)
	if err != nil {
		indicator.Fail(flow.LabelCloning + " failed")
		return nil, err
	}
	indicator.Stop(flow.LabelCloned)

	planner := &plan.Planner{Runner: runner, ConfigDir: a.settings.ConfigDir, Logger: a.logger}
	indicator.Start(flow.LabelPlanning)
	docPlan, err := planner.Plan(ctx, repoPath)
	if err != nil {
		indicator.Fail(flow.LabelPlanning + " failed")
		return nil, err
	}
	indicator.Stop(flow.LabelPlanned)
	return docPlan, nil
}

// describePlan renders a plan for humans.
func describePlan(printer *output.Printer, p *plan.DocPlan) {
	printer.Heading("Documentation plan")
	printer.Box("Overview", p.Overview)
	for i, item := range p.Docs {
		printer.Println()
		printer.Print("%d. %s  (%s%s)\n", i+1, item.Title, draft.Slug(item.Title), draft.PageExt)
		printer.KeyValue("   Goal", item.Goal)
		printer.KeyValue("   Description", item.Description)
		if item.Prerequisites != "" {
			printer.KeyValue("   Prerequisites", item.Prerequisites)
		}
		for _, ex := range item.Examples {
			printer.Print("   - %s\n", ex)
		}
	}
}

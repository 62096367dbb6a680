package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/gorewood/docflow/internal/draft"
	"github.com/gorewood/docflow/internal/flow"
	"github.com/gorewood/docflow/internal/git"
	"github.com/gorewood/docflow/internal/output"
	"github.com/gorewood/docflow/internal/plan"
	"github.com/gorewood/docflow/internal/progress"
	"github.com/gorewood/docflow/internal/repo"
)

const urlPrompt = "Enter the GitHub repository URL: "

// flowFlags holds the local flags of the root command.
type flowFlags struct {
	sanitize bool
}

// runFlow clones, plans and drafts documentation for one repository.
func runFlow(cmd *cobra.Command, args []string, flags *flowFlags) error {
	printer := newPrinter(cmd)

	state, err := executeFlow(cmd, args, flags, printer)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(state)
	}
	printer.Heading("Documentation flow completed.")
	for _, doc := range state.Docs {
		printer.Println(doc)
	}
	return nil
}

func executeFlow(cmd *cobra.Command, args []string, flags *flowFlags, printer *output.Printer) (*flow.State, error) {
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

	state := &flow.State{ProjectURL: url}
	f := &flow.Flow{
		State:    state,
		Acquirer: a.acquirer(printer),
		Planner: &plan.Planner{
			Runner:    runner,
			ConfigDir: a.settings.ConfigDir,
			Logger:    a.logger,
		},
		Drafter: &draft.Drafter{
			Runner:    runner,
			ConfigDir: a.settings.ConfigDir,
			DocsDir:   a.settings.DocsDir,
			Collision: a.settings.SlugCollision,
			Sanitize:  a.settings.Sanitize || flags.sanitize,
			Logger:    a.logger,
		},
		Indicator: a.indicator(cmd, printer),
		Logger:    a.logger,
	}
	if !printer.IsJSON() {
		f.Out = printer.Writer()
	}

	if err := f.Run(ctx); err != nil {
		return nil, err
	}
	return state, nil
}

// resolveURL takes the URL argument or asks for one on stdin.
func (a *app) resolveURL(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	url, err := a.promptLine(cmd.ErrOrStderr(), urlPrompt)
	if err != nil {
		return "", err
	}
	if url == "" {
		return "", output.NewUserError("a repository URL is required")
	}
	return url, nil
}

// acquirer clones into the configured work directory and announces when an
// earlier copy is being replaced.
func (a *app) acquirer(printer *output.Printer) *repo.Acquirer {
	return &repo.Acquirer{
		WorkDir: a.settings.WorkDir,
		Cloner:  git.Cloner{},
		Replacing: func(path string) {
			printer.Heading("Repository already exists at %s, removing it...", path)
		},
		Logger: a.logger,
	}
}

// indicator animates on a terminal and stays silent in JSON mode.
func (a *app) indicator(cmd *cobra.Command, printer *output.Printer) flow.Indicator {
	if printer.IsJSON() {
		return progress.New(io.Discard, false)
	}
	return progress.New(cmd.ErrOrStderr(), output.IsTTY(cmd.ErrOrStderr()))
}

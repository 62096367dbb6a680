// Package flow sequences a documentation run: acquire the repository, plan
// the pages, then draft them.
package flow

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/gorewood/docflow/internal/plan"
)

// State is the shared record of one run. Docs grows as pages are written,
// in plan order.
type State struct {
	ProjectURL string   `json:"project_url"`
	RepoPath   string   `json:"repo_path"`
	Docs       []string `json:"docs"`
}

// Acquirer produces a fresh local clone.
type Acquirer interface {
	Acquire(ctx context.Context, url string) (string, error)
}

// Planner produces a documentation plan for a clone.
type Planner interface {
	Plan(ctx context.Context, repoPath string) (*plan.DocPlan, error)
}

// Drafter writes every planned page.
type Drafter interface {
	Draft(ctx context.Context, repoPath string, p *plan.DocPlan, written func(path string)) error
}

// Indicator shows progress around each stage.
type Indicator interface {
	Start(message string)
	Stop(message string)
	Fail(message string)
}

// Stage labels: shown while a stage runs and when it completes.
const (
	LabelCloning  = "Cloning repository"
	LabelCloned   = "Repository cloned"
	LabelPlanning = "Planning documentation"
	LabelPlanned  = "Documentation planned"
	LabelCreating = "Creating documentation"
	LabelCreated  = "Documentation created"
)

// Flow runs the three stages in order. Any stage error ends the run and is
// returned unchanged; nothing is cleaned up.
type Flow struct {
	State     *State
	Acquirer  Acquirer
	Planner   Planner
	Drafter   Drafter
	Indicator Indicator
	// Out receives the stage headings.
	Out    io.Writer
	Logger *slog.Logger
}

// Run executes Acquiring, Planning and Drafting.
func (f *Flow) Run(ctx context.Context) error {
	f.heading("Cloning repository: %s", f.State.ProjectURL)
	err := f.stage(LabelCloning, LabelCloned, func() error {
		path, err := f.Acquirer.Acquire(ctx, f.State.ProjectURL)
		if err != nil {
			return err
		}
		f.State.RepoPath = path
		return nil
	})
	if err != nil {
		return err
	}

	f.heading("Planning documentation for: %s", f.State.RepoPath)
	var docPlan *plan.DocPlan
	err = f.stage(LabelPlanning, LabelPlanned, func() error {
		var err error
		docPlan, err = f.Planner.Plan(ctx, f.State.RepoPath)
		return err
	})
	if err != nil {
		return err
	}

	f.heading("Creating documentation")
	return f.stage(LabelCreating, LabelCreated, func() error {
		return f.Drafter.Draft(ctx, f.State.RepoPath, docPlan, func(path string) {
			f.State.Docs = append(f.State.Docs, path)
			f.logger().Info("page written", "path", path)
		})
	})
}

func (f *Flow) stage(running, done string, run func() error) error {
	f.logger().Debug("stage started", "stage", running)
	f.Indicator.Start(running)
	if err := run(); err != nil {
		f.Indicator.Fail(running + " failed")
		f.logger().Debug("stage failed", "stage", running, "error", err)
		return err
	}
	f.Indicator.Stop(done)
	return nil
}

func (f *Flow) heading(format string, args ...any) {
	if f.Out == nil {
		return
	}
	_, _ = fmt.Fprintf(f.Out, "# "+format+"\n\n", args...)
}

func (f *Flow) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return f.Logger
}

// Package plan runs the planning crew and turns its answer into a DocPlan.
package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gorewood/docflow/internal/crew"
	"github.com/gorewood/docflow/internal/fstools"
	"github.com/gorewood/docflow/internal/output"
)

// DocItem describes one documentation page to write.
type DocItem struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Prerequisites string   `json:"prerequisites"`
	Examples      []string `json:"examples"`
	Goal          string   `json:"goal"`
}

// DocPlan is the planning crew's outline. Docs order is the order pages are
// generated in.
type DocPlan struct {
	Overview string    `json:"overview"`
	Docs     []DocItem `json:"docs"`
}

// Agent and task names the planning crew is built from.
const (
	AgentCodeExplorer         = "code_explorer"
	AgentDocumentationPlanner = "documentation_planner"
	TaskAnalyzeCodebase       = "analyze_codebase"
	TaskCreatePlan            = "create_documentation_plan"
)

// OutputFormat is appended to the plan task so the answer decodes into a
// DocPlan.
const OutputFormat = `Respond with a single JSON object and nothing else. Use exactly this shape:
{
  "overview": "short overview of the project",
  "docs": [
    {
      "title": "page title",
      "description": "what the page covers",
      "prerequisites": "what the reader needs first",
      "examples": ["example to include"],
      "goal": "what the reader can do afterwards"
    }
  ]
}`

// Planner produces a DocPlan for a cloned repository.
type Planner struct {
	Runner    crew.Runner
	ConfigDir string
	Logger    *slog.Logger
}

// Crew loads the planning crew from the config directory.
func (p *Planner) Crew() (*crew.Crew, error) {
	agents, tasks, err := crew.LoadStage(p.ConfigDir, crew.PlannerAgentsFile, crew.PlannerTasksFile)
	if err != nil {
		return nil, err
	}

	capabilities := []string{fstools.ToolListDirectory, fstools.ToolReadFile}
	explorer, err := agents.Agent(AgentCodeExplorer, capabilities...)
	if err != nil {
		return nil, err
	}
	planner, err := agents.Agent(AgentDocumentationPlanner, capabilities...)
	if err != nil {
		return nil, err
	}

	analyze, err := tasks.Task(TaskAnalyzeCodebase, explorer)
	if err != nil {
		return nil, err
	}
	create, err := tasks.Task(TaskCreatePlan, planner)
	if err != nil {
		return nil, err
	}
	create.OutputFormat = OutputFormat

	return &crew.Crew{
		Name:   "planner",
		Agents: []crew.Agent{explorer, planner},
		Tasks:  []crew.Task{analyze, create},
	}, nil
}

// Plan runs the planning crew against repoPath and parses its final answer.
func (p *Planner) Plan(ctx context.Context, repoPath string) (*DocPlan, error) {
	c, err := p.Crew()
	if err != nil {
		return nil, err
	}

	result, err := p.Runner.Kickoff(ctx, c, crew.Inputs{"repo_path": repoPath})
	if err != nil {
		return nil, err
	}

	plan, err := Parse(result.Raw)
	if err != nil {
		return nil, err
	}
	p.logger().Info("documentation planned", "repo_path", repoPath, "docs", len(plan.Docs))
	return plan, nil
}

func (p *Planner) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}

// Parse decodes the first JSON object in the planning crew's raw answer.
// Prose and code fences around it are ignored. Unknown fields, a missing
// docs list and untitled items are errors; an empty docs list is a valid
// plan with nothing to write.
func Parse(raw string) (*DocPlan, error) {
	start := strings.Index(raw, "{")
	if start < 0 {
		return nil, output.NewSystemError("documentation plan is not a JSON object")
	}

	dec := json.NewDecoder(strings.NewReader(raw[start:]))
	dec.DisallowUnknownFields()

	var plan DocPlan
	if err := dec.Decode(&plan); err != nil {
		return nil, output.NewSystemErrorWithCause("documentation plan does not match the expected shape", err)
	}

	if err := plan.Validate(); err != nil {
		return nil, output.NewSystemErrorWithCause("documentation plan is invalid", err)
	}
	return &plan, nil
}

// Validate checks the invariants every generated page relies on.
func (p *DocPlan) Validate() error {
	if p.Docs == nil {
		return errors.New("plan has no docs list")
	}
	for i, d := range p.Docs {
		if strings.TrimSpace(d.Title) == "" {
			return fmt.Errorf("doc %d has no title", i+1)
		}
	}
	return nil
}

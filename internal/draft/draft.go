// Package draft runs the documentation crew once per planned page and writes
// each page to the repository's docs directory.
package draft

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorewood/docflow/internal/crew"
	"github.com/gorewood/docflow/internal/fstools"
	"github.com/gorewood/docflow/internal/output"
	"github.com/gorewood/docflow/internal/plan"
)

// Agent and task names the documentation crew is built from.
const (
	AgentOverviewWriter        = "overview_writer"
	AgentDocumentationReviewer = "documentation_reviewer"
	TaskDraftDocumentation     = "draft_documentation"
	TaskQAReviewDocumentation  = "qa_review_documentation"
)

// Slug collision policies.
const (
	CollisionOverwrite = "overwrite"
	CollisionError     = "error"
)

// DefaultDocsDir is the docs directory inside the repository.
const DefaultDocsDir = "docs"

// PageExt is the extension of every generated page.
const PageExt = ".mdx"

// Drafter writes one page per DocItem.
type Drafter struct {
	Runner    crew.Runner
	ConfigDir string
	// DocsDir is relative to the repository; DefaultDocsDir when empty.
	DocsDir string
	// Collision is CollisionOverwrite (default) or CollisionError.
	Collision string
	Sanitize  bool
	Logger    *slog.Logger
}

// Slug turns a page title into a file name stem: lower-cased, with spaces
// replaced by underscores. Nothing else is changed.
func Slug(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "_")
}

// PageName returns the file name of the page for title. A name that would
// leave the docs directory is a system error.
func PageName(title string) (string, error) {
	name := Slug(title) + PageExt
	if !filepath.IsLocal(name) || strings.ContainsAny(name, `/\`) {
		return "", output.NewSystemError(fmt.Sprintf(
			"page title %q does not map to a file inside the docs directory", title))
	}
	return name, nil
}

// Crew loads the documentation crew from the config directory.
func (d *Drafter) Crew() (*crew.Crew, error) {
	agents, tasks, err := crew.LoadStage(d.ConfigDir, crew.DocumentationAgentsFile, crew.DocumentationTasksFile)
	if err != nil {
		return nil, err
	}

	capabilities := []string{fstools.ToolListDirectory, fstools.ToolReadFile}
	writer, err := agents.Agent(AgentOverviewWriter, capabilities...)
	if err != nil {
		return nil, err
	}
	reviewer, err := agents.Agent(AgentDocumentationReviewer, capabilities...)
	if err != nil {
		return nil, err
	}

	draftTask, err := tasks.Task(TaskDraftDocumentation, writer)
	if err != nil {
		return nil, err
	}
	reviewTask, err := tasks.Task(TaskQAReviewDocumentation, reviewer)
	if err != nil {
		return nil, err
	}

	return &crew.Crew{
		Name:   "documentation",
		Agents: []crew.Agent{writer, reviewer},
		Tasks:  []crew.Task{draftTask, reviewTask},
	}, nil
}

// Inputs returns the crew inputs for one page.
func Inputs(repoPath string, p *plan.DocPlan, item plan.DocItem) crew.Inputs {
	return crew.Inputs{
		"repo_path":     repoPath,
		"title":         item.Title,
		"overview":      p.Overview,
		"description":   item.Description,
		"prerequisites": item.Prerequisites,
		"examples":      strings.Join(item.Examples, "\n"),
		"goal":          item.Goal,
	}
}

// Draft writes a page for every item of p, in order, calling written with
// each file path after it is on disk. Page names are checked before the
// first kickoff. After that the first failure stops the run; pages already
// written stay.
func (d *Drafter) Draft(ctx context.Context, repoPath string, p *plan.DocPlan, written func(path string)) error {
	names := make([]string, len(p.Docs))
	for i, item := range p.Docs {
		name, err := PageName(item.Title)
		if err != nil {
			return err
		}
		names[i] = name
	}

	c, err := d.Crew()
	if err != nil {
		return err
	}

	docsDir := filepath.Join(repoPath, d.docsDir())
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		return output.NewSystemErrorWithCause("creating docs directory "+docsDir, err)
	}

	seen := make(map[string]string, len(p.Docs))
	for i, item := range p.Docs {
		path := filepath.Join(docsDir, names[i])

		if prev, ok := seen[path]; ok {
			if d.Collision == CollisionError {
				return output.NewConflictError(fmt.Sprintf(
					"pages %q and %q both map to %s", prev, item.Title, path))
			}
			d.logger().Warn("page overwrites an earlier page", "path", path, "title", item.Title, "previous", prev)
		}
		seen[path] = item.Title

		d.logger().Info("drafting page", "title", item.Title, "path", path)
		result, err := d.Runner.Kickoff(ctx, c, Inputs(repoPath, p, item))
		if err != nil {
			return err
		}

		content := result.Raw
		if d.Sanitize {
			content = Sanitize(content) + "\n"
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return output.NewSystemErrorWithCause("writing "+path, err)
		}

		if written != nil {
			written(path)
		}
	}
	return nil
}

func (d *Drafter) docsDir() string {
	if d.DocsDir == "" {
		return DefaultDocsDir
	}
	return d.DocsDir
}

func (d *Drafter) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}

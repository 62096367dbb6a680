// Package crew defines agent crews and the engine that runs them.
//
// A crew is an ordered list of tasks, each assigned to an agent. Agents and
// tasks are loaded from YAML definition files; their prompt text may refer
// to crew inputs as {placeholder}. A Runner executes a crew and returns the
// raw text of every task, the last of which is the crew's result.
package crew

import (
	"context"
	"fmt"
	"regexp"

	"github.com/gorewood/docflow/internal/output"
)

// Agent is a persona that carries out tasks.
type Agent struct {
	Name      string
	Role      string
	Goal      string
	Backstory string
	// Capabilities names the tools the agent may call.
	Capabilities []string
}

// Task is one unit of work in a crew.
type Task struct {
	Name           string
	Description    string
	ExpectedOutput string
	Agent          Agent
	// OutputFormat, when set, is appended to the prompt to constrain the
	// shape of the answer.
	OutputFormat string
}

// Crew is an ordered set of agents and the tasks they run in sequence.
type Crew struct {
	Name   string
	Agents []Agent
	Tasks  []Task
}

// Inputs are the named values substituted into prompt templates.
type Inputs map[string]string

// TaskOutput is the raw output of one task.
type TaskOutput struct {
	Task  string
	Agent string
	Raw   string
}

// Result holds the outputs of a kickoff. Raw is the final task's output.
type Result struct {
	RunID string
	Raw   string
	Tasks []TaskOutput
}

// Runner executes crews. The production Runner is Engine; tests substitute
// fakes.
type Runner interface {
	Kickoff(ctx context.Context, c *Crew, inputs Inputs) (*Result, error)
}

// Validate checks that the crew can be run.
func (c *Crew) Validate() error {
	if len(c.Tasks) == 0 {
		return output.NewUserError(fmt.Sprintf("crew %s has no tasks", c.Name))
	}
	for _, t := range c.Tasks {
		if t.Agent.Name == "" {
			return output.NewUserError(fmt.Sprintf("task %s in crew %s has no agent", t.Name, c.Name))
		}
	}
	return nil
}

var placeholderRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Interpolate replaces {key} with inputs[key] for every key present in
// inputs. Unknown placeholders and other braces are left as they are.
// Substituted values are not scanned again.
func Interpolate(tmpl string, inputs Inputs) string {
	if len(inputs) == 0 {
		return tmpl
	}
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		if v, ok := inputs[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

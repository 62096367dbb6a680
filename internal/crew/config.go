package crew

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/docflow/internal/output"
)

// Definition file names under the config directory.
const (
	PlannerAgentsFile       = "planner_agents.yaml"
	PlannerTasksFile        = "planner_tasks.yaml"
	DocumentationAgentsFile = "documentation_agents.yaml"
	DocumentationTasksFile  = "documentation_tasks.yaml"
)

// DefinitionFiles lists every definition file a full run needs.
var DefinitionFiles = []string{
	PlannerAgentsFile,
	PlannerTasksFile,
	DocumentationAgentsFile,
	DocumentationTasksFile,
}

// AgentConfig is one agent entry in an agents file.
type AgentConfig struct {
	Role      string `yaml:"role"`
	Goal      string `yaml:"goal"`
	Backstory string `yaml:"backstory"`
}

// TaskConfig is one task entry in a tasks file.
type TaskConfig struct {
	Description    string `yaml:"description"`
	ExpectedOutput string `yaml:"expected_output"`
	Agent          string `yaml:"agent,omitempty"`
}

// AgentConfigs maps agent names to their definitions.
type AgentConfigs struct {
	path    string
	entries map[string]AgentConfig
}

// TaskConfigs maps task names to their definitions.
type TaskConfigs struct {
	path    string
	entries map[string]TaskConfig
}

// LoadAgents reads an agents definition file.
func LoadAgents(path string) (*AgentConfigs, error) {
	entries, err := loadDefinitions[AgentConfig](path)
	if err != nil {
		return nil, err
	}
	return &AgentConfigs{path: path, entries: entries}, nil
}

// LoadTasks reads a tasks definition file.
func LoadTasks(path string) (*TaskConfigs, error) {
	entries, err := loadDefinitions[TaskConfig](path)
	if err != nil {
		return nil, err
	}
	return &TaskConfigs{path: path, entries: entries}, nil
}

// Agent builds the named agent with the given capabilities.
func (a *AgentConfigs) Agent(name string, capabilities ...string) (Agent, error) {
	cfg, ok := a.entries[name]
	if !ok {
		return Agent{}, output.NewUserError(fmt.Sprintf("agent %q is not defined in %s", name, a.path))
	}
	return Agent{
		Name:         name,
		Role:         cfg.Role,
		Goal:         cfg.Goal,
		Backstory:    cfg.Backstory,
		Capabilities: capabilities,
	}, nil
}

// Task builds the named task assigned to agent. When the definition names
// an agent, it must match.
func (t *TaskConfigs) Task(name string, agent Agent) (Task, error) {
	cfg, ok := t.entries[name]
	if !ok {
		return Task{}, output.NewUserError(fmt.Sprintf("task %q is not defined in %s", name, t.path))
	}
	if cfg.Agent != "" && cfg.Agent != agent.Name {
		return Task{}, output.NewUserError(fmt.Sprintf(
			"task %q in %s is assigned to %q, expected %q", name, t.path, cfg.Agent, agent.Name))
	}
	return Task{
		Name:           name,
		Description:    cfg.Description,
		ExpectedOutput: cfg.ExpectedOutput,
		Agent:          agent,
	}, nil
}

// Names returns the defined agent names.
func (a *AgentConfigs) Names() []string { return sortedKeys(a.entries) }

// Names returns the defined task names.
func (t *TaskConfigs) Names() []string { return sortedKeys(t.entries) }

func loadDefinitions[T any](path string) (map[string]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, output.NewUserErrorWithCause(fmt.Sprintf(
				"crew definition file %s is missing (run 'docflow init' to create the defaults)", path), err)
		}
		return nil, output.NewUserErrorWithCause("reading crew definition file "+path, err)
	}

	var entries map[string]T
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, output.NewUserErrorWithCause("parsing crew definition file "+path, err)
	}
	if len(entries) == 0 {
		return nil, output.NewUserError(fmt.Sprintf("crew definition file %s defines nothing", path))
	}
	return entries, nil
}

// LoadStage reads an agents file and a tasks file from dir.
func LoadStage(dir, agentsFile, tasksFile string) (*AgentConfigs, *TaskConfigs, error) {
	agents, err := LoadAgents(filepath.Join(dir, agentsFile))
	if err != nil {
		return nil, nil, err
	}
	tasks, err := LoadTasks(filepath.Join(dir, tasksFile))
	if err != nil {
		return nil, nil, err
	}
	return agents, tasks, nil
}

func sortedKeys[T any](m map[string]T) []string {
	return slices.Sorted(maps.Keys(m))
}

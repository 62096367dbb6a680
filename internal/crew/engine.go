package crew

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/gorewood/docflow/internal/output"
)

// DefaultMaxToolRounds bounds the model/tool loop of a single task.
const DefaultMaxToolRounds = 25

// ToolFactory returns the tools available for a kickoff, typically rooted
// at inputs["repo_path"].
type ToolFactory func(inputs Inputs) []tool.BaseTool

// Engine runs crews against a tool-calling chat model. Each task is a
// compiled graph: init -> model <-> tools -> finalize.
type Engine struct {
	Model         model.ToolCallingChatModel
	Tools         ToolFactory
	MaxToolRounds int
	Logger        *slog.Logger

	graphOnce sync.Once
	graph     compose.Runnable[*taskRun, string]
	graphErr  error
}

// NewEngine returns an Engine with default limits.
func NewEngine(m model.ToolCallingChatModel, tools ToolFactory, logger *slog.Logger) *Engine {
	return &Engine{Model: m, Tools: tools, MaxToolRounds: DefaultMaxToolRounds, Logger: logger}
}

// taskRun is the graph input for one task.
type taskRun struct {
	Task      Task
	Inputs    Inputs
	Prior     []TaskOutput
	Tools     []tool.BaseTool
	RunID     string
	MaxRounds int
}

type taskState struct {
	Run           *taskRun
	ChatModel     model.BaseChatModel
	Messages      []*schema.Message
	LastAssistant *schema.Message
	ToolRounds    int
}

// Kickoff runs the crew's tasks in order. Each task sees the outputs of the
// tasks before it.
func (e *Engine) Kickoff(ctx context.Context, c *Crew, inputs Inputs) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	graph, err := e.getGraph()
	if err != nil {
		return nil, output.NewSystemErrorWithCause("building agent graph", err)
	}

	runID := uuid.NewString()
	log := e.logger().With("run_id", runID, "crew", c.Name)
	log.Info("crew kickoff", "tasks", len(c.Tasks))

	var available []tool.BaseTool
	if e.Tools != nil {
		available = e.Tools(inputs)
	}

	maxRounds := e.MaxToolRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxToolRounds
	}

	result := &Result{RunID: runID}
	for _, task := range c.Tasks {
		tools, err := selectTools(ctx, available, task.Agent.Capabilities)
		if err != nil {
			return nil, output.NewSystemErrorWithCause("resolving tools for task "+task.Name, err)
		}

		log.Debug("task started", "task", task.Name, "agent", task.Agent.Name, "tools", len(tools))
		raw, err := graph.Invoke(ctx, &taskRun{
			Task:      task,
			Inputs:    inputs,
			Prior:     slices.Clone(result.Tasks),
			Tools:     tools,
			RunID:     runID,
			MaxRounds: maxRounds,
		}, compose.WithRuntimeMaxSteps(2*maxRounds+4))
		if err != nil {
			log.Warn("task failed", "task", task.Name, "error", err)
			return nil, output.NewSystemErrorWithCause(fmt.Sprintf("task %s failed", task.Name), err)
		}
		log.Debug("task finished", "task", task.Name, "bytes", len(raw))

		result.Tasks = append(result.Tasks, TaskOutput{Task: task.Name, Agent: task.Agent.Name, Raw: raw})
		result.Raw = raw
	}
	return result, nil
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

func (e *Engine) getGraph() (compose.Runnable[*taskRun, string], error) {
	e.graphOnce.Do(func() {
		e.graph, e.graphErr = e.buildGraph(context.Background())
	})
	return e.graph, e.graphErr
}

func (e *Engine) buildGraph(ctx context.Context) (compose.Runnable[*taskRun, string], error) {
	if e.Model == nil {
		return nil, fmt.Errorf("chat model not configured")
	}

	toolsNode, err := compose.NewToolNode(ctx, &compose.ToolsNodeConfig{
		// Tools are supplied per invocation with compose.WithToolList.
		Tools:               nil,
		ExecuteSequentially: true,
		UnknownToolsHandler: func(_ context.Context, name, _ string) (string, error) {
			b, _ := json.Marshal(map[string]any{"error": fmt.Sprintf("unknown tool: %s", strings.TrimSpace(name))})
			return string(b), nil
		},
	})
	if err != nil {
		return nil, err
	}

	graph := compose.NewGraph[*taskRun, string]()

	if err := graph.AddLambdaNode("init", compose.InvokableLambda(func(ctx context.Context, run *taskRun) (*taskState, error) {
		infos := make([]*schema.ToolInfo, 0, len(run.Tools))
		for _, t := range run.Tools {
			info, err := t.Info(ctx)
			if err != nil {
				return nil, err
			}
			infos = append(infos, info)
		}

		var chatModel model.BaseChatModel = e.Model
		if len(infos) > 0 {
			withTools, err := e.Model.WithTools(infos)
			if err != nil {
				return nil, fmt.Errorf("binding tools: %w", err)
			}
			chatModel = withTools
		}

		return &taskState{
			Run:       run,
			ChatModel: chatModel,
			Messages: []*schema.Message{
				schema.SystemMessage(systemPrompt(run.Task.Agent, run.Inputs)),
				schema.UserMessage(userPrompt(run.Task, run.Inputs, run.Prior)),
			},
		}, nil
	}), compose.WithNodeName("crew.init")); err != nil {
		return nil, err
	}

	if err := graph.AddLambdaNode("model", compose.InvokableLambda(func(ctx context.Context, st *taskState) (*taskState, error) {
		msg, err := st.ChatModel.Generate(ctx, st.Messages)
		if err != nil {
			return nil, fmt.Errorf("model call: %w", err)
		}
		if msg == nil {
			return nil, fmt.Errorf("empty model response")
		}
		st.LastAssistant = msg
		st.Messages = append(st.Messages, msg)
		return st, nil
	}), compose.WithNodeName("crew.model")); err != nil {
		return nil, err
	}

	if err := graph.AddLambdaNode("tools", compose.InvokableLambda(func(ctx context.Context, st *taskState) (*taskState, error) {
		e.logger().Debug("tool calls", "run_id", st.Run.RunID, "task", st.Run.Task.Name,
			"round", st.ToolRounds+1, "calls", toolCallNames(st.LastAssistant))
		msgs, err := toolsNode.Invoke(ctx, st.LastAssistant, compose.WithToolList(st.Run.Tools...))
		if err != nil {
			return nil, err
		}
		st.Messages = append(st.Messages, msgs...)
		st.ToolRounds++
		return st, nil
	}), compose.WithNodeName("crew.tools")); err != nil {
		return nil, err
	}

	if err := graph.AddLambdaNode("finalize", compose.InvokableLambda(func(_ context.Context, st *taskState) (string, error) {
		content := strings.TrimSpace(st.LastAssistant.Content)
		if content == "" {
			return "", fmt.Errorf("model returned no content for task %s", st.Run.Task.Name)
		}
		return content, nil
	}), compose.WithNodeName("crew.finalize")); err != nil {
		return nil, err
	}

	if err := graph.AddEdge(compose.START, "init"); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("init", "model"); err != nil {
		return nil, err
	}
	branch := func(_ context.Context, st *taskState) (string, error) {
		if len(st.LastAssistant.ToolCalls) == 0 {
			return "finalize", nil
		}
		if st.ToolRounds >= st.Run.MaxRounds {
			return "", fmt.Errorf("task %s exceeded %d tool rounds", st.Run.Task.Name, st.Run.MaxRounds)
		}
		return "tools", nil
	}
	if err := graph.AddBranch("model", compose.NewGraphBranch(branch, map[string]bool{"tools": true, "finalize": true})); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("tools", "model"); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("finalize", compose.END); err != nil {
		return nil, err
	}

	return graph.Compile(ctx, compose.WithGraphName("crew_task_graph"))
}

// selectTools keeps the tools whose names are in capabilities.
func selectTools(ctx context.Context, available []tool.BaseTool, capabilities []string) ([]tool.BaseTool, error) {
	if len(capabilities) == 0 {
		return nil, nil
	}
	var selected []tool.BaseTool
	for _, t := range available {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, err
		}
		if slices.Contains(capabilities, info.Name) {
			selected = append(selected, t)
		}
	}
	return selected, nil
}

func toolCallNames(msg *schema.Message) []string {
	names := make([]string, len(msg.ToolCalls))
	for i, call := range msg.ToolCalls {
		names[i] = call.Function.Name
	}
	return names
}

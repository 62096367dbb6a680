package crew

import "strings"

func systemPrompt(agent Agent, inputs Inputs) string {
	var b strings.Builder
	b.WriteString("You are ")
	b.WriteString(strings.TrimSpace(Interpolate(agent.Role, inputs)))
	b.WriteString(".\n")
	if goal := strings.TrimSpace(Interpolate(agent.Goal, inputs)); goal != "" {
		b.WriteString("\nYour goal: ")
		b.WriteString(goal)
		b.WriteString("\n")
	}
	if backstory := strings.TrimSpace(Interpolate(agent.Backstory, inputs)); backstory != "" {
		b.WriteString("\n")
		b.WriteString(backstory)
		b.WriteString("\n")
	}
	if len(agent.Capabilities) > 0 {
		b.WriteString("\nUse the tools available to you (")
		b.WriteString(strings.Join(agent.Capabilities, ", "))
		b.WriteString(") to inspect the repository before answering. ")
		b.WriteString("When you are done, reply with the final answer only.\n")
	}
	return b.String()
}

func userPrompt(task Task, inputs Inputs, prior []TaskOutput) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(Interpolate(task.Description, inputs)))
	b.WriteString("\n")

	if len(prior) > 0 {
		b.WriteString("\nContext from earlier tasks:\n")
		for _, p := range prior {
			b.WriteString("\n### ")
			b.WriteString(p.Task)
			b.WriteString("\n")
			b.WriteString(p.Raw)
			b.WriteString("\n")
		}
	}

	if expected := strings.TrimSpace(Interpolate(task.ExpectedOutput, inputs)); expected != "" {
		b.WriteString("\nExpected output:\n")
		b.WriteString(expected)
		b.WriteString("\n")
	}
	if task.OutputFormat != "" {
		b.WriteString("\n")
		b.WriteString(task.OutputFormat)
		b.WriteString("\n")
	}
	return b.String()
}

package taskgen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/josephgoksu/planwing/internal/llm"
)

const systemPromptTemplate = `You are a senior project planner who turns a request into actionable tasks.

RULES:
- Produce between {{.Min}} and {{.Max}} tasks. Aim for exactly {{.Count}} tasks.
- Titles are imperative and at most 80 characters.
- Descriptions are optional and at most 240 characters.
- Priority is optional and one of LOW, MEDIUM, HIGH.
- Never include IDs, numbering or references to existing task IDs.
- Respond with JSON only: no prose and no markdown.
- Respond in {{.Language}}.
{{- if .Context}}

PROJECT CONTEXT:
{{.Context}}
{{- end}}`

const userPromptTemplate = `Intent: {{.Prompt}}
{{- if .Constraints}}
Constraints: {{.Constraints}}
{{- end}}
Desired task count: {{.Count}}
Language: {{.Language}}

Return JSON matching this schema:
{"tasks":[{"title":"string (max 80 chars)","description":"string (max 240 chars, optional)","priority":"LOW|MEDIUM|HIGH (optional)"}]}`

var (
	systemTmpl = template.Must(template.New("system").Parse(systemPromptTemplate))
	userTmpl   = template.Must(template.New("user").Parse(userPromptTemplate))
)

type promptData struct {
	Min, Max    int
	Count       int
	Language    string
	Context     string
	Prompt      string
	Constraints string
}

// buildMessages renders the system and user messages for one request.
func buildMessages(prompt, constraints, contextBlock, language string, count int) ([]llm.Message, error) {
	data := promptData{
		Min:         MinTasks,
		Max:         MaxTasks,
		Count:       count,
		Language:    language,
		Context:     contextBlock,
		Prompt:      strings.TrimSpace(prompt),
		Constraints: constraints,
	}

	var sys, user bytes.Buffer
	if err := systemTmpl.Execute(&sys, data); err != nil {
		return nil, fmt.Errorf("render system prompt: %w", err)
	}
	if err := userTmpl.Execute(&user, data); err != nil {
		return nil, fmt.Errorf("render user prompt: %w", err)
	}
	return []llm.Message{llm.SystemMessage(sys.String()), llm.UserMessage(user.String())}, nil
}

// contextTaskTitles is how many recent task titles the context block lists.
const contextTaskTitles = 5

func formatContextBlock(name, goal string, titles []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Project: %s\n", name)
	if goal != "" {
		fmt.Fprintf(&sb, "Goal: %s\n", goal)
	}
	if len(titles) == 0 {
		sb.WriteString("Recent tasks: none")
		return sb.String()
	}
	sb.WriteString("Recent tasks:")
	for _, t := range titles {
		fmt.Fprintf(&sb, "\n- %s", t)
	}
	return sb.String()
}

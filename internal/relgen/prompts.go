package relgen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/josephgoksu/planwing/internal/llm"
	"github.com/josephgoksu/planwing/internal/task"
)

const relationshipSystemTemplate = `You link the tasks of a single plan with dependency relationships.

RULES:
- Reference tasks only as task_1 to task_{{.Count}}. Never use any other reference.
- Allowed types: {{.Types}}.
- Propose at most {{.Max}} relationships.
- Prefer short local hops between neighbouring steps and never skip steps.
- Never propose circular, self or duplicate relationships.
- Prefer BLOCKS for ordering. Use RELATES_TO only for weak association.
- Respond with a JSON array only, for example:
  [{"sourceTask":"task_1","targetTask":"task_2","type":"BLOCKS"}]
- Respond in {{.Language}}.`

const relationshipUserTemplate = `Intent: {{.Prompt}}

Tasks:
{{- range .Tasks}}
{{.Ref}}: {{.Title}}{{if .Description}} ({{.Description}}){{end}}
{{- end}}`

var (
	relSystemTmpl = template.Must(template.New("relationships-system").Parse(relationshipSystemTemplate))
	relUserTmpl   = template.Must(template.New("relationships-user").Parse(relationshipUserTemplate))
)

type promptTask struct {
	Ref         string
	Title       string
	Description string
}

type relationshipPromptData struct {
	Count    int
	Max      int
	Types    string
	Language string
	Prompt   string
	Tasks    []promptTask
}

func buildRelationshipMessages(prompt string, tasks []task.GeneratedTask, maxRelationships int, language string) ([]llm.Message, error) {
	types := make([]string, 0, len(task.RelationshipTypes()))
	for _, t := range task.RelationshipTypes() {
		types = append(types, string(t))
	}

	data := relationshipPromptData{
		Count:    len(tasks),
		Max:      maxRelationships,
		Types:    strings.Join(types, ", "),
		Language: language,
		Prompt:   strings.TrimSpace(prompt),
		Tasks:    make([]promptTask, 0, len(tasks)),
	}
	for i, t := range tasks {
		data.Tasks = append(data.Tasks, promptTask{
			Ref:         task.Placeholder(i + 1),
			Title:       t.Title,
			Description: t.Description,
		})
	}

	var sys, user bytes.Buffer
	if err := relSystemTmpl.Execute(&sys, data); err != nil {
		return nil, fmt.Errorf("render relationship system prompt: %w", err)
	}
	if err := relUserTmpl.Execute(&user, data); err != nil {
		return nil, fmt.Errorf("render relationship user prompt: %w", err)
	}
	return []llm.Message{llm.SystemMessage(sys.String()), llm.UserMessage(user.String())}, nil
}

// ResolutionInstructions tells callers how to turn a preview into real links.
const ResolutionInstructions = "Relationships reference tasks as task_N, the 1-based position in the tasks list. " +
	"Send the tasks and relationships unchanged to confirm_task_relationships; " +
	"placeholders are replaced with the IDs assigned when the tasks are created."

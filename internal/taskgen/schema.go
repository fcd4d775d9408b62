package taskgen

import (
	"fmt"

	"github.com/josephgoksu/planwing/internal/llm"
	"github.com/josephgoksu/planwing/internal/task"
)

// TasksSchema is the structured-output contract for generated task lists.
// Validation normalizes the list first so priorities are upper-cased and
// text is trimmed before limits are checked.
func TasksSchema() llm.Schema {
	return llm.Schema{
		Name: "tasks",
		Definition: map[string]any{
			"type":     "object",
			"required": []string{"tasks"},
			"properties": map[string]any{
				"tasks": map[string]any{
					"type":     "array",
					"minItems": MinTasks,
					"maxItems": MaxTasks,
					"items": map[string]any{
						"type":     "object",
						"required": []string{"title"},
						"properties": map[string]any{
							"title":       map[string]any{"type": "string", "maxLength": 80},
							"description": map[string]any{"type": "string", "maxLength": 240},
							"priority":    map[string]any{"type": "string", "enum": []string{"LOW", "MEDIUM", "HIGH"}},
						},
					},
				},
			},
		},
		Validate: validateTaskList,
	}
}

func validateTaskList(v any) error {
	list, ok := v.(*task.GeneratedTaskList)
	if !ok {
		return fmt.Errorf("unexpected output type %T", v)
	}
	list.Normalize()
	return list.Validate().Err()
}

// FallbackTasks is returned whenever model output cannot be trusted.
func FallbackTasks() []task.GeneratedTask {
	return []task.GeneratedTask{
		{Title: "Analyze requirements", Priority: task.PriorityHigh},
		{Title: "Create implementation plan", Priority: task.PriorityHigh},
		{Title: "Execute implementation", Priority: task.PriorityMedium},
	}
}

// Package mcp exposes task and relationship generation as Model Context
// Protocol tools served over stdio.
package mcp

import (
	"github.com/josephgoksu/planwing/internal/task"
)

// Tool names.
const (
	ToolGenerateTasks        = "generate_tasks_from_requirement"
	ToolRelationshipsPreview = "generate_task_relationships_preview"
	ToolConfirmRelationships = "confirm_task_relationships"
)

// GenerateTasksParams defines the parameters for generate_tasks_from_requirement.
type GenerateTasksParams struct {
	// Prompt is the free-text requirement. Required.
	Prompt string `json:"prompt"`

	// ProjectID attaches project context to the prompt. Optional.
	ProjectID string `json:"projectId,omitempty"`

	// Options carries generation hints; taskCount sets the desired count (3-12).
	Options map[string]any `json:"options,omitempty"`

	// UserID identifies the caller for project access checks. Optional.
	UserID string `json:"userId,omitempty"`

	// Locale selects the response language (e.g. "en", "fr"). Optional.
	Locale string `json:"locale,omitempty"`
}

// RelationshipsPreviewParams defines the parameters for generate_task_relationships_preview.
type RelationshipsPreviewParams struct {
	Prompt    string         `json:"prompt"`
	ProjectID string         `json:"projectId,omitempty"`
	Options   map[string]any `json:"options,omitempty"`

	// GenerateRelationships disables relationship proposals when false (default: true).
	GenerateRelationships *bool `json:"generateRelationships,omitempty"`

	UserID string `json:"userId,omitempty"`
	Locale string `json:"locale,omitempty"`
}

// ConfirmRelationshipsParams defines the parameters for confirm_task_relationships.
type ConfirmRelationshipsParams struct {
	// Tasks are the previewed drafts, in preview order. Required.
	Tasks []task.GeneratedTask `json:"tasks"`

	// Relationships reference tasks as task_N. Optional.
	Relationships []task.TaskRelationshipPreview `json:"relationships,omitempty"`

	// ProjectID receives the created tasks. Required.
	ProjectID string `json:"projectId"`

	UserID string `json:"userId,omitempty"`
	Locale string `json:"locale,omitempty"`
}

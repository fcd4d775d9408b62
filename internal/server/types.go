package server

import (
	"github.com/josephgoksu/planwing/internal/llm"
	"github.com/josephgoksu/planwing/internal/task"
)

// GenerateTasksRequest is the payload for /api/ai/tasks/generate
type GenerateTasksRequest struct {
	Prompt    string         `json:"prompt"`
	ProjectID string         `json:"projectId,omitempty"`
	Locale    string         `json:"locale,omitempty"`
	Options   map[string]any `json:"options,omitempty"`
}

// PreviewRequest is the payload for /api/ai/relationships/preview
type PreviewRequest struct {
	Prompt                string         `json:"prompt"`
	ProjectID             string         `json:"projectId,omitempty"`
	GenerateRelationships *bool          `json:"generateRelationships,omitempty"`
	Options               map[string]any `json:"options,omitempty"`
	Locale                string         `json:"locale,omitempty"`
}

// ConfirmRequest is the payload for /api/ai/relationships/confirm
type ConfirmRequest struct {
	Tasks         []task.GeneratedTask           `json:"tasks"`
	Relationships []task.TaskRelationshipPreview `json:"relationships,omitempty"`
	ProjectID     string                         `json:"projectId"`
	Locale        string                         `json:"locale,omitempty"`
}

// InfoResponse is the response for /api/ai/info
type InfoResponse struct {
	Provider          string           `json:"provider"`
	Model             string           `json:"model"`
	AIFeaturesEnabled bool             `json:"aiFeaturesEnabled"`
	Capabilities      llm.Capabilities `json:"capabilities"`
	KnownModels       []string         `json:"knownModels"`
	Version           string           `json:"version"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

package relgen

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/josephgoksu/planwing/internal/task"
	"github.com/josephgoksu/planwing/internal/taskgen"
)

// PreviewRequest is the input of Preview.
type PreviewRequest struct {
	Prompt                string         `json:"prompt" yaml:"prompt" validate:"required,nonempty,max=4000"`
	ProjectID             string         `json:"projectId,omitempty" yaml:"projectId,omitempty"`
	GenerateRelationships *bool          `json:"generateRelationships,omitempty" yaml:"generateRelationships,omitempty"`
	Options               map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// PreviewMeta describes how a preview was produced.
type PreviewMeta struct {
	PlaceholderMode        bool   `json:"placeholderMode" yaml:"placeholderMode"`
	ResolutionInstructions string `json:"resolutionInstructions" yaml:"resolutionInstructions"`
	Model                  string `json:"model" yaml:"model"`
	Provider               string `json:"provider" yaml:"provider"`
	Degraded               bool   `json:"degraded" yaml:"degraded"`
	Locale                 string `json:"locale" yaml:"locale"`
}

// PreviewResult holds generated tasks and placeholder relationships among them.
type PreviewResult struct {
	Tasks         []task.GeneratedTask           `json:"tasks" yaml:"tasks"`
	Relationships []task.TaskRelationshipPreview `json:"relationships" yaml:"relationships"`
	Meta          PreviewMeta                    `json:"meta" yaml:"meta"`
}

// Preview generates tasks and proposes relationships among them. Relationship
// failures never fail the preview: they yield an empty list.
func (s *Service) Preview(ctx context.Context, req PreviewRequest, userID, locale string) (*PreviewResult, error) {
	if !s.generator.Enabled() {
		return nil, taskgen.ErrServiceUnavailable
	}
	if res := task.ValidateStruct(req); !res.Valid {
		return nil, fmt.Errorf("%w: %s", taskgen.ErrInvalidRequest, res.ErrorSummary())
	}

	options := req.Options
	if options == nil {
		options = map[string]any{"taskCount": DefaultPreviewTaskCount}
	}
	generated, err := s.generator.Generate(ctx, taskgen.GenerateRequest{
		Prompt:    req.Prompt,
		ProjectID: req.ProjectID,
		Locale:    locale,
		Options:   options,
	}, userID)
	if err != nil {
		return nil, err
	}

	relationships := []task.TaskRelationshipPreview{}
	if req.GenerateRelationships == nil || *req.GenerateRelationships {
		relationships = s.proposeRelationships(ctx, req.Prompt, generated.Tasks, generated.Meta.Locale)
	}

	return &PreviewResult{
		Tasks:         generated.Tasks,
		Relationships: relationships,
		Meta: PreviewMeta{
			PlaceholderMode:        true,
			ResolutionInstructions: ResolutionInstructions,
			Model:                  generated.Meta.Model,
			Provider:               generated.Meta.Provider,
			Degraded:               generated.Meta.Degraded,
			Locale:                 generated.Meta.Locale,
		},
	}, nil
}

func (s *Service) proposeRelationships(ctx context.Context, prompt string, tasks []task.GeneratedTask, locale string) []task.TaskRelationshipPreview {
	empty := []task.TaskRelationshipPreview{}
	if len(tasks) < 2 {
		return empty
	}

	limit := MaxRelationships(len(tasks))
	msgs, err := buildRelationshipMessages(prompt, tasks, limit, taskgen.LanguageName(locale))
	if err != nil {
		s.logger.Warn("relationship prompt failed", zap.Error(err))
		return empty
	}

	text, err := s.llm.Call(ctx, "relgen.preview", msgs)
	if err != nil {
		s.logger.Warn("relationship generation failed", zap.Error(err))
		return empty
	}

	rels, err := ParseRelationships(text, limit)
	if err != nil {
		s.logger.Warn("relationship output rejected", zap.Error(err))
		return empty
	}
	return rels
}

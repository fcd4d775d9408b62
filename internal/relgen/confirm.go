package relgen

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/josephgoksu/planwing/internal/metrics"
	"github.com/josephgoksu/planwing/internal/task"
	"github.com/josephgoksu/planwing/internal/taskgen"
	"github.com/josephgoksu/planwing/internal/tracing"
)

// ConfirmRequest carries a preview back for persistence.
type ConfirmRequest struct {
	Tasks         []task.GeneratedTask           `json:"tasks" yaml:"tasks" validate:"required,min=1,dive"`
	Relationships []task.TaskRelationshipPreview `json:"relationships,omitempty" yaml:"relationships,omitempty" validate:"omitempty,dive"`
	ProjectID     string                         `json:"projectId" yaml:"projectId" validate:"required,nonempty"`
}

// ConfirmResult reports persisted tasks and the outcome of every link attempt.
// CreatedLinks + RejectedLinks always equals TotalLinks.
type ConfirmResult struct {
	Tasks                 []task.Task                 `json:"tasks" yaml:"tasks"`
	Relationships         []task.ResolvedRelationship `json:"relationships" yaml:"relationships"`
	TotalLinks            int                         `json:"totalLinks" yaml:"totalLinks"`
	CreatedLinks          int                         `json:"createdLinks" yaml:"createdLinks"`
	RejectedLinks         int                         `json:"rejectedLinks" yaml:"rejectedLinks"`
	RejectedRelationships []task.RejectedRelationship `json:"rejectedRelationships" yaml:"rejectedRelationships"`
}

// Confirm persists the tasks in one bulk call, resolves placeholders to the
// created IDs and attempts every link independently.
func (s *Service) Confirm(ctx context.Context, req ConfirmRequest, userID, locale string) (*ConfirmResult, error) {
	if !s.generator.Enabled() {
		return nil, taskgen.ErrServiceUnavailable
	}

	list := task.GeneratedTaskList{Tasks: req.Tasks}
	list.Normalize()
	req.Tasks = list.Tasks
	if res := task.ValidateStruct(req); !res.Valid {
		return nil, fmt.Errorf("%w: %s", taskgen.ErrInvalidRequest, res.ErrorSummary())
	}

	return tracing.Run(ctx, s.tracer, "relgen.confirm", func(ctx context.Context) (*ConfirmResult, error) {
		return s.confirm(ctx, req, userID, locale)
	})
}

func (s *Service) confirm(ctx context.Context, req ConfirmRequest, userID, locale string) (*ConfirmResult, error) {
	created, err := s.tasks.CreateMany(ctx, req.ProjectID, userID, req.Tasks)
	if err != nil {
		return nil, fmt.Errorf("create tasks: %w", err)
	}

	result := &ConfirmResult{
		Tasks:                 created,
		Relationships:         []task.ResolvedRelationship{},
		TotalLinks:            len(req.Relationships),
		RejectedRelationships: []task.RejectedRelationship{},
	}

	for _, preview := range req.Relationships {
		rel := task.ResolvedRelationship{
			SourceTaskID: resolveReference(preview.SourceTask, created),
			TargetTaskID: resolveReference(preview.TargetTask, created),
			Type:         preview.Type,
			ProjectID:    req.ProjectID,
		}

		if err := s.links.CreateLink(ctx, rel, userID); err != nil {
			code := ClassifyLinkError(err.Error())
			result.RejectedRelationships = append(result.RejectedRelationships, task.RejectedRelationship{
				SourceTaskID:  rel.SourceTaskID,
				TargetTaskID:  rel.TargetTaskID,
				Type:          rel.Type,
				ReasonCode:    code,
				ReasonMessage: err.Error(),
			})
			metrics.IncrementRelationshipLink("rejected", string(code))
			s.logger.Info("relationship rejected",
				zap.String("source", rel.SourceTaskID),
				zap.String("target", rel.TargetTaskID),
				zap.String("type", string(rel.Type)),
				zap.String("reason", string(code)),
				zap.Error(err))
			continue
		}

		result.Relationships = append(result.Relationships, rel)
		metrics.IncrementRelationshipLink("created", "")
	}

	result.CreatedLinks = len(result.Relationships)
	result.RejectedLinks = len(result.RejectedRelationships)

	s.logger.Info("relationships confirmed",
		zap.String("project_id", req.ProjectID),
		zap.String("locale", locale),
		zap.Int("tasks", len(created)),
		zap.Int("total", result.TotalLinks),
		zap.Int("created", result.CreatedLinks),
		zap.Int("rejected", result.RejectedLinks))
	return result, nil
}

// resolveReference maps task_N to the ID of the Nth created task.
// Anything that does not resolve is returned verbatim.
func resolveReference(ref string, created []task.Task) string {
	n, ok := task.ParsePlaceholder(ref)
	if !ok || n > len(created) {
		return ref
	}
	return created[n-1].ID
}

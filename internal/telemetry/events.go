package telemetry

import (
	"context"
	"errors"

	"github.com/josephgoksu/planwing/internal/llm"
	"github.com/josephgoksu/planwing/internal/projectctx"
	"github.com/josephgoksu/planwing/internal/taskgen"
)

// Event names. Properties never include prompts, titles, project or user IDs.
const (
	EventCommandExecuted        = "command_executed"
	EventTasksGenerated         = "tasks_generated"
	EventRelationshipsPreviewed = "relationships_previewed"
	EventRelationshipsConfirmed = "relationships_confirmed"
)

// CommandProps describes one CLI invocation.
func CommandProps(command string, durationMs int64, err error) Properties {
	p := Properties{
		"command":     command,
		"duration_ms": durationMs,
		"success":     err == nil,
	}
	if err != nil {
		p["error_type"] = errorType(err)
	}
	return p
}

// GenerationProps describes a generation result.
func GenerationProps(provider string, taskCount int, degraded bool, locale string) Properties {
	return Properties{
		"provider":   provider,
		"task_count": taskCount,
		"degraded":   degraded,
		"locale":     locale,
	}
}

// PreviewProps describes a relationship preview.
func PreviewProps(provider string, taskCount, relationshipCount int, degraded bool) Properties {
	return Properties{
		"provider":           provider,
		"task_count":         taskCount,
		"relationship_count": relationshipCount,
		"degraded":           degraded,
	}
}

// ConfirmProps describes a confirmation. rejectedByReason maps reason codes to counts.
func ConfirmProps(taskCount, total, created, rejected int, rejectedByReason map[string]int) Properties {
	p := Properties{
		"task_count":     taskCount,
		"total_links":    total,
		"created_links":  created,
		"rejected_links": rejected,
	}
	for reason, n := range rejectedByReason {
		p["rejected_"+reason] = n
	}
	return p
}

// errorType reduces err to a coarse category. Messages are never sent.
func errorType(err error) string {
	var (
		timeout *llm.ProviderTimeoutError
		auth    *llm.ProviderAuthError
		bad     *llm.ProviderBadRequestError
	)
	switch {
	case errors.Is(err, taskgen.ErrServiceUnavailable):
		return "ai_disabled"
	case errors.Is(err, taskgen.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, projectctx.ErrProjectNotFound):
		return "project_not_found"
	case errors.As(err, &timeout):
		return "provider_timeout"
	case errors.As(err, &auth):
		return "provider_auth"
	case errors.As(err, &bad):
		return "provider_bad_request"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "other"
	}
}

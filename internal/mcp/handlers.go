package mcp

import (
	"context"
	"errors"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/josephgoksu/planwing/internal/relgen"
	"github.com/josephgoksu/planwing/internal/taskgen"
)

// TaskGenerator generates task drafts.
type TaskGenerator interface {
	Generate(ctx context.Context, req taskgen.GenerateRequest, userID string) (*taskgen.GenerateTasksResult, error)
}

// RelationshipService previews and confirms relationships.
type RelationshipService interface {
	Preview(ctx context.Context, req relgen.PreviewRequest, userID, locale string) (*relgen.PreviewResult, error)
	Confirm(ctx context.Context, req relgen.ConfirmRequest, userID, locale string) (*relgen.ConfirmResult, error)
}

// jsonResponse wraps a value as JSON text in an MCP tool result.
func jsonResponse(v any) (*mcpsdk.CallToolResultFor[any], error) {
	text, err := FormatJSON(v)
	if err != nil {
		return errorResponse(err)
	}
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: text}},
	}, nil
}

// errorResponse wraps an error in an MCP tool result with IsError=true.
// Tool errors travel in the result, not as protocol errors, so the calling
// model can read them and correct its input.
func errorResponse(err error) (*mcpsdk.CallToolResultFor[any], error) {
	text := FormatError(err.Error())
	if errors.Is(err, taskgen.ErrInvalidRequest) {
		text = FormatValidationError("arguments", strings.TrimPrefix(err.Error(), taskgen.ErrInvalidRequest.Error()+": "))
	}
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: text}},
		IsError: true,
	}, nil
}

func validationResponse(field, message string) (*mcpsdk.CallToolResultFor[any], error) {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: FormatValidationError(field, message)}},
		IsError: true,
	}, nil
}

// HandleGenerateTasks runs generate_tasks_from_requirement.
func HandleGenerateTasks(ctx context.Context, gen TaskGenerator, params GenerateTasksParams) (*mcpsdk.CallToolResultFor[any], error) {
	if strings.TrimSpace(params.Prompt) == "" {
		return validationResponse("prompt", "prompt is required")
	}
	result, err := gen.Generate(ctx, taskgen.GenerateRequest{
		Prompt:    params.Prompt,
		ProjectID: params.ProjectID,
		Locale:    params.Locale,
		Options:   params.Options,
	}, params.UserID)
	if err != nil {
		return errorResponse(err)
	}
	return jsonResponse(result)
}

// HandleRelationshipsPreview runs generate_task_relationships_preview.
func HandleRelationshipsPreview(ctx context.Context, rel RelationshipService, params RelationshipsPreviewParams) (*mcpsdk.CallToolResultFor[any], error) {
	if strings.TrimSpace(params.Prompt) == "" {
		return validationResponse("prompt", "prompt is required")
	}
	result, err := rel.Preview(ctx, relgen.PreviewRequest{
		Prompt:                params.Prompt,
		ProjectID:             params.ProjectID,
		GenerateRelationships: params.GenerateRelationships,
		Options:               params.Options,
	}, params.UserID, params.Locale)
	if err != nil {
		return errorResponse(err)
	}
	return jsonResponse(result)
}

// HandleConfirmRelationships runs confirm_task_relationships.
func HandleConfirmRelationships(ctx context.Context, rel RelationshipService, params ConfirmRelationshipsParams) (*mcpsdk.CallToolResultFor[any], error) {
	if strings.TrimSpace(params.ProjectID) == "" {
		return validationResponse("projectId", "projectId is required")
	}
	if len(params.Tasks) == 0 {
		return validationResponse("tasks", "at least one task is required")
	}
	result, err := rel.Confirm(ctx, relgen.ConfirmRequest{
		Tasks:         params.Tasks,
		Relationships: params.Relationships,
		ProjectID:     params.ProjectID,
	}, params.UserID, params.Locale)
	if err != nil {
		return errorResponse(err)
	}
	return jsonResponse(result)
}

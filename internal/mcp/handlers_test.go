package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/planwing/internal/relgen"
	"github.com/josephgoksu/planwing/internal/task"
	"github.com/josephgoksu/planwing/internal/taskgen"
)

type stubGenerator struct {
	err error
	got taskgen.GenerateRequest
}

func (s *stubGenerator) Generate(_ context.Context, req taskgen.GenerateRequest, _ string) (*taskgen.GenerateTasksResult, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &taskgen.GenerateTasksResult{
		Tasks: taskgen.FallbackTasks(),
		Meta:  taskgen.Meta{Model: "m", Provider: "p", Locale: "en"},
	}, nil
}

type stubRelationships struct {
	err      error
	locale   string
	userID   string
	confirms []relgen.ConfirmRequest
}

func (s *stubRelationships) Preview(_ context.Context, req relgen.PreviewRequest, userID, locale string) (*relgen.PreviewResult, error) {
	s.userID, s.locale = userID, locale
	if s.err != nil {
		return nil, s.err
	}
	return &relgen.PreviewResult{
		Tasks: taskgen.FallbackTasks(),
		Relationships: []task.TaskRelationshipPreview{
			{SourceTask: "task_1", TargetTask: "task_2", Type: task.RelBlocks},
		},
		Meta: relgen.PreviewMeta{PlaceholderMode: true, ResolutionInstructions: relgen.ResolutionInstructions},
	}, nil
}

func (s *stubRelationships) Confirm(_ context.Context, req relgen.ConfirmRequest, userID, locale string) (*relgen.ConfirmResult, error) {
	s.confirms = append(s.confirms, req)
	if s.err != nil {
		return nil, s.err
	}
	return &relgen.ConfirmResult{TotalLinks: len(req.Relationships), CreatedLinks: len(req.Relationships)}, nil
}

func resultText(t *testing.T, res *mcpsdk.CallToolResultFor[any]) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestHandleGenerateTasks(t *testing.T) {
	gen := &stubGenerator{}
	res, err := HandleGenerateTasks(context.Background(), gen, GenerateTasksParams{
		Prompt:  "plan a launch",
		Locale:  "fr",
		Options: map[string]any{"taskCount": 4},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "fr", gen.got.Locale)

	var decoded taskgen.GenerateTasksResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &decoded))
	assert.Len(t, decoded.Tasks, 3)
}

func TestHandleGenerateTasks_MissingPrompt(t *testing.T) {
	res, err := HandleGenerateTasks(context.Background(), &stubGenerator{}, GenerateTasksParams{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "`prompt`")
}

func TestHandleGenerateTasks_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"disabled", taskgen.ErrServiceUnavailable, "AI features are disabled"},
		{"validation", fmt.Errorf("%w: Prompt is too long", taskgen.ErrInvalidRequest), "Validation Error"},
		{"other", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := HandleGenerateTasks(context.Background(), &stubGenerator{err: tt.err}, GenerateTasksParams{Prompt: "x"})
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(t, res), tt.want)
		})
	}
}

func TestHandleRelationshipsPreview(t *testing.T) {
	rel := &stubRelationships{}
	res, err := HandleRelationshipsPreview(context.Background(), rel, RelationshipsPreviewParams{
		Prompt: "plan",
		UserID: "u1",
		Locale: "en",
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "u1", rel.userID)
	assert.Contains(t, resultText(t, res), `"placeholderMode": true`)
}

func TestHandleConfirmRelationships(t *testing.T) {
	rel := &stubRelationships{}

	res, err := HandleConfirmRelationships(context.Background(), rel, ConfirmRelationshipsParams{Tasks: taskgen.FallbackTasks()})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "projectId")

	res, err = HandleConfirmRelationships(context.Background(), rel, ConfirmRelationshipsParams{ProjectID: "p1"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Empty(t, rel.confirms)

	res, err = HandleConfirmRelationships(context.Background(), rel, ConfirmRelationshipsParams{
		ProjectID: "p1",
		Tasks:     taskgen.FallbackTasks(),
		Relationships: []task.TaskRelationshipPreview{
			{SourceTask: "task_1", TargetTask: "task_2", Type: task.RelBlocks},
		},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.Len(t, rel.confirms, 1)
	assert.Contains(t, resultText(t, res), `"totalLinks": 1`)
}

func TestNewServer(t *testing.T) {
	server := NewServer(&stubGenerator{}, &stubRelationships{}, "test", nil)
	assert.NotNil(t, server)
}

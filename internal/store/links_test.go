package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/planwing/internal/task"
)

func seedTasks(t *testing.T, s *SQLiteStore, projectID string, n int) []task.Task {
	t.Helper()
	drafts := make([]task.GeneratedTask, 0, n)
	for i := 0; i < n; i++ {
		drafts = append(drafts, task.GeneratedTask{Title: "Step"})
	}
	created, err := s.CreateMany(context.Background(), projectID, "u1", drafts)
	require.NoError(t, err)
	return created
}

func link(src, dst task.Task, typ task.RelationshipType) task.ResolvedRelationship {
	return task.ResolvedRelationship{SourceTaskID: src.ID, TargetTaskID: dst.ID, Type: typ, ProjectID: src.ProjectID}
}

func TestCreateLink(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedProject(t, s)
	ts := seedTasks(t, s, p.ID, 4)

	require.NoError(t, s.CreateLink(ctx, link(ts[0], ts[1], task.RelBlocks), "u1"))
	require.NoError(t, s.CreateLink(ctx, link(ts[1], ts[2], task.RelBlocks), "u1"))

	links, err := s.ListLinks(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, links, 2)
}

func TestCreateLink_Rejections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedProject(t, s)
	ts := seedTasks(t, s, p.ID, 4)

	other, err := s.CreateProject(ctx, "Gemini", "", "u1")
	require.NoError(t, err)
	foreign := seedTasks(t, s, other.ID, 1)[0]

	require.NoError(t, s.CreateLink(ctx, link(ts[0], ts[1], task.RelBlocks), "u1"))
	require.NoError(t, s.CreateLink(ctx, link(ts[1], ts[2], task.RelBlocks), "u1"))
	require.NoError(t, s.CreateLink(ctx, link(ts[0], ts[3], task.RelSplitsTo), "u1"))

	tests := []struct {
		name string
		rel  task.ResolvedRelationship
		want error
	}{
		{"self", link(ts[0], ts[0], task.RelBlocks), ErrSelfReference},
		{"unknown task", task.ResolvedRelationship{SourceTaskID: ts[0].ID, TargetTaskID: "task_9", Type: task.RelBlocks}, ErrTaskNotFound},
		{"cross project", link(ts[0], foreign, task.RelRelatesTo), ErrCrossProject},
		{"request project mismatch", task.ResolvedRelationship{SourceTaskID: ts[0].ID, TargetTaskID: ts[1].ID, Type: task.RelRelatesTo, ProjectID: other.ID}, ErrCrossProject},
		{"duplicate", link(ts[0], ts[1], task.RelBlocks), ErrDuplicateLink},
		{"mirrored duplicate", link(ts[1], ts[0], task.RelIsBlockedBy), ErrDuplicateLink},
		{"cycle", link(ts[2], ts[0], task.RelBlocks), ErrCircular},
		{"cycle via inverse", link(ts[0], ts[2], task.RelIsBlockedBy), ErrCircular},
		{"second split parent", link(ts[1], ts[3], task.RelSplitsTo), ErrSplitHierarchy},
		{"invalid type", link(ts[0], ts[2], "DEPENDS_ON"), ErrInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CreateLink(ctx, tt.rel, "u1")
			require.ErrorIs(t, err, tt.want)
		})
	}

	links, err := s.ListLinks(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, links, 3)
}

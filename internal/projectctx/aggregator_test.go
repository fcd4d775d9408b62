package projectctx

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/planwing/internal/task"
)

type fakeSources struct {
	project    *task.Project
	projectErr error
	tasks      []task.Task
	tasksErr   error
	team       []task.TeamMember
	teamErr    error
	history    []task.HistoryEvent
	historyErr error

	historyLimit int
}

func (f *fakeSources) GetProject(ctx context.Context, projectID, userID string) (*task.Project, error) {
	return f.project, f.projectErr
}

func (f *fakeSources) RecentHistory(ctx context.Context, projectID string, limit int) ([]task.HistoryEvent, error) {
	f.historyLimit = limit
	return f.history, f.historyErr
}

func (f *fakeSources) ListTasks(ctx context.Context, projectID, userID string) ([]task.Task, error) {
	return f.tasks, f.tasksErr
}

func (f *fakeSources) ListMembers(ctx context.Context, projectID string) ([]task.TeamMember, error) {
	return f.team, f.teamErr
}

func newFake() *fakeSources {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &fakeSources{
		project: &task.Project{ID: "p1", Name: "Apollo", Description: "Ship it"},
		tasks: []task.Task{
			{ID: "t1", Title: "Low", Priority: task.PriorityLow, UpdatedAt: now},
			{ID: "t2", Title: "High", Priority: task.PriorityHigh, UpdatedAt: now},
		},
		team:    []task.TeamMember{{UserID: "u1", Name: "Ada", Role: "owner"}},
		history: []task.HistoryEvent{{ID: "h1", Action: "task.created"}},
	}
}

func newService(f *fakeSources, opts ...Option) *Service {
	return NewService(f, f, f, opts...)
}

func TestGetAggregatedContext_Complete(t *testing.T) {
	f := newFake()
	agg, err := newService(f).GetAggregatedContext(context.Background(), "p1", "u1")
	require.NoError(t, err)
	require.NotNil(t, agg)

	assert.Equal(t, "Apollo", agg.Project.Name)
	require.Len(t, agg.Tasks, 2)
	assert.Equal(t, "t2", agg.Tasks[0].ID)
	assert.Equal(t, "Apollo", agg.Tasks[0].ProjectName)
	assert.Len(t, agg.Team, 1)
	assert.Len(t, agg.History, 1)
	assert.False(t, agg.Meta.Degraded)
	assert.False(t, agg.Meta.TasksTruncated)
	assert.Equal(t, 2, agg.Meta.TasksReturned)
	assert.Equal(t, DefaultHistoryWindow, agg.Meta.HistoryWindow)
	assert.Equal(t, DefaultHistoryWindow, f.historyLimit)
}

func TestGetAggregatedContext_ProjectMissing(t *testing.T) {
	f := newFake()
	f.project = nil
	agg, err := newService(f).GetAggregatedContext(context.Background(), "p1", "u1")
	assert.NoError(t, err)
	assert.Nil(t, agg)

	f.projectErr = errors.New("db down")
	agg, err = newService(f).GetAggregatedContext(context.Background(), "p1", "u1")
	assert.NoError(t, err)
	assert.Nil(t, agg)
}

func TestGetAggregatedContext_HistoryUnavailableDegrades(t *testing.T) {
	for name, mutate := range map[string]func(*fakeSources){
		"error": func(f *fakeSources) { f.historyErr = errors.New("timeout") },
		"empty": func(f *fakeSources) { f.history = nil },
	} {
		t.Run(name, func(t *testing.T) {
			f := newFake()
			mutate(f)
			agg, err := newService(f).GetAggregatedContext(context.Background(), "p1", "u1")
			require.NoError(t, err)
			require.NotNil(t, agg)
			assert.True(t, agg.Meta.Degraded)
			assert.Empty(t, agg.History)
			assert.NotNil(t, agg.History)
			assert.Len(t, agg.Tasks, 2)
			assert.Len(t, agg.Team, 1)
		})
	}
}

func TestGetAggregatedContext_TaskAndTeamFailuresDegrade(t *testing.T) {
	f := newFake()
	f.tasksErr = errors.New("boom")
	f.teamErr = errors.New("boom")

	agg, err := newService(f).GetAggregatedContext(context.Background(), "p1", "u1")
	require.NoError(t, err)
	assert.True(t, agg.Meta.Degraded)
	assert.Empty(t, agg.Tasks)
	assert.Empty(t, agg.Team)
	assert.Equal(t, 0, agg.Meta.TasksReturned)
}

func TestGetAggregatedContext_TruncatesTasks(t *testing.T) {
	f := newFake()
	f.tasks = nil
	for i := 0; i < 7; i++ {
		f.tasks = append(f.tasks, task.Task{ID: fmt.Sprintf("t%d", i), Title: fmt.Sprintf("Task %d", i), Priority: task.PriorityMedium})
	}

	agg, err := newService(f, WithTaskLimit(5)).GetAggregatedContext(context.Background(), "p1", "u1")
	require.NoError(t, err)
	assert.True(t, agg.Meta.TasksTruncated)
	assert.Equal(t, 5, agg.Meta.TasksReturned)
	assert.Len(t, agg.Tasks, 5)
}

func TestGetTasks_CapsAtServiceLimit(t *testing.T) {
	f := newFake()
	tasks, truncated, err := newService(f, WithTaskLimit(1)).GetTasks(context.Background(), "p1", "u1", 50)
	require.NoError(t, err)
	assert.True(t, truncated)
	require.Len(t, tasks, 1)
	assert.Equal(t, "t2", tasks[0].ID)
}

func TestGetProject_NotFound(t *testing.T) {
	f := newFake()
	f.project = nil
	_, err := newService(f).GetProject(context.Background(), "p1", "u1")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

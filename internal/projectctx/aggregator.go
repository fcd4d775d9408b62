// Package projectctx assembles a bounded, best-effort snapshot of a project
// for prompting. It only reads; missing pieces degrade the snapshot.
package projectctx

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/josephgoksu/planwing/internal/task"
)

const (
	// DefaultTaskLimit caps the tasks included in a snapshot.
	DefaultTaskLimit = 200

	// DefaultHistoryWindow is the number of recent history events fetched.
	DefaultHistoryWindow = 20
)

// ErrProjectNotFound is returned by sources when a project does not exist.
var ErrProjectNotFound = errors.New("project not found")

// ProjectSource reads project metadata and activity.
type ProjectSource interface {
	GetProject(ctx context.Context, projectID, userID string) (*task.Project, error)
	RecentHistory(ctx context.Context, projectID string, limit int) ([]task.HistoryEvent, error)
}

// TaskSource lists the persisted tasks of a project.
type TaskSource interface {
	ListTasks(ctx context.Context, projectID, userID string) ([]task.Task, error)
}

// TeamSource lists the members of a project.
type TeamSource interface {
	ListMembers(ctx context.Context, projectID string) ([]task.TeamMember, error)
}

// Meta describes how complete an AggregatedContext is.
type Meta struct {
	Degraded       bool `json:"degraded" yaml:"degraded"`
	TasksTruncated bool `json:"tasksTruncated" yaml:"tasksTruncated"`
	TasksReturned  int  `json:"tasksReturned" yaml:"tasksReturned"`
	HistoryWindow  int  `json:"historyWindow" yaml:"historyWindow"`
}

// AggregatedContext is the project snapshot handed to generators.
type AggregatedContext struct {
	Project *task.Project       `json:"project,omitempty" yaml:"project,omitempty"`
	Tasks   []task.TaskContext  `json:"tasks" yaml:"tasks"`
	Team    []task.TeamMember   `json:"team" yaml:"team"`
	History []task.HistoryEvent `json:"history" yaml:"history"`
	Meta    Meta                `json:"meta" yaml:"meta"`
}

// Service reads context through the three adapters.
type Service struct {
	projects      ProjectSource
	tasks         TaskSource
	team          TeamSource
	logger        *zap.Logger
	taskLimit     int
	historyWindow int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for sub-fetch warnings.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithTaskLimit overrides DefaultTaskLimit.
func WithTaskLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.taskLimit = n
		}
	}
}

// WithHistoryWindow overrides DefaultHistoryWindow.
func WithHistoryWindow(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historyWindow = n
		}
	}
}

// NewService creates a context service.
func NewService(projects ProjectSource, tasks TaskSource, team TeamSource, opts ...Option) *Service {
	s := &Service{
		projects:      projects,
		tasks:         tasks,
		team:          team,
		logger:        zap.NewNop(),
		taskLimit:     DefaultTaskLimit,
		historyWindow: DefaultHistoryWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetProject returns the project or ErrProjectNotFound.
func (s *Service) GetProject(ctx context.Context, projectID, userID string) (*task.Project, error) {
	p, err := s.projects.GetProject(ctx, projectID, userID)
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", projectID, err)
	}
	if p == nil {
		return nil, fmt.Errorf("get project %s: %w", projectID, ErrProjectNotFound)
	}
	return p, nil
}

// GetTasks returns normalized tasks sorted by priority, recency and title,
// capped at limit (the service default when limit <= 0). truncated reports
// whether more tasks existed.
func (s *Service) GetTasks(ctx context.Context, projectID, userID string, limit int) (tasks []task.TaskContext, truncated bool, err error) {
	if limit <= 0 || limit > s.taskLimit {
		limit = s.taskLimit
	}
	raw, err := s.tasks.ListTasks(ctx, projectID, userID)
	if err != nil {
		return nil, false, fmt.Errorf("list tasks for %s: %w", projectID, err)
	}

	out := make([]task.TaskContext, 0, len(raw))
	for _, t := range raw {
		out = append(out, task.NewTaskContext(t, ""))
	}
	task.SortTaskContexts(out)

	if len(out) > limit {
		return out[:limit], true, nil
	}
	return out, false, nil
}

// GetTeam returns the project members.
func (s *Service) GetTeam(ctx context.Context, projectID string) ([]task.TeamMember, error) {
	members, err := s.team.ListMembers(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list members for %s: %w", projectID, err)
	}
	return members, nil
}

// GetAggregatedContext returns nil without an error when the project cannot
// be found. Task, team and history failures never fail the call; they leave
// an empty slice and set Meta.Degraded.
func (s *Service) GetAggregatedContext(ctx context.Context, projectID, userID string) (*AggregatedContext, error) {
	project, err := s.GetProject(ctx, projectID, userID)
	if err != nil {
		s.logger.Debug("no project context", zap.String("project_id", projectID), zap.Error(err))
		return nil, nil
	}

	agg := &AggregatedContext{
		Project: project,
		Tasks:   []task.TaskContext{},
		Team:    []task.TeamMember{},
		History: []task.HistoryEvent{},
		Meta:    Meta{HistoryWindow: s.historyWindow},
	}

	tasks, truncated, err := s.GetTasks(ctx, projectID, userID, s.taskLimit)
	if err != nil {
		s.logger.Warn("task context unavailable", zap.String("project_id", projectID), zap.Error(err))
		agg.Meta.Degraded = true
	} else {
		for i := range tasks {
			tasks[i].ProjectName = project.Name
		}
		agg.Tasks = tasks
		agg.Meta.TasksTruncated = truncated
	}
	agg.Meta.TasksReturned = len(agg.Tasks)

	team, err := s.GetTeam(ctx, projectID)
	if err != nil {
		s.logger.Warn("team context unavailable", zap.String("project_id", projectID), zap.Error(err))
		agg.Meta.Degraded = true
	} else if team != nil {
		agg.Team = team
	}

	history, err := s.projects.RecentHistory(ctx, projectID, s.historyWindow)
	switch {
	case err != nil:
		s.logger.Warn("history unavailable", zap.String("project_id", projectID), zap.Error(err))
		agg.Meta.Degraded = true
	case len(history) == 0:
		agg.Meta.Degraded = true
	default:
		if len(history) > s.historyWindow {
			history = history[:s.historyWindow]
		}
		agg.History = history
	}

	return agg, nil
}

// Package taskgen turns a free-text request into a validated list of task
// drafts, with a fixed fallback when the model output cannot be trusted.
package taskgen

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/josephgoksu/planwing/internal/config"
	"github.com/josephgoksu/planwing/internal/llm"
	"github.com/josephgoksu/planwing/internal/metrics"
	"github.com/josephgoksu/planwing/internal/redact"
	"github.com/josephgoksu/planwing/internal/task"
	"github.com/josephgoksu/planwing/internal/utils"
)

// ErrServiceUnavailable is returned by every entry point while AI features are disabled.
var ErrServiceUnavailable = errors.New("AI features are disabled")

// ErrInvalidRequest wraps request validation failures.
var ErrInvalidRequest = errors.New("invalid request")

// ContextReader is the slice of the context aggregator the generator needs.
type ContextReader interface {
	GetProject(ctx context.Context, projectID, userID string) (*task.Project, error)
	GetTasks(ctx context.Context, projectID, userID string, limit int) ([]task.TaskContext, bool, error)
}

// GenerateRequest is the input of Generate.
type GenerateRequest struct {
	Prompt    string         `json:"prompt" yaml:"prompt" validate:"required,nonempty,max=4000"`
	ProjectID string         `json:"projectId,omitempty" yaml:"projectId,omitempty"`
	Locale    string         `json:"locale,omitempty" yaml:"locale,omitempty"`
	Options   map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// Meta describes how a result was produced.
type Meta struct {
	Model    string         `json:"model" yaml:"model"`
	Provider string         `json:"provider" yaml:"provider"`
	Degraded bool           `json:"degraded" yaml:"degraded"`
	Locale   string         `json:"locale" yaml:"locale"`
	Options  map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// GenerateTasksResult is the output of Generate.
type GenerateTasksResult struct {
	Tasks []task.GeneratedTask `json:"tasks" yaml:"tasks"`
	Meta  Meta                 `json:"meta" yaml:"meta"`
}

// Generator produces task drafts through the LLM service.
type Generator struct {
	llm      *llm.Service
	contexts ContextReader
	enabled  bool
	env      config.Environment
	logger   *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger; the default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithEnvironment controls how project text is redacted before prompting.
func WithEnvironment(env config.Environment) Option {
	return func(g *Generator) { g.env = env }
}

// NewGenerator builds a Generator. contexts may be nil, in which case
// project context is never attached.
func NewGenerator(svc *llm.Service, contexts ContextReader, enabled bool, opts ...Option) *Generator {
	g := &Generator{
		llm:      svc,
		contexts: contexts,
		enabled:  enabled,
		env:      config.EnvDevelopment,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Enabled reports whether the feature flag allows generation.
func (g *Generator) Enabled() bool { return g.enabled }

// Info reports the provider and model answering requests.
func (g *Generator) Info() llm.ProviderInfo { return g.llm.Info() }

// Generate produces between MinTasks and MaxTasks drafts for req.
// Unusable model output degrades to FallbackTasks; transport failures are returned.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest, userID string) (*GenerateTasksResult, error) {
	if !g.enabled {
		return nil, ErrServiceUnavailable
	}
	if res := task.ValidateStruct(req); !res.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, res.ErrorSummary())
	}

	locale := ResolveLocale(req.Locale)
	count := ResolveTaskCount(req.Options)
	degraded := false

	contextBlock := ""
	if req.ProjectID != "" {
		block, err := g.buildContextBlock(ctx, req.ProjectID, userID)
		if err != nil {
			g.logger.Warn("project context unavailable",
				zap.String("project_id", req.ProjectID),
				zap.Error(err))
			degraded = true
		} else {
			contextBlock = block
		}
	}

	msgs, err := buildMessages(req.Prompt, RenderConstraints(req.Options), contextBlock, LanguageName(locale), count)
	if err != nil {
		return nil, err
	}

	info := g.llm.Info()
	g.logger.Debug("generating tasks",
		zap.String("provider", info.Provider),
		zap.String("model", info.Model),
		zap.String("prompt", redact.SanitizeText(req.Prompt, g.env)),
		zap.Int("task_count", count),
		zap.String("locale", locale))

	source := "model"
	tasks, err := g.complete(ctx, msgs)
	if err != nil {
		if !llm.IsOutputError(err) {
			return nil, fmt.Errorf("generate tasks: %w", err)
		}
		g.logger.Warn("model output rejected, using fallback tasks",
			zap.String("provider", info.Provider),
			zap.Error(err))
		tasks = FallbackTasks()
		degraded = true
		source = "fallback"
	}
	metrics.AddGeneratedTasks(source, len(tasks))

	return &GenerateTasksResult{
		Tasks: tasks,
		Meta: Meta{
			Model:    info.Model,
			Provider: info.Provider,
			Degraded: degraded,
			Locale:   locale,
			Options:  req.Options,
		},
	}, nil
}

// complete runs the native structured path when the provider has one and
// parses free text locally otherwise. Shape failures surface as *llm.OutputError.
func (g *Generator) complete(ctx context.Context, msgs []llm.Message) ([]task.GeneratedTask, error) {
	schema := TasksSchema()
	if g.llm.SupportsStructuredOutput() {
		list, err := llm.CallStructured[task.GeneratedTaskList](ctx, g.llm, "taskgen.generate", msgs, schema)
		if err != nil {
			return nil, err
		}
		return list.Tasks, nil
	}

	text, err := g.llm.Call(ctx, "taskgen.generate", msgs)
	if err != nil {
		return nil, err
	}
	list, err := utils.ExtractAndParseJSON[task.GeneratedTaskList](text)
	if err != nil {
		return nil, &llm.OutputError{Schema: schema.Name, Raw: text, Err: err}
	}
	if err := schema.Validate(&list); err != nil {
		return nil, &llm.OutputError{Schema: schema.Name, Raw: text, Err: err}
	}
	return list.Tasks, nil
}

func (g *Generator) buildContextBlock(ctx context.Context, projectID, userID string) (string, error) {
	if g.contexts == nil {
		return "", errors.New("no context source configured")
	}
	project, err := g.contexts.GetProject(ctx, projectID, userID)
	if err != nil {
		return "", fmt.Errorf("load project: %w", err)
	}
	tasks, _, err := g.contexts.GetTasks(ctx, projectID, userID, contextTaskTitles)
	if err != nil {
		return "", fmt.Errorf("load tasks: %w", err)
	}

	titles := make([]string, 0, len(tasks))
	for _, t := range tasks {
		titles = append(titles, t.Title)
	}
	goal := ""
	if project.Description != "" {
		goal = redact.SanitizeText(project.Description, g.env)
	}
	return formatContextBlock(project.Name, goal, titles), nil
}

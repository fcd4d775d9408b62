// Package relgen implements the two-step preview and confirm protocol:
// tasks are generated together with placeholder relationships, and only on
// confirmation are tasks persisted and links created against real IDs.
package relgen

import (
	"context"

	"go.uber.org/zap"

	"github.com/josephgoksu/planwing/internal/llm"
	"github.com/josephgoksu/planwing/internal/task"
	"github.com/josephgoksu/planwing/internal/taskgen"
	"github.com/josephgoksu/planwing/internal/tracing"
)

// DefaultPreviewTaskCount is the task count requested when a preview has no options.
const DefaultPreviewTaskCount = 5

// TaskGenerator produces the task drafts a preview links together.
type TaskGenerator interface {
	Enabled() bool
	Generate(ctx context.Context, req taskgen.GenerateRequest, userID string) (*taskgen.GenerateTasksResult, error)
}

// TaskCreator persists drafts and returns the created tasks in submission order.
type TaskCreator interface {
	CreateMany(ctx context.Context, projectID, userID string, drafts []task.GeneratedTask) ([]task.Task, error)
}

// LinkCreator creates one link. It owns link validation and reports rule
// violations through the error message.
type LinkCreator interface {
	CreateLink(ctx context.Context, rel task.ResolvedRelationship, userID string) error
}

// Service runs previews and confirmations.
type Service struct {
	generator TaskGenerator
	llm       *llm.Service
	tasks     TaskCreator
	links     LinkCreator
	tracer    *tracing.Tracer
	logger    *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger; the default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTracer measures confirmations. Without it confirmations are not traced.
func WithTracer(t *tracing.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// NewService wires the generator, the LLM service used for relationship
// proposals, and the persistence collaborators used by Confirm.
func NewService(generator TaskGenerator, svc *llm.Service, tasks TaskCreator, links LinkCreator, opts ...Option) *Service {
	s := &Service{
		generator: generator,
		llm:       svc,
		tasks:     tasks,
		links:     links,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Package app wires configuration, persistence and the generation services
// into one container. CLI, MCP and HTTP entry points are thin adapters over it.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/josephgoksu/planwing/internal/config"
	"github.com/josephgoksu/planwing/internal/llm"
	"github.com/josephgoksu/planwing/internal/projectctx"
	"github.com/josephgoksu/planwing/internal/relgen"
	"github.com/josephgoksu/planwing/internal/store"
	"github.com/josephgoksu/planwing/internal/taskgen"
	"github.com/josephgoksu/planwing/internal/tracing"
)

// Context holds shared dependencies for all entry points.
type Context struct {
	Config        *config.AppConfig
	Logger        *zap.Logger
	Store         *store.SQLiteStore
	LLM           *llm.Service
	Projects      *projectctx.Service
	Generator     *taskgen.Generator
	Relationships *relgen.Service
}

type options struct {
	provider llm.Provider
	tracer   *tracing.Tracer
}

// Option customizes New.
type Option func(*options)

// WithProvider bypasses the provider factory.
func WithProvider(p llm.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithTracer replaces the default tracer.
func WithTracer(t *tracing.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// New opens the store, builds the provider and wires every service.
// The caller owns the returned Context and must Close it.
func New(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger, opts ...Option) (*Context, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.tracer == nil {
		o.tracer = tracing.New(tracing.WithLogger(logger.Named("tracing")))
	}

	provider := o.provider
	if provider == nil {
		p, err := llm.NewProvider(ctx, cfg.LLM.ProviderConfig())
		if err != nil {
			return nil, fmt.Errorf("create LLM provider: %w", err)
		}
		provider = p
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", cfg.Store.Path, err)
	}

	svc := llm.NewService(provider, o.tracer)
	projects := projectctx.NewService(st, st, st,
		projectctx.WithLogger(logger.Named("context")),
		projectctx.WithTaskLimit(cfg.Generation.ContextTaskLimit),
		projectctx.WithHistoryWindow(cfg.Generation.HistoryWindow))
	generator := taskgen.NewGenerator(svc, projects, cfg.AIFeaturesEnabled,
		taskgen.WithLogger(logger.Named("taskgen")),
		taskgen.WithEnvironment(cfg.Env))
	relationships := relgen.NewService(generator, svc, st, st,
		relgen.WithLogger(logger.Named("relgen")),
		relgen.WithTracer(o.tracer))

	info := provider.Info()
	logger.Debug("application ready",
		zap.String("provider", info.Provider),
		zap.String("model", info.Model),
		zap.Bool("ai_features_enabled", cfg.AIFeaturesEnabled),
		zap.String("store", cfg.Store.Path))

	return &Context{
		Config:        cfg,
		Logger:        logger,
		Store:         st,
		LLM:           svc,
		Projects:      projects,
		Generator:     generator,
		Relationships: relationships,
	}, nil
}

// Close releases the store.
func (c *Context) Close() error {
	return c.Store.Close()
}

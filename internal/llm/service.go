package llm

import (
	"context"

	"github.com/josephgoksu/planwing/internal/tracing"
)

// Service is the façade generators use to reach the active provider.
// Every call is wrapped in a tracing span named after the call site.
type Service struct {
	provider Provider
	tracer   *tracing.Tracer
}

// NewService wraps p. A nil tracer disables measurement.
func NewService(p Provider, tracer *tracing.Tracer) *Service {
	return &Service{provider: p, tracer: tracer}
}

// Info reports the provider and model answering requests.
func (s *Service) Info() ProviderInfo {
	return s.provider.Info()
}

// SupportsStructuredOutput reports whether the provider validates JSON natively.
func (s *Service) SupportsStructuredOutput() bool {
	return s.provider.SupportsStructuredOutput()
}

// Call sends messages and returns the raw completion text.
func (s *Service) Call(ctx context.Context, span string, messages []Message) (string, error) {
	return tracing.Run(ctx, s.tracer, span, func(ctx context.Context) (string, error) {
		return s.provider.Complete(ctx, messages)
	})
}

// CallStructured requests output matching schema and decodes it into T.
func CallStructured[T any](ctx context.Context, s *Service, span string, messages []Message, schema Schema) (T, error) {
	return tracing.Run(ctx, s.tracer, span, func(ctx context.Context) (T, error) {
		var out T
		err := s.provider.CompleteWithStructuredOutput(ctx, messages, schema, &out)
		return out, err
	})
}

// Package tracing measures the latency of LLM calls. Every wrapped operation
// gets an OpenTelemetry span, a Prometheus histogram sample and a debug log line.
package tracing

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/josephgoksu/planwing"

// Tracer bundles the span tracer, latency histogram and logger used by Run.
type Tracer struct {
	tracer   trace.Tracer
	duration *prometheus.HistogramVec
	logger   *zap.Logger
}

// Option configures a Tracer.
type Option func(*Tracer)

// WithTracerProvider replaces the global otel tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(t *Tracer) { t.tracer = tp.Tracer(instrumentationName) }
}

// WithLogger sets the logger for per-operation debug lines.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tracer) { t.logger = l }
}

// WithRegisterer registers the latency histogram on reg instead of the default registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(t *Tracer) { t.duration = newDurationVec(reg) }
}

// New creates a Tracer. Without options it uses the global tracer provider,
// the default Prometheus registry and a no-op logger.
func New(opts ...Option) *Tracer {
	t := &Tracer{
		tracer: otel.GetTracerProvider().Tracer(instrumentationName),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.duration == nil {
		t.duration = defaultDurationVec()
	}
	return t
}

// Nop returns a tracer that records nothing outside the process.
func Nop() *Tracer {
	return New(WithRegisterer(prometheus.NewRegistry()))
}

// Run executes fn inside a span named name. The start time is taken before fn
// runs and the duration is recorded whether fn succeeds or fails. The result
// and error of fn are returned untouched.
func Run[T any](ctx context.Context, t *Tracer, name string, fn func(context.Context) (T, error)) (result T, err error) {
	if t == nil {
		return fn(ctx)
	}

	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("operation", name)))
	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		status := "ok"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.SetAttributes(attribute.Int64("duration_ms", elapsed.Milliseconds()))
		span.End()

		t.duration.WithLabelValues(name, status).Observe(elapsed.Seconds())
		t.logger.Debug("operation finished",
			zap.String("operation", name),
			zap.String("status", status),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
	}()

	return fn(ctx)
}

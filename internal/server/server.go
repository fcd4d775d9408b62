// Package server exposes task and relationship generation over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/josephgoksu/planwing/internal/llm"
	"github.com/josephgoksu/planwing/internal/relgen"
	"github.com/josephgoksu/planwing/internal/taskgen"
)

// Generator is the task generation surface the API needs.
type Generator interface {
	Enabled() bool
	Info() llm.ProviderInfo
	Generate(ctx context.Context, req taskgen.GenerateRequest, userID string) (*taskgen.GenerateTasksResult, error)
}

// Relationships previews and confirms task relationships.
type Relationships interface {
	Preview(ctx context.Context, req relgen.PreviewRequest, userID, locale string) (*relgen.PreviewResult, error)
	Confirm(ctx context.Context, req relgen.ConfirmRequest, userID, locale string) (*relgen.ConfirmResult, error)
}

// Options configures the HTTP server.
type Options struct {
	Addr           string
	Version        string
	AllowedOrigins []string
}

// Server serves the planwing HTTP API.
type Server struct {
	generator     Generator
	relationships Relationships
	logger        *zap.Logger
	version       string
	origins       map[string]struct{}
	server        *http.Server
}

// New builds a Server. Call ListenAndServe to start it.
func New(opts Options, gen Generator, rel Relationships, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		generator:     gen,
		relationships: rel,
		logger:        logger,
		version:       opts.Version,
		origins:       make(map[string]struct{}, len(opts.AllowedOrigins)),
	}
	for _, o := range opts.AllowedOrigins {
		s.origins[o] = struct{}{}
	}
	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.registerRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
// within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, shutdownTimeout time.Duration) error {
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("API server listening", zap.String("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case err, ok := <-errChan:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown API server: %w", err)
	}
	return nil
}

package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/ai/tasks/generate", s.handleGenerateTasks)
	mux.HandleFunc("POST /api/ai/relationships/preview", s.handlePreviewRelationships)
	mux.HandleFunc("POST /api/ai/relationships/confirm", s.handleConfirmRelationships)
	mux.HandleFunc("GET /api/ai/info", s.handleInfo)

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return s.corsMiddleware(requestIDMiddleware(s.metricsMiddleware(s.recoveryMiddleware(mux))))
}

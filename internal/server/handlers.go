package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/josephgoksu/planwing/internal/llm"
	"github.com/josephgoksu/planwing/internal/relgen"
	"github.com/josephgoksu/planwing/internal/taskgen"
)

const (
	userIDHeader    = "X-User-ID"
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 1 << 20
)

// handleGenerateTasks
func (s *Server) handleGenerateTasks(w http.ResponseWriter, r *http.Request) {
	var req GenerateTasksRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.generator.Generate(r.Context(), taskgen.GenerateRequest{
		Prompt:    req.Prompt,
		ProjectID: req.ProjectID,
		Locale:    requestLocale(r, req.Locale),
		Options:   req.Options,
	}, r.Header.Get(userIDHeader))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, result)
}

// handlePreviewRelationships
func (s *Server) handlePreviewRelationships(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.relationships.Preview(r.Context(), relgen.PreviewRequest{
		Prompt:                req.Prompt,
		ProjectID:             req.ProjectID,
		GenerateRelationships: req.GenerateRelationships,
		Options:               req.Options,
	}, r.Header.Get(userIDHeader), requestLocale(r, req.Locale))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, result)
}

// handleConfirmRelationships
func (s *Server) handleConfirmRelationships(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.relationships.Confirm(r.Context(), relgen.ConfirmRequest{
		Tasks:         req.Tasks,
		Relationships: req.Relationships,
		ProjectID:     req.ProjectID,
	}, r.Header.Get(userIDHeader), requestLocale(r, req.Locale))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusCreated, result)
}

// handleInfo
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	info := s.generator.Info()
	caps, _ := llm.CapabilitiesFor(info.Provider)
	writeAPIJSON(w, http.StatusOK, InfoResponse{
		Provider:          info.Provider,
		Model:             info.Model,
		AIFeaturesEnabled: s.generator.Enabled(),
		Capabilities:      caps,
		KnownModels:       llm.ModelIDs(info.Provider),
		Version:           s.version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeAPIJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLocale prefers the explicit body field, then the first
// Accept-Language entry. Empty means the generator default.
func requestLocale(r *http.Request, explicit string) string {
	if explicit != "" {
		return explicit
	}
	header := r.Header.Get("Accept-Language")
	if header == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	return tags[0].String()
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}
	writeAPIJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}

func writeAPIJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

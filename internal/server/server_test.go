package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/planwing/internal/llm"
	"github.com/josephgoksu/planwing/internal/relgen"
	"github.com/josephgoksu/planwing/internal/task"
	"github.com/josephgoksu/planwing/internal/taskgen"
)

type stubGenerator struct {
	enabled bool
	panics  bool
	err     error
	req     taskgen.GenerateRequest
	userID  string
}

func (s *stubGenerator) Enabled() bool { return s.enabled }

func (s *stubGenerator) Info() llm.ProviderInfo {
	return llm.ProviderInfo{Provider: "openai", Model: "gpt-4o-mini"}
}

func (s *stubGenerator) Generate(_ context.Context, req taskgen.GenerateRequest, userID string) (*taskgen.GenerateTasksResult, error) {
	s.req, s.userID = req, userID
	if s.panics {
		panic("generator exploded")
	}
	if s.err != nil {
		return nil, s.err
	}
	return &taskgen.GenerateTasksResult{
		Tasks: taskgen.FallbackTasks(),
		Meta:  taskgen.Meta{Provider: "openai", Model: "gpt-4o-mini", Locale: taskgen.ResolveLocale(req.Locale), Options: req.Options},
	}, nil
}

type stubRelationships struct {
	err    error
	locale string
}

func (s *stubRelationships) Preview(_ context.Context, _ relgen.PreviewRequest, _, locale string) (*relgen.PreviewResult, error) {
	s.locale = locale
	if s.err != nil {
		return nil, s.err
	}
	return &relgen.PreviewResult{Tasks: taskgen.FallbackTasks(), Relationships: []task.TaskRelationshipPreview{}}, nil
}

func (s *stubRelationships) Confirm(_ context.Context, req relgen.ConfirmRequest, _, locale string) (*relgen.ConfirmResult, error) {
	s.locale = locale
	if s.err != nil {
		return nil, s.err
	}
	return &relgen.ConfirmResult{TotalLinks: len(req.Relationships)}, nil
}

func newTestServer(gen *stubGenerator, rel *stubRelationships) http.Handler {
	return New(Options{Addr: "127.0.0.1:0", Version: "test", AllowedOrigins: []string{"http://localhost:3000"}}, gen, rel, nil).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGenerateTasks(t *testing.T) {
	gen := &stubGenerator{enabled: true}
	h := newTestServer(gen, &stubRelationships{})

	rec := do(t, h, http.MethodPost, "/api/ai/tasks/generate",
		`{"prompt":"launch","options":{"taskCount":4}}`,
		map[string]string{userIDHeader: "u1", "Accept-Language": "fr-CA,fr;q=0.9,en;q=0.8"})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "u1", gen.userID)
	assert.Equal(t, "fr-CA", gen.req.Locale)
	assert.Equal(t, json.Number("4"), gen.req.Options["taskCount"])

	var res taskgen.GenerateTasksResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Len(t, res.Tasks, 3)
	assert.Equal(t, "fr-ca", res.Meta.Locale)
}

func TestGenerateTasks_BodyLocaleWins(t *testing.T) {
	gen := &stubGenerator{enabled: true}
	h := newTestServer(gen, &stubRelationships{})

	rec := do(t, h, http.MethodPost, "/api/ai/tasks/generate", `{"prompt":"launch","locale":"en"}`,
		map[string]string{"Accept-Language": "fr"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "en", gen.req.Locale)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"disabled", taskgen.ErrServiceUnavailable, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"validation", fmt.Errorf("%w: Prompt is required", taskgen.ErrInvalidRequest), http.StatusBadRequest, "INVALID_REQUEST"},
		{"timeout", fmt.Errorf("generate tasks: %w", &llm.ProviderTimeoutError{Provider: "openai", Err: context.DeadlineExceeded}), http.StatusGatewayTimeout, "PROVIDER_TIMEOUT"},
		{"auth", &llm.ProviderAuthError{Provider: "openai", Err: errors.New("401")}, http.StatusBadGateway, "PROVIDER_AUTH"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(&stubGenerator{enabled: true, err: tt.err}, &stubRelationships{})

			rec := do(t, h, http.MethodPost, "/api/ai/tasks/generate", `{"prompt":"launch"}`, nil)
			assert.Equal(t, tt.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestMalformedBody(t *testing.T) {
	h := newTestServer(&stubGenerator{enabled: true}, &stubRelationships{})

	rec := do(t, h, http.MethodPost, "/api/ai/tasks/generate", `{"prompt":`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRelationshipsRoutes(t *testing.T) {
	rel := &stubRelationships{}
	h := newTestServer(&stubGenerator{enabled: true}, rel)

	rec := do(t, h, http.MethodPost, "/api/ai/relationships/preview", `{"prompt":"launch","locale":"fr"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fr", rel.locale)

	rec = do(t, h, http.MethodPost, "/api/ai/relationships/confirm",
		`{"projectId":"p1","tasks":[{"title":"A"}],"relationships":[{"sourceTask":"task_1","targetTask":"task_2","type":"BLOCKS"}]}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var res relgen.ConfirmResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 1, res.TotalLinks)
}

func TestInfoAndHealth(t *testing.T) {
	h := newTestServer(&stubGenerator{enabled: false}, &stubRelationships{})

	rec := do(t, h, http.MethodGet, "/api/ai/info", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var info InfoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "openai", info.Provider)
	assert.False(t, info.AIFeaturesEnabled)
	assert.Equal(t, "test", info.Version)
	assert.True(t, info.Capabilities.StructuredOutput)
	assert.True(t, info.Capabilities.RequiresAPIKey)
	require.NotEmpty(t, info.KnownModels)
	assert.Equal(t, "gpt-4o-mini", info.KnownModels[0])

	rec = do(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecoverPanic(t *testing.T) {
	h := newTestServer(&stubGenerator{enabled: true, panics: true}, &stubRelationships{})

	rec := do(t, h, http.MethodPost, "/api/ai/tasks/generate", `{"prompt":"launch"}`, nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL", body.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	rec = do(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestID(t *testing.T) {
	h := newTestServer(&stubGenerator{enabled: true}, &stubRelationships{})

	rec := do(t, h, http.MethodGet, "/healthz", "", map[string]string{requestIDHeader: "req-42"})
	assert.Equal(t, "req-42", rec.Header().Get(requestIDHeader))

	rec = do(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Len(t, rec.Header().Get(requestIDHeader), 36)
}

func TestCORS(t *testing.T) {
	h := newTestServer(&stubGenerator{enabled: true}, &stubRelationships{})

	rec := do(t, h, http.MethodOptions, "/api/ai/tasks/generate", "", map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, h, http.MethodOptions, "/api/ai/tasks/generate", "", map[string]string{"Origin": "http://evil.example"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

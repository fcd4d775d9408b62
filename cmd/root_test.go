package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/josephgoksu/planwing/internal/app"
	"github.com/josephgoksu/planwing/internal/config"
	"github.com/josephgoksu/planwing/internal/llm"
	"github.com/josephgoksu/planwing/internal/relgen"
	"github.com/josephgoksu/planwing/internal/task"
	"github.com/josephgoksu/planwing/internal/taskgen"
	"github.com/josephgoksu/planwing/internal/tracing"
)

// scriptedProvider answers every call with the next scripted response.
type scriptedProvider struct {
	responses []string
}

func (p *scriptedProvider) Info() llm.ProviderInfo {
	return llm.ProviderInfo{Provider: "scripted", Model: "scripted-1"}
}

func (p *scriptedProvider) SupportsStructuredOutput() bool { return false }

func (p *scriptedProvider) next() string {
	if len(p.responses) == 0 {
		return ""
	}
	r := p.responses[0]
	p.responses = p.responses[1:]
	return r
}

func (p *scriptedProvider) Complete(context.Context, []llm.Message) (string, error) {
	return p.next(), nil
}

func (p *scriptedProvider) CompleteWithStructuredOutput(_ context.Context, _ []llm.Message, s llm.Schema, out any) error {
	return llm.DecodeStructured(p.next(), s, out)
}

// namedProvider reports a real provider identity over scripted answers.
type namedProvider struct {
	*scriptedProvider
	info llm.ProviderInfo
}

func (p *namedProvider) Info() llm.ProviderInfo { return p.info }

const (
	threeTasks = `{"tasks":[{"title":"Design API","priority":"HIGH"},{"title":"Implement API"},{"title":"Document API","priority":"LOW"}]}`
	cycleLinks = `[{"sourceTask":"task_1","targetTask":"task_2","type":"BLOCKS"},{"sourceTask":"task_2","targetTask":"task_3","type":"BLOCKS"},{"sourceTask":"task_3","targetTask":"task_1","type":"BLOCKS"}]`
)

// setupCLI isolates configuration and returns a store path for the test.
func setupCLI(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("APP_ENV", "test")
	t.Setenv("AI_FEATURES_ENABLED", "true")
	t.Setenv("LLM_PROVIDER", "openai")
	return filepath.Join(home, "planwing.db")
}

// useProvider makes every command in the test talk to p.
func useProvider(t *testing.T, p llm.Provider) {
	t.Helper()
	orig := newApp
	newApp = func(ctx context.Context, cfg *config.AppConfig, l *zap.Logger) (*app.Context, error) {
		return app.New(ctx, cfg, l, app.WithProvider(p), app.WithTracer(tracing.Nop()))
	}
	t.Cleanup(func() { newApp = orig })
}

func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	b := bytes.NewBufferString("")
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return b.String(), err
}

func TestRootCmd(t *testing.T) {
	setupCLI(t)

	output, err := executeCommand(t, "", "--help")
	require.NoError(t, err)

	assert.Contains(t, output, "Planwing turns a free-text goal")
	assert.Contains(t, output, "Usage:")
	for _, name := range []string{"generate", "relationships", "project", "serve", "mcp", "info", "config"} {
		assert.Contains(t, output, name)
	}
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "0.1.0", GetVersion())
}

func TestUnknownFormat(t *testing.T) {
	store := setupCLI(t)

	_, err := executeCommand(t, "", "info", "--store", store, "-f", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestGenerateCommand_JSON(t *testing.T) {
	store := setupCLI(t)
	useProvider(t, &scriptedProvider{responses: []string{"```json\n" + threeTasks + "\n```"}})

	output, err := executeCommand(t, "", "generate", "ship", "the", "API", "--store", store, "-f", "json", "-o", "taskCount=3", "--locale", "fr-CA")
	require.NoError(t, err)

	var res taskgen.GenerateTasksResult
	require.NoError(t, json.Unmarshal([]byte(output), &res))
	require.Len(t, res.Tasks, 3)
	assert.Equal(t, "Design API", res.Tasks[0].Title)
	assert.Equal(t, "scripted", res.Meta.Provider)
	assert.Equal(t, "fr-ca", res.Meta.Locale)
	assert.False(t, res.Meta.Degraded)
}

func TestInfoCommand_JSON(t *testing.T) {
	store := setupCLI(t)
	useProvider(t, &namedProvider{
		scriptedProvider: &scriptedProvider{},
		info:             llm.ProviderInfo{Provider: llm.ProviderOllama, Model: "llama3.2"},
	})

	output, err := executeCommand(t, "", "info", "--store", store, "-f", "json")
	require.NoError(t, err)

	var info infoOutput
	require.NoError(t, json.Unmarshal([]byte(output), &info))
	assert.Equal(t, llm.ProviderOllama, info.Provider)
	assert.True(t, info.AIFeaturesEnabled)
	assert.False(t, info.RequiresAPIKey)
	assert.Equal(t, []string{"llama3.2", "qwen2.5"}, info.KnownModels)
	assert.Equal(t, store, info.Store)
}

func TestGenerateCommand_Disabled(t *testing.T) {
	store := setupCLI(t)
	t.Setenv("AI_FEATURES_ENABLED", "false")
	useProvider(t, &scriptedProvider{})

	_, err := executeCommand(t, "", "generate", "anything", "--store", store, "-f", "json")
	require.ErrorIs(t, err, taskgen.ErrServiceUnavailable)
	assert.Contains(t, userMessage(err), "AI features are disabled")
}

func TestPreviewConfirmCommands(t *testing.T) {
	store := setupCLI(t)

	output, err := executeCommand(t, "", "project", "create", "Orbit", "-d", "Public API", "-u", "u1", "--store", store, "-f", "json")
	require.NoError(t, err)
	var project task.Project
	require.NoError(t, json.Unmarshal([]byte(output), &project))
	require.NotEmpty(t, project.ID)

	useProvider(t, &scriptedProvider{responses: []string{threeTasks, cycleLinks}})
	previewJSON, err := executeCommand(t, "", "rel", "preview", "ship the API", "-p", project.ID, "-u", "u1", "--store", store, "-f", "json")
	require.NoError(t, err)

	var preview relgen.PreviewResult
	require.NoError(t, json.Unmarshal([]byte(previewJSON), &preview))
	require.Len(t, preview.Tasks, 3)
	require.Len(t, preview.Relationships, 3)
	assert.True(t, preview.Meta.PlaceholderMode)

	useProvider(t, &scriptedProvider{})
	output, err = executeCommand(t, previewJSON, "rel", "confirm", "-p", project.ID, "-u", "u1", "--store", store, "-f", "json")
	require.NoError(t, err)

	var confirmed relgen.ConfirmResult
	require.NoError(t, json.Unmarshal([]byte(output), &confirmed))
	require.Len(t, confirmed.Tasks, 3)
	assert.Equal(t, 3, confirmed.TotalLinks)
	assert.Equal(t, 2, confirmed.CreatedLinks)
	assert.Equal(t, 1, confirmed.RejectedLinks)
	require.Len(t, confirmed.RejectedRelationships, 1)
	assert.Equal(t, task.ReasonCircular, confirmed.RejectedRelationships[0].ReasonCode)
}

func TestConfirmCommand_UnknownProject(t *testing.T) {
	store := setupCLI(t)
	useProvider(t, &scriptedProvider{})

	input := `{"tasks":[{"title":"Only task"}],"projectId":"proj-missing"}`
	_, err := executeCommand(t, input, "rel", "confirm", "-", "-p", "proj-missing", "-u", "u1", "--store", store, "-f", "json")
	require.Error(t, err)
	assert.Equal(t, "Project not found or you do not have access to it.", userMessage(err))
}

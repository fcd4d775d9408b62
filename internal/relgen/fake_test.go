package relgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/josephgoksu/planwing/internal/llm"
	"github.com/josephgoksu/planwing/internal/task"
	"github.com/josephgoksu/planwing/internal/taskgen"
)

type fakeGenerator struct {
	enabled bool
	tasks   []task.GeneratedTask
	err     error
	got     []taskgen.GenerateRequest
}

func (f *fakeGenerator) Enabled() bool { return f.enabled }

func (f *fakeGenerator) Generate(_ context.Context, req taskgen.GenerateRequest, _ string) (*taskgen.GenerateTasksResult, error) {
	f.got = append(f.got, req)
	if f.err != nil {
		return nil, f.err
	}
	return &taskgen.GenerateTasksResult{
		Tasks: f.tasks,
		Meta: taskgen.Meta{
			Model:    "fake-1",
			Provider: "fake",
			Locale:   taskgen.ResolveLocale(req.Locale),
			Options:  req.Options,
		},
	}, nil
}

type fakeProvider struct {
	text  string
	err   error
	calls [][]llm.Message
}

func (f *fakeProvider) Info() llm.ProviderInfo {
	return llm.ProviderInfo{Provider: "fake", Model: "fake-1"}
}

func (f *fakeProvider) SupportsStructuredOutput() bool { return false }

func (f *fakeProvider) Complete(_ context.Context, messages []llm.Message) (string, error) {
	f.calls = append(f.calls, messages)
	return f.text, f.err
}

func (f *fakeProvider) CompleteWithStructuredOutput(context.Context, []llm.Message, llm.Schema, any) error {
	return errors.New("not supported")
}

type fakeTaskCreator struct {
	err error
}

func (f *fakeTaskCreator) CreateMany(_ context.Context, projectID, _ string, drafts []task.GeneratedTask) ([]task.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]task.Task, 0, len(drafts))
	for i, d := range drafts {
		out = append(out, task.Task{
			ID:        fmt.Sprintf("id-%d", i+1),
			ProjectID: projectID,
			Title:     d.Title,
			Priority:  d.Priority,
			Status:    task.StatusTodo,
		})
	}
	return out, nil
}

// fakeLinkCreator fails links whose source and target match a configured pair.
type fakeLinkCreator struct {
	failures map[[2]string]error
	created  []task.ResolvedRelationship
}

func (f *fakeLinkCreator) CreateLink(_ context.Context, rel task.ResolvedRelationship, _ string) error {
	if err, ok := f.failures[[2]string{rel.SourceTaskID, rel.TargetTaskID}]; ok {
		return err
	}
	f.created = append(f.created, rel)
	return nil
}

func sampleTasks(n int) []task.GeneratedTask {
	out := make([]task.GeneratedTask, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, task.GeneratedTask{Title: fmt.Sprintf("Step %d", i), Priority: task.PriorityMedium})
	}
	return out
}

package taskgen

import (
	"context"
	"errors"

	"github.com/josephgoksu/planwing/internal/llm"
	"github.com/josephgoksu/planwing/internal/task"
)

type fakeProvider struct {
	structured bool
	text       string
	err        error
	calls      [][]llm.Message
}

func (f *fakeProvider) Info() llm.ProviderInfo {
	return llm.ProviderInfo{Provider: "fake", Model: "fake-1"}
}

func (f *fakeProvider) SupportsStructuredOutput() bool { return f.structured }

func (f *fakeProvider) Complete(_ context.Context, messages []llm.Message) (string, error) {
	f.calls = append(f.calls, messages)
	return f.text, f.err
}

func (f *fakeProvider) CompleteWithStructuredOutput(_ context.Context, messages []llm.Message, s llm.Schema, out any) error {
	f.calls = append(f.calls, messages)
	if f.err != nil {
		return f.err
	}
	return llm.DecodeStructured(f.text, s, out)
}

type fakeContext struct {
	project    *task.Project
	tasks      []task.TaskContext
	projectErr error
	tasksErr   error
}

func (f *fakeContext) GetProject(context.Context, string, string) (*task.Project, error) {
	if f.projectErr != nil {
		return nil, f.projectErr
	}
	if f.project == nil {
		return nil, errors.New("project not found")
	}
	return f.project, nil
}

func (f *fakeContext) GetTasks(_ context.Context, _, _ string, limit int) ([]task.TaskContext, bool, error) {
	if f.tasksErr != nil {
		return nil, false, f.tasksErr
	}
	if len(f.tasks) > limit {
		return f.tasks[:limit], true, nil
	}
	return f.tasks, false, nil
}

const validTasksJSON = `{"tasks":[
 {"title":" Design schema ","priority":"high"},
 {"title":"Write migrations","description":"Up and down scripts","priority":"medium"},
 {"title":"Add API endpoints"}
]}`

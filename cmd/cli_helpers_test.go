package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/planwing/internal/task"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    outputFormat
		wantErr bool
	}{
		{"", formatPretty, false},
		{"pretty", formatPretty, false},
		{"JSON", formatJSON, false},
		{" yaml ", formatYAML, false},
		{"xml", "", true},
	}
	for _, tc := range tests {
		got, err := parseFormat(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{"taskCount=4", "ratio=0.5", "tone = formal", "empty="})
	require.NoError(t, err)
	assert.Equal(t, 4, opts["taskCount"])
	assert.Equal(t, 0.5, opts["ratio"])
	assert.Equal(t, "formal", opts["tone"])
	assert.Equal(t, "", opts["empty"])

	none, err := parseOptions(nil)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = parseOptions([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseOptions([]string{"=x"})
	assert.Error(t, err)
}

func TestDecodeConfirmInput(t *testing.T) {
	t.Run("json preview", func(t *testing.T) {
		req, err := decodeConfirmInput([]byte(`{
  "tasks": [{"title": "A", "priority": "HIGH"}, {"title": "B"}],
  "relationships": [{"sourceTask": "task_1", "targetTask": "task_2", "type": "BLOCKS"}],
  "meta": {"placeholderMode": true}
}`))
		require.NoError(t, err)
		require.Len(t, req.Tasks, 2)
		assert.Equal(t, task.PriorityHigh, req.Tasks[0].Priority)
		require.Len(t, req.Relationships, 1)
		assert.Equal(t, task.RelBlocks, req.Relationships[0].Type)
	})

	t.Run("yaml preview", func(t *testing.T) {
		req, err := decodeConfirmInput([]byte(`projectId: proj-1
tasks:
  - title: A
  - title: B
relationships:
  - sourceTask: task_2
    targetTask: task_1
    type: IS_BLOCKED_BY
`))
		require.NoError(t, err)
		assert.Equal(t, "proj-1", req.ProjectID)
		require.Len(t, req.Tasks, 2)
		require.Len(t, req.Relationships, 1)
		assert.Equal(t, "task_2", req.Relationships[0].SourceTask)
		assert.Equal(t, task.RelIsBlockedBy, req.Relationships[0].Type)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := decodeConfirmInput([]byte("  \n"))
		assert.Error(t, err)
	})

	t.Run("broken json", func(t *testing.T) {
		_, err := decodeConfirmInput([]byte(`{"tasks": [`))
		assert.ErrorContains(t, err, "decode JSON input")
	})
}

func TestPrintYAML(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, printYAML(&b, task.GeneratedTask{Title: "Ship", Priority: task.PriorityLow}))
	assert.Equal(t, "title: Ship\npriority: LOW\n", b.String())
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "", maskKey(""))
	assert.Equal(t, "****", maskKey("short"))
	assert.Equal(t, "****cdef", maskKey("sk-1234567890abcdef"))
}

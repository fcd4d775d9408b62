package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Tasks []struct {
		Title string `json:"title"`
	} `json:"tasks"`
}

func TestExtractJSONPayload(t *testing.T) {
	const body = `{"tasks":[{"title":"a"},{"title":"b"},{"title":"c"}]}`

	tests := []struct {
		name  string
		input string
	}{
		{"fenced json", "Here you go:\n```json\n" + body + "\n```\nThanks"},
		{"fenced plain", "```\n" + body + "\n```"},
		{"json tag", "Sure! <json>" + body + "</json> done"},
		{"raw with prose", "The plan is " + body + " hope it helps"},
		{"raw only", "  " + body + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, body, ExtractJSONPayload(tt.input))

			got, err := ExtractAndParseJSON[payload](tt.input)
			require.NoError(t, err)
			require.Len(t, got.Tasks, 3)
			assert.Equal(t, "c", got.Tasks[2].Title)
		})
	}
}

func TestExtractJSONPayload_FenceWinsOverTag(t *testing.T) {
	in := "<json>{\"x\":1}</json>\n```json\n{\"x\":2}\n```"
	assert.Equal(t, `{"x":2}`, ExtractJSONPayload(in))
}

func TestExtractJSONPayload_NoJSON(t *testing.T) {
	assert.Equal(t, "just words", ExtractJSONPayload("  just words  "))

	_, err := ExtractAndParseJSON[payload]("just words")
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestExtractJSONArrayPayload(t *testing.T) {
	in := `Proposed links: [{"sourceTask":"task_1","targetTask":"task_2","type":"BLOCKS"}] end`
	got := ExtractJSONArrayPayload(in)
	assert.True(t, strings.HasPrefix(got, "["))
	assert.True(t, strings.HasSuffix(got, "]"))

	obj := `{"relationships":[{"sourceTask":"task_1"}]}`
	assert.Equal(t, obj, ExtractJSONArrayPayload("result: "+obj))
}

func TestParseJSON_Repair(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"trailing comma", `{"tasks":[{"title":"a"},{"title":"b"},]}`},
		{"single quoted key", `{'tasks':[{"title":"a"}]}`},
		{"truncated", `{"tasks":[{"title":"a"}`},
		{"literal newline in string", "{\"tasks\":[{\"title\":\"a\nb\"}]}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJSON[payload](tt.input)
			require.NoError(t, err)
			assert.NotEmpty(t, got.Tasks)
		})
	}
}

func TestParseJSON_IgnoresTrailingText(t *testing.T) {
	got, err := ParseJSON[payload](`{"tasks":[{"title":"a"}]} and some notes`)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Tasks[0].Title)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héllo", TruncateRunes("héllo wörld", 5))
	assert.Equal(t, "abc", TruncateRunes("abc", 10))
	assert.Empty(t, TruncateRunes("abc", -1))
}

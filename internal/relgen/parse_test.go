package relgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/planwing/internal/task"
)

func TestMaxRelationships(t *testing.T) {
	tests := map[int]int{1: 3, 3: 3, 5: 3, 6: 3, 7: 4, 10: 5, 12: 6, 16: 8, 30: 8}
	for n, want := range tests {
		assert.Equal(t, want, MaxRelationships(n), "n=%d", n)
	}
}

func TestParseRelationships_Array(t *testing.T) {
	text := "```json\n" + `[
		{"sourceTask":"task_1","targetTask":"task_2","type":"BLOCKS"},
		{"sourceTask":"task_2","targetTask":"task_3","type":"depends_on"},
		{"sourceTask":2,"targetTask":"task_3","type":"BLOCKS"},
		{"sourceTask":"task_3","targetTask":"task_4","type":"relates_to"},
		{"sourceTask":"task_1","targetTask":"task_3","type":"blocks"},
		{"sourceTask":"task_3","targetTask":"task_5","type":"RELATES_TO"}
	]` + "\n```"

	rels, err := ParseRelationships(text, 8)
	require.NoError(t, err)
	require.Len(t, rels, 2)
	assert.Equal(t, task.TaskRelationshipPreview{SourceTask: "task_1", TargetTask: "task_2", Type: task.RelBlocks}, rels[0])
	assert.Equal(t, task.TaskRelationshipPreview{SourceTask: "task_3", TargetTask: "task_5", Type: task.RelRelatesTo}, rels[1])
}

func TestParseRelationships_Object(t *testing.T) {
	text := `{"relationships":[{"sourceTask":"task_1","targetTask":"task_2","type":"SPLITS_TO"}]}`

	rels, err := ParseRelationships(text, 8)
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, task.RelSplitsTo, rels[0].Type)
}

func TestParseRelationships_Capped(t *testing.T) {
	text := `[
		{"sourceTask":"task_1","targetTask":"task_2","type":"BLOCKS"},
		{"sourceTask":"task_2","targetTask":"task_3","type":"BLOCKS"},
		{"sourceTask":"task_3","targetTask":"task_4","type":"BLOCKS"},
		{"sourceTask":"task_4","targetTask":"task_5","type":"BLOCKS"}
	]`

	rels, err := ParseRelationships(text, 3)
	require.NoError(t, err)
	assert.Len(t, rels, 3)
	assert.Equal(t, "task_3", rels[2].SourceTask)
}

func TestParseRelationships_NoJSON(t *testing.T) {
	_, err := ParseRelationships("no relationships today", 8)
	assert.Error(t, err)
}

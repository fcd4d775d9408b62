package relgen

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/josephgoksu/planwing/internal/task"
	"github.com/josephgoksu/planwing/internal/utils"
)

const (
	minRelationships = 3
	maxRelationships = 8
)

// MaxRelationships is the proposal cap for n tasks: min(8, max(3, ceil(n/2))).
func MaxRelationships(n int) int {
	half := int(math.Ceil(float64(n) / 2))
	return min(maxRelationships, max(minRelationships, half))
}

// ParseRelationships extracts proposals from model text. It accepts a bare
// JSON array or an object with a "relationships" array, drops entries whose
// references are not strings or whose type is not allowed, and keeps at most
// limit entries.
func ParseRelationships(text string, limit int) ([]task.TaskRelationshipPreview, error) {
	raw, err := utils.ParseJSON[json.RawMessage](utils.ExtractJSONArrayPayload(text))
	if err != nil {
		return nil, err
	}

	var entries []map[string]any
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("decode relationship array: %w", err)
		}
	} else {
		var wrapper struct {
			Relationships []map[string]any `json:"relationships"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, fmt.Errorf("decode relationship object: %w", err)
		}
		entries = wrapper.Relationships
	}

	out := make([]task.TaskRelationshipPreview, 0, len(entries))
	for _, e := range entries {
		rel, ok := toPreview(e)
		if !ok {
			continue
		}
		out = append(out, rel)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func toPreview(e map[string]any) (task.TaskRelationshipPreview, bool) {
	source, ok := e["sourceTask"].(string)
	if !ok {
		return task.TaskRelationshipPreview{}, false
	}
	target, ok := e["targetTask"].(string)
	if !ok {
		return task.TaskRelationshipPreview{}, false
	}
	rawType, ok := e["type"].(string)
	if !ok {
		return task.TaskRelationshipPreview{}, false
	}
	relType := task.RelationshipType(rawType)
	if !relType.IsValid() {
		return task.TaskRelationshipPreview{}, false
	}
	return task.TaskRelationshipPreview{SourceTask: source, TargetTask: target, Type: relType}, true
}

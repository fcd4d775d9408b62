package taskgen

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	// MinTasks and MaxTasks bound every generated list.
	MinTasks = 3
	MaxTasks = 12

	// DefaultTaskCount applies when options carry no numeric taskCount.
	DefaultTaskCount = 6

	// DefaultLocale is used when the request has none.
	DefaultLocale = "en"

	taskCountKey = "taskCount"
)

// ResolveTaskCount reads options["taskCount"]. Numeric values are rounded
// half away from zero and clamped to [MinTasks, MaxTasks]; anything else,
// numeric strings included, yields DefaultTaskCount.
func ResolveTaskCount(options map[string]any) int {
	raw, ok := options[taskCountKey]
	if !ok {
		return DefaultTaskCount
	}
	f, ok := toFloat(raw)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultTaskCount
	}
	n := math.Round(f)
	switch {
	case n < MinTasks:
		return MinTasks
	case n > MaxTasks:
		return MaxTasks
	default:
		return int(n)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// ResolveLocale trims and lower-cases the locale. Empty input yields
// DefaultLocale. Regional tags are kept as given ("fr-CA" -> "fr-ca").
func ResolveLocale(raw string) string {
	locale := strings.ToLower(strings.TrimSpace(raw))
	if locale == "" {
		return DefaultLocale
	}
	return locale
}

// LanguageName maps a locale to the language named in prompts.
// Only French is recognized; every other locale gets English.
func LanguageName(locale string) string {
	if locale == "fr" {
		return "French"
	}
	return "English"
}

// RenderConstraints renders every option except taskCount as
// "key=value; key=value", sorted by key.
func RenderConstraints(options map[string]any) string {
	keys := make([]string, 0, len(options))
	for k := range options {
		if k == taskCountKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, options[k]))
	}
	return strings.Join(parts, "; ")
}

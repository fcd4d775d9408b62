package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when a response contains nothing that looks like JSON.
var ErrNoJSON = errors.New("no JSON found in response")

// Pre-compiled regexes for JSON repair (compiled once, used many times)
// NOTE: These handle common LLM output errors but have limitations:
// - Escaped quotes within single-quoted strings are not fully supported
// - Complex nested structures may not be repaired correctly
var (
	fencedBlockRegex = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")
	jsonTagRegex     = regexp.MustCompile(`(?s)<json>\s*(.*?)\s*</json>`)

	// Fix missing comma after value before new key: "value" "key" -> "value", "key"
	missingCommaBeforeKeyRegex = regexp.MustCompile(`(")\s*\n\s*("[\w][^"]*"\s*:)`)

	// Fix missing comma after closing brace/bracket before quote
	missingCommaAfterBraceRegex = regexp.MustCompile(`([}\]])\s*\n?\s*("[\w])`)

	// Fix trailing commas before closing brace/bracket
	trailingCommaRegex = regexp.MustCompile(`,\s*([}\]])`)

	// Fix single quotes for object keys: {'key': -> {"key":
	singleQuoteKeyRegex = regexp.MustCompile(`([{,]\s*)'(\w+)'(\s*:)`)
)

// ExtractJSONPayload pulls a JSON object out of free-form model text.
// It tries, in order: a fenced code block, a <json> tag, the first {...} blob,
// and finally the raw trimmed text.
func ExtractJSONPayload(text string) string {
	return extractPayload(text, '{', '}')
}

// ExtractJSONArrayPayload is ExtractJSONPayload for responses expected to hold
// a top-level array. The blob step looks for [...] before falling back to {...}.
func ExtractJSONArrayPayload(text string) string {
	trimmed := strings.TrimSpace(text)
	if m := fencedBlockRegex.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := jsonTagRegex.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	arr := strings.IndexByte(trimmed, '[')
	obj := strings.IndexByte(trimmed, '{')
	if arr >= 0 && (obj < 0 || arr < obj) {
		if blob, ok := firstBlob(trimmed, '[', ']'); ok {
			return blob
		}
	}
	return extractPayload(trimmed, '{', '}')
}

func extractPayload(text string, open, closing byte) string {
	trimmed := strings.TrimSpace(text)
	if m := fencedBlockRegex.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := jsonTagRegex.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	if blob, ok := firstBlob(trimmed, open, closing); ok {
		return blob
	}
	return trimmed
}

// firstBlob returns the span from the first open delimiter to the last
// matching close delimiter.
func firstBlob(text string, open, closing byte) (string, bool) {
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, closing)
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// ParseJSON unmarshals an extracted payload into T.
// Uses stream-based decoding to ignore trailing text and retries once after
// repairing common LLM syntax errors.
func ParseJSON[T any](payload string) (T, error) {
	var result T

	cleaned := strings.TrimSpace(payload)
	if cleaned == "" {
		return result, ErrNoJSON
	}
	idx := strings.IndexAny(cleaned, "{[")
	if idx == -1 {
		return result, ErrNoJSON
	}

	jsonPart := cleaned[idx:]
	if err := json.NewDecoder(strings.NewReader(jsonPart)).Decode(&result); err != nil {
		repaired := repairJSON(jsonPart)
		if repaired != jsonPart {
			var second T
			if err2 := json.NewDecoder(strings.NewReader(repaired)).Decode(&second); err2 == nil {
				return second, nil
			}
		}
		return result, fmt.Errorf("parse JSON: %w", err)
	}
	return result, nil
}

// ExtractAndParseJSON combines ExtractJSONPayload and ParseJSON.
func ExtractAndParseJSON[T any](response string) (T, error) {
	return ParseJSON[T](ExtractJSONPayload(response))
}

// repairJSON attempts to fix common JSON syntax errors from LLMs.
func repairJSON(input string) string {
	result := sanitizeControlChars(input)

	// "value"\n"key": -> "value",\n"key":
	result = missingCommaBeforeKeyRegex.ReplaceAllString(result, `$1, $2`)
	// } "key" -> }, "key"
	result = missingCommaAfterBraceRegex.ReplaceAllString(result, `$1, $2`)
	// ,} -> }
	result = trailingCommaRegex.ReplaceAllString(result, `$1`)
	// {'key': -> {"key":
	result = singleQuoteKeyRegex.ReplaceAllString(result, `$1"$2"$3`)

	return fixTruncatedJSON(result)
}

// sanitizeControlChars escapes literal control characters inside JSON strings.
// LLMs often output raw tabs, newlines, etc. which are invalid in JSON.
func sanitizeControlChars(input string) string {
	var result strings.Builder
	result.Grow(len(input))

	inString := false
	escaped := false

	for i := 0; i < len(input); i++ {
		c := input[i]

		if escaped {
			result.WriteByte(c)
			escaped = false
			continue
		}

		if c == '\\' && inString {
			result.WriteByte(c)
			escaped = true
			continue
		}

		if c == '"' {
			inString = !inString
			result.WriteByte(c)
			continue
		}

		// Only sanitize control chars inside strings
		if inString {
			switch c {
			case '\t':
				result.WriteString(`\t`)
			case '\n':
				result.WriteString(`\n`)
			case '\r':
				result.WriteString(`\r`)
			case '\b':
				result.WriteString(`\b`)
			case '\f':
				result.WriteString(`\f`)
			default:
				// Escape other control characters (0x00-0x1F)
				if c < 0x20 {
					result.WriteString(fmt.Sprintf(`\u%04x`, c))
				} else {
					result.WriteByte(c)
				}
			}
		} else {
			result.WriteByte(c)
		}
	}

	return result.String()
}

// fixTruncatedJSON attempts to fix JSON that was truncated mid-string.
// Common with LLM output truncation.
func fixTruncatedJSON(input string) string {
	// Count quotes to detect imbalance
	quoteCount := 0
	escaped := false
	for _, c := range input {
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == '"' {
			quoteCount++
		}
	}

	// If odd number of quotes, the string was truncated
	if quoteCount%2 != 0 {
		input = input + `"`
	}

	// Count braces and brackets to balance
	openBraces := strings.Count(input, "{") - strings.Count(input, "}")
	openBrackets := strings.Count(input, "[") - strings.Count(input, "]")

	// Add missing closing brackets (in reverse order for proper nesting)
	for i := 0; i < openBrackets; i++ {
		input = input + "]"
	}
	for i := 0; i < openBraces; i++ {
		input = input + "}"
	}

	return input
}

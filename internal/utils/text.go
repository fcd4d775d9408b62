package utils

// TruncateRunes cuts s to at most maxLen runes without adding an ellipsis.
func TruncateRunes(s string, maxLen int) string {
	if maxLen < 0 {
		maxLen = 0
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}

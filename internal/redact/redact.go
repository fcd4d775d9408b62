// Package redact masks personal data and credentials in free text before it
// reaches logs, telemetry or prompts.
package redact

import (
	"regexp"

	"github.com/josephgoksu/planwing/internal/config"
	"github.com/josephgoksu/planwing/internal/utils"
)

const (
	// Marker replaces the whole input in production.
	Marker = "[REDACTED]"

	// MaxLength is the rune limit applied after masking.
	MaxLength = 512
)

var (
	emailRegex  = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRegex  = regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`)
	secretRegex = regexp.MustCompile(`(?i)\b(bearer|apikey|token)\b[\s:=]+[A-Za-z0-9._~+/=\-]+`)
)

// SanitizeText masks emails, phone numbers and credentials, then truncates.
// Masking runs before truncation so markers are never cut in half.
func SanitizeText(input string, env config.Environment) string {
	if env.IsProduction() {
		return Marker
	}
	out := emailRegex.ReplaceAllString(input, "[EMAIL]")
	out = phoneRegex.ReplaceAllString(out, "[PHONE]")
	out = secretRegex.ReplaceAllString(out, "$1 [SECRET]")
	return utils.TruncateRunes(out, MaxLength)
}

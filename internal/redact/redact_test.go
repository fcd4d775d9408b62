package redact

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/josephgoksu/planwing/internal/config"
)

func TestSanitizeText_Production(t *testing.T) {
	for _, in := range []string{"", "hello", "a@b.com", strings.Repeat("x", 2000)} {
		assert.Equal(t, Marker, SanitizeText(in, config.EnvProduction))
	}
}

func TestSanitizeText_Masks(t *testing.T) {
	got := SanitizeText("contact a@b.com or 123-456-7890, apikey ABC", config.EnvDevelopment)

	assert.Contains(t, got, "[EMAIL]")
	assert.Contains(t, got, "[PHONE]")
	assert.Contains(t, got, "apikey [SECRET]")
	assert.NotContains(t, got, "a@b.com")
	assert.NotContains(t, got, "ABC")
}

func TestSanitizeText_Keywords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Authorization: Bearer eyJhbGciOi.abc", "Authorization: Bearer [SECRET]"},
		{"token=s3cr3t-value", "token [SECRET]"},
		{"no secrets here", "no secrets here"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeText(tt.in, config.EnvTest))
	}
}

func TestSanitizeText_Truncates(t *testing.T) {
	got := SanitizeText(strings.Repeat("é", 600), config.EnvDevelopment)
	assert.Equal(t, MaxLength, utf8.RuneCountInString(got))

	short := "short text"
	assert.Equal(t, short, SanitizeText(short, config.EnvDevelopment))
}

func TestSanitizeText_MarkerSurvivesTruncation(t *testing.T) {
	in := strings.Repeat("a", 504) + " x@y.io"
	got := SanitizeText(in, config.EnvDevelopment)
	assert.True(t, strings.HasSuffix(got, "[EMAIL]"), got)
}

package llm

import "time"

// Provider constants
const (
	// DefaultProvider is the default LLM provider
	DefaultProvider = ProviderOpenAI

	// ProviderOpenAI represents any OpenAI-compatible chat completions endpoint
	ProviderOpenAI = "openai"

	// ProviderMistral represents the Mistral API (OpenAI-compatible wire format)
	ProviderMistral = "mistral"

	// ProviderAnthropic represents the Anthropic provider
	ProviderAnthropic = "anthropic"

	// ProviderGemini represents the Google Gemini provider
	ProviderGemini = "gemini"

	// ProviderOllama represents the Ollama provider
	ProviderOllama = "ollama"
)

// DefaultMistralURL is the OpenAI-compatible base URL of the Mistral API
const DefaultMistralURL = "https://api.mistral.ai/v1"

// DefaultOllamaURL is the default URL for Ollama server
const DefaultOllamaURL = "http://localhost:11434"

// Request defaults
const (
	DefaultMaxTokens   = 2048
	DefaultTemperature = float32(0.2)
	DefaultTimeout     = 60 * time.Second
)

// DefaultModelForProvider returns the default model ID for a given provider.
// This is a convenience wrapper around GetDefaultModelID in models.go.
func DefaultModelForProvider(provider string) string {
	return GetDefaultModelID(provider)
}

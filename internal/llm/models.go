package llm

import (
	"sort"
	"strings"
)

// Model is a known chat model and the provider that serves it.
type Model struct {
	ID         string   // Canonical model ID (e.g., "gpt-4o-mini")
	Provider   string   // Provider display name (e.g., "OpenAI")
	ProviderID string   // Internal provider ID (e.g., "openai")
	Aliases    []string // Alternative IDs including dated versions
	IsDefault  bool     // Whether this is the default model for its provider
}

// ModelRegistry is the single source of truth for known models.
var ModelRegistry = []Model{
	{ID: "gpt-4o-mini", Provider: "OpenAI", ProviderID: ProviderOpenAI, Aliases: []string{"gpt-4o-mini-2024-07-18"}, IsDefault: true},
	{ID: "gpt-4o", Provider: "OpenAI", ProviderID: ProviderOpenAI, Aliases: []string{"gpt-4o-2024-08-06"}},
	{ID: "gpt-4.1-mini", Provider: "OpenAI", ProviderID: ProviderOpenAI, Aliases: []string{"gpt-4.1-mini-2025-04-14"}},

	{ID: "mistral-small-latest", Provider: "Mistral", ProviderID: ProviderMistral, IsDefault: true},
	{ID: "mistral-medium-latest", Provider: "Mistral", ProviderID: ProviderMistral},
	{ID: "mistral-large-latest", Provider: "Mistral", ProviderID: ProviderMistral},

	{ID: "claude-3-5-haiku-latest", Provider: "Anthropic", ProviderID: ProviderAnthropic, IsDefault: true},
	{ID: "claude-sonnet-4-5", Provider: "Anthropic", ProviderID: ProviderAnthropic},

	{ID: "gemini-2.0-flash", Provider: "Google", ProviderID: ProviderGemini, IsDefault: true},
	{ID: "gemini-2.5-pro", Provider: "Google", ProviderID: ProviderGemini},

	{ID: "llama3.2", Provider: "Ollama", ProviderID: ProviderOllama, IsDefault: true},
	{ID: "qwen2.5", Provider: "Ollama", ProviderID: ProviderOllama},
}

// modelIndex is built at init time for fast lookups
var modelIndex map[string]*Model

func init() {
	modelIndex = make(map[string]*Model)
	for i := range ModelRegistry {
		m := &ModelRegistry[i]
		modelIndex[m.ID] = m
		for _, alias := range m.Aliases {
			modelIndex[alias] = m
		}
	}
}

// GetModel returns the model definition for a given model ID or alias.
// Returns nil if the model is not found.
func GetModel(modelID string) *Model {
	return modelIndex[modelID]
}

// GetDefaultModelID returns the default model ID for a provider.
func GetDefaultModelID(providerID string) string {
	for i := range ModelRegistry {
		if m := &ModelRegistry[i]; m.ProviderID == providerID && m.IsDefault {
			return m.ID
		}
	}
	return ""
}

// InferProvider attempts to determine the provider from a model name.
// Returns the provider ID and true if inference succeeded.
func InferProvider(modelID string) (string, bool) {
	if m := GetModel(modelID); m != nil {
		return m.ProviderID, true
	}

	switch {
	case strings.HasPrefix(modelID, "gpt-"), strings.HasPrefix(modelID, "o1-"), strings.HasPrefix(modelID, "o3-"):
		return ProviderOpenAI, true
	case strings.HasPrefix(modelID, "mistral-"), strings.HasPrefix(modelID, "codestral-"), strings.HasPrefix(modelID, "open-mistral"):
		return ProviderMistral, true
	case strings.HasPrefix(modelID, "claude-"):
		return ProviderAnthropic, true
	case strings.HasPrefix(modelID, "gemini-"):
		return ProviderGemini, true
	case strings.HasPrefix(modelID, "llama"), strings.HasPrefix(modelID, "qwen"), strings.HasPrefix(modelID, "phi"):
		return ProviderOllama, true
	}
	return "", false
}

// GetModelsForProvider returns known model IDs for a provider, default first.
func GetModelsForProvider(providerID string) []Model {
	var models []Model
	for _, m := range ModelRegistry {
		if m.ProviderID == providerID {
			models = append(models, m)
		}
	}
	sort.SliceStable(models, func(i, j int) bool {
		if models[i].IsDefault != models[j].IsDefault {
			return models[i].IsDefault
		}
		return models[i].ID < models[j].ID
	})
	return models
}

// ModelIDs returns the known model IDs for a provider, default first.
func ModelIDs(providerID string) []string {
	models := GetModelsForProvider(providerID)
	ids := make([]string, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
	}
	return ids
}

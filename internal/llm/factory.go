package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Config holds configuration for creating a Provider.
type Config struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// Capabilities describes what a provider variant can do.
type Capabilities struct {
	StructuredOutput bool `json:"structuredOutput" yaml:"structuredOutput"`
	RequiresAPIKey   bool `json:"requiresApiKey" yaml:"requiresApiKey"`
}

var capabilities = map[string]Capabilities{
	ProviderOpenAI:    {StructuredOutput: true, RequiresAPIKey: true},
	ProviderMistral:   {RequiresAPIKey: true},
	ProviderAnthropic: {RequiresAPIKey: true},
	ProviderGemini:    {RequiresAPIKey: true},
	ProviderOllama:    {},
}

// SupportedProviders lists provider IDs in a stable order.
func SupportedProviders() []string {
	return []string{ProviderOpenAI, ProviderMistral, ProviderAnthropic, ProviderGemini, ProviderOllama}
}

func supportedList() string {
	return strings.Join(SupportedProviders(), ", ")
}

// CapabilitiesFor returns the capabilities of a provider ID.
func CapabilitiesFor(provider string) (Capabilities, bool) {
	c, ok := capabilities[provider]
	return c, ok
}

// ValidateProvider checks if the given provider string is supported and
// returns its canonical form.
func ValidateProvider(p string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(p))
	if _, ok := capabilities[name]; !ok {
		return "", fmt.Errorf("unsupported provider: %s (supported: %s)", p, supportedList())
	}
	return name, nil
}

// withDefaults fills the model, token and temperature defaults.
func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = DefaultModelForProvider(c.Provider)
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Temperature < 0 {
		c.Temperature = DefaultTemperature
	}
	return c
}

// NewProvider selects the provider variant named by cfg.Provider. Selection
// happens once; the returned Provider never switches backend.
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	if strings.TrimSpace(cfg.Provider) == "" {
		cfg.Provider = DefaultProvider
	}
	name, err := ValidateProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}
	cfg.Provider = name
	cfg = cfg.withDefaults()

	if caps := capabilities[cfg.Provider]; caps.RequiresAPIKey && strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%s: %w", cfg.Provider, errMissingAPIKey)
	}

	var p *chatProvider
	switch cfg.Provider {
	case ProviderOpenAI:
		p, err = newOpenAIProvider(ctx, cfg)
	case ProviderMistral:
		p, err = newMistralProvider(ctx, cfg)
	default:
		p, err = newUnifiedProvider(ctx, cfg)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

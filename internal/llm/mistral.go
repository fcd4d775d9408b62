package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
)

// newMistralProvider talks to the Mistral API through its OpenAI-compatible
// endpoint. It has no native structured output.
func newMistralProvider(ctx context.Context, cfg Config) (*chatProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", ProviderMistral, errMissingAPIKey)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultMistralURL
	}

	chat, err := openai.NewChatModel(ctx, openAIChatConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("create mistral chat model: %w", err)
	}
	return &chatProvider{
		info:    ProviderInfo{Provider: ProviderMistral, Model: cfg.Model},
		chat:    chat,
		timeout: cfg.Timeout,
	}, nil
}

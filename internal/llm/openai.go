package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
)

func openAIChatConfig(cfg Config) *openai.ChatModelConfig {
	maxTokens := cfg.MaxTokens
	temperature := cfg.Temperature
	return &openai.ChatModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Timeout:     cfg.Timeout,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	}
}

// newOpenAIProvider builds an OpenAI-compatible provider with native
// structured output through a second model configured for JSON mode.
func newOpenAIProvider(ctx context.Context, cfg Config) (*chatProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", ProviderOpenAI, errMissingAPIKey)
	}

	base := openAIChatConfig(cfg)
	chat, err := openai.NewChatModel(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("create openai chat model: %w", err)
	}

	jsonCfg := *base
	jsonCfg.ResponseFormat = &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	}
	structured, err := openai.NewChatModel(ctx, &jsonCfg)
	if err != nil {
		return nil, fmt.Errorf("create openai json model: %w", err)
	}

	return &chatProvider{
		info:       ProviderInfo{Provider: ProviderOpenAI, Model: cfg.Model},
		chat:       chat,
		structured: structured,
		timeout:    cfg.Timeout,
	}, nil
}

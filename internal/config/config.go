// Package config loads planwing configuration from flags, config files,
// .env files and environment variables, and validates it once at startup.
package config

import (
	"time"

	"github.com/josephgoksu/planwing/internal/llm"
)

// AppConfig is the validated process-wide configuration.
type AppConfig struct {
	Env               Environment      `mapstructure:"env" json:"env" yaml:"env" validate:"required,oneof=development test staging production"`
	Verbose           bool             `mapstructure:"verbose" json:"verbose" yaml:"verbose"`
	AIFeaturesEnabled bool             `mapstructure:"aiFeaturesEnabled" json:"aiFeaturesEnabled" yaml:"aiFeaturesEnabled"`
	LLM               LLMConfig        `mapstructure:"llm" json:"llm" yaml:"llm"`
	Generation        GenerationConfig `mapstructure:"generation" json:"generation" yaml:"generation"`
	Server            ServerConfig     `mapstructure:"server" json:"server" yaml:"server"`
	Store             StoreConfig      `mapstructure:"store" json:"store" yaml:"store"`
	Telemetry         TelemetryConfig  `mapstructure:"telemetry" json:"telemetry" yaml:"telemetry"`
}

// LLMConfig selects and tunes the provider.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider" json:"provider" yaml:"provider" validate:"required,oneof=openai mistral anthropic gemini ollama"`
	Model       string        `mapstructure:"model" json:"model" yaml:"model" validate:"required"`
	APIKey      string        `mapstructure:"apiKey" json:"apiKey" yaml:"apiKey"`
	BaseURL     string        `mapstructure:"baseURL" json:"baseURL" yaml:"baseURL" validate:"omitempty,url"`
	MaxTokens   int           `mapstructure:"maxTokens" json:"maxTokens" yaml:"maxTokens" validate:"gte=1,lte=65536"`
	Temperature float32       `mapstructure:"temperature" json:"temperature" yaml:"temperature" validate:"gte=0,lte=2"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout" validate:"gte=0"`
}

// GenerationConfig bounds the context sent with prompts.
type GenerationConfig struct {
	ContextTaskLimit int `mapstructure:"contextTaskLimit" json:"contextTaskLimit" yaml:"contextTaskLimit" validate:"gte=1,lte=200"`
	HistoryWindow    int `mapstructure:"historyWindow" json:"historyWindow" yaml:"historyWindow" validate:"gte=1,lte=200"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" json:"addr" yaml:"addr" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout" json:"shutdownTimeout" yaml:"shutdownTimeout" validate:"gte=0"`
	AllowedOrigins  []string      `mapstructure:"allowedOrigins" json:"allowedOrigins" yaml:"allowedOrigins"`
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `mapstructure:"path" json:"path" yaml:"path" validate:"required"`
}

// TelemetryConfig points opt-in usage events at a PostHog project.
// Consent itself lives in telemetry.json, not here.
type TelemetryConfig struct {
	APIKey   string `mapstructure:"apiKey" json:"apiKey" yaml:"apiKey"`
	Endpoint string `mapstructure:"endpoint" json:"endpoint" yaml:"endpoint" validate:"omitempty,url"`
}

// ProviderConfig converts the LLM section to the factory configuration.
func (c LLMConfig) ProviderConfig() llm.Config {
	return llm.Config{
		Provider:    c.Provider,
		Model:       c.Model,
		APIKey:      c.APIKey,
		BaseURL:     c.BaseURL,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
		Timeout:     c.Timeout,
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/josephgoksu/planwing/internal/llm"
)

const (
	configName = ".planwing"
	envPrefix  = "PLANWING"
)

// validate is a single instance of Validate, it caches struct info
var validate = validator.New()

// aliases maps config keys to the bare environment variables deployments
// already use, in addition to the PLANWING_ prefixed form.
var aliases = map[string][]string{
	"env":               {"APP_ENV"},
	"aiFeaturesEnabled": {"AI_FEATURES_ENABLED"},
	"llm.provider":      {"LLM_PROVIDER"},
	"llm.model":         {"LLM_MODEL"},
	"llm.apiKey":        {"LLM_API_KEY"},
	"llm.maxTokens":     {"LLM_MAX_TOKENS"},
	"llm.baseURL":       {"LLM_BASE_URL"},
	"llm.temperature":   {"LLM_TEMPERATURE"},
	"llm.timeout":       {"LLM_TIMEOUT"},
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("env", string(EnvDevelopment))
	v.SetDefault("verbose", false)
	v.SetDefault("aiFeaturesEnabled", true)

	// empty: inferred from llm.model, else llm.DefaultProvider
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.apiKey", "")
	v.SetDefault("llm.baseURL", "")
	v.SetDefault("llm.maxTokens", llm.DefaultMaxTokens)
	v.SetDefault("llm.temperature", llm.DefaultTemperature)
	v.SetDefault("llm.timeout", llm.DefaultTimeout)

	v.SetDefault("generation.contextTaskLimit", 200)
	v.SetDefault("generation.historyWindow", 20)

	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.shutdownTimeout", "10s")
	v.SetDefault("server.allowedOrigins", []string{})

	v.SetDefault("store.path", "")

	v.SetDefault("telemetry.apiKey", "")
	v.SetDefault("telemetry.endpoint", "")
}

// BindEnv enables PLANWING_* variables and the bare aliases.
func BindEnv(v *viper.Viper) {
	// e.g. llm.provider -> PLANWING_LLM_PROVIDER
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range aliases {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(append([]string{key, prefixed}, envs...)...)
	}
}

// InitViper loads .env, binds the environment and reads the config file.
// A missing config file is not an error unless cfgFile names one explicitly.
func InitViper(v *viper.Viper, cfgFile string) error {
	// It's okay if .env file doesn't exist.
	_ = godotenv.Load()

	SetDefaults(v)
	BindEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if dir, err := GetGlobalConfigDir(); err == nil {
			v.AddConfigPath(dir) // ~/.planwing/.planwing.yaml
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home) // ~/.planwing.yaml
		}
		v.AddConfigPath(".") // ./.planwing.yaml
		v.SetConfigName(configName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("read config %s: %w", cfgFile, err)
	}
	return nil
}

// Load unmarshals, completes and validates the configuration.
func Load(v *viper.Viper) (*AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Env = ParseEnvironment(string(cfg.Env))
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = providerForModel(cfg.LLM.Model)
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = llm.DefaultModelForProvider(cfg.LLM.Provider)
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = ResolveAPIKey(v, cfg.LLM.Provider)
	}
	if cfg.LLM.BaseURL == "" && cfg.LLM.Provider == llm.ProviderMistral {
		cfg.LLM.BaseURL = llm.DefaultMistralURL
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath()
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// providerForModel picks the provider serving model when no provider is
// configured. Unknown or empty models get llm.DefaultProvider.
func providerForModel(model string) string {
	if p, ok := llm.InferProvider(strings.TrimSpace(model)); ok {
		return p
	}
	return llm.DefaultProvider
}

// ResolveAPIKey returns the best API key for the given provider using
// the per-provider config key, then provider-specific env vars.
func ResolveAPIKey(v *viper.Viper, provider string) string {
	key := fmt.Sprintf("llm.apiKeys.%s", provider)
	if v.IsSet(key) {
		if k := strings.TrimSpace(v.GetString(key)); k != "" {
			return k
		}
	}
	return providerEnvKey(provider)
}

func providerEnvKey(provider string) string {
	switch provider {
	case llm.ProviderOpenAI:
		return strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	case llm.ProviderMistral:
		return strings.TrimSpace(os.Getenv("MISTRAL_API_KEY"))
	case llm.ProviderAnthropic:
		return strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	case llm.ProviderGemini:
		key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		if key == "" {
			key = strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
		}
		return key
	default:
		return ""
	}
}

// Watch reports config file edits. Configuration is injected once at
// startup, so changes only take effect after a restart.
func Watch(v *viper.Viper, onChange func(path string)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if e.Has(fsnotify.Write) || e.Has(fsnotify.Create) {
			onChange(e.Name)
		}
	})
	v.WatchConfig()
}

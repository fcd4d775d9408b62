/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/planwing/internal/config"
	"github.com/josephgoksu/planwing/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect planwing configuration",
}

// configShowCmd shows current configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration (API keys are masked)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		masked := *cfg
		masked.LLM.APIKey = maskKey(cfg.LLM.APIKey)
		masked.Telemetry.APIKey = maskKey(cfg.Telemetry.APIKey)

		return render(cmd, masked, func() string {
			var sb strings.Builder
			row := func(k string, v any) {
				fmt.Fprintf(&sb, "  %s %v\n", ui.StyleSubtle.Render(fmt.Sprintf("%-26s", k)), v)
			}
			source := viper.ConfigFileUsed()
			if source == "" {
				source = "(defaults and environment)"
			}
			sb.WriteString(ui.StyleTitle.Render("Configuration") + " " + ui.StyleSubtle.Render(source) + "\n")
			row("env", masked.Env)
			row("aiFeaturesEnabled", masked.AIFeaturesEnabled)
			row("llm.provider", masked.LLM.Provider)
			row("llm.model", masked.LLM.Model)
			row("llm.apiKey", masked.LLM.APIKey)
			row("llm.baseURL", masked.LLM.BaseURL)
			row("llm.maxTokens", masked.LLM.MaxTokens)
			row("llm.temperature", masked.LLM.Temperature)
			row("llm.timeout", masked.LLM.Timeout)
			row("generation.contextTaskLimit", masked.Generation.ContextTaskLimit)
			row("generation.historyWindow", masked.Generation.HistoryWindow)
			row("server.addr", masked.Server.Addr)
			row("server.allowedOrigins", strings.Join(masked.Server.AllowedOrigins, ","))
			row("store.path", masked.Store.Path)
			return sb.String()
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}

// maskKey keeps the last four characters of a secret.
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/planwing/internal/llm"
	"github.com/josephgoksu/planwing/internal/ui"
)

// infoOutput mirrors the HTTP /api/ai/info payload plus local details.
type infoOutput struct {
	Provider          string   `json:"provider" yaml:"provider"`
	Model             string   `json:"model" yaml:"model"`
	AIFeaturesEnabled bool     `json:"aiFeaturesEnabled" yaml:"aiFeaturesEnabled"`
	StructuredOutput  bool     `json:"structuredOutput" yaml:"structuredOutput"`
	RequiresAPIKey    bool     `json:"requiresApiKey" yaml:"requiresApiKey"`
	KnownModels       []string `json:"knownModels" yaml:"knownModels"`
	Version           string   `json:"version" yaml:"version"`
	Store             string   `json:"store" yaml:"store"`
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the active provider, model and feature flag",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		info := a.Generator.Info()
		caps, _ := llm.CapabilitiesFor(info.Provider)
		out := infoOutput{
			Provider:          info.Provider,
			Model:             info.Model,
			AIFeaturesEnabled: a.Generator.Enabled(),
			StructuredOutput:  a.LLM.SupportsStructuredOutput(),
			RequiresAPIKey:    caps.RequiresAPIKey,
			KnownModels:       llm.ModelIDs(info.Provider),
			Version:           GetVersion(),
			Store:             a.Config.Store.Path,
		}
		return render(cmd, out, func() string {
			var sb strings.Builder
			row := func(k, v string) {
				fmt.Fprintf(&sb, "  %s %s\n", ui.StyleSubtle.Render(fmt.Sprintf("%-18s", k)), v)
			}
			sb.WriteString(ui.StyleTitle.Render("planwing "+out.Version) + "\n")
			row("provider", out.Provider)
			row("model", out.Model)
			row("ai features", enabledLabel(out.AIFeaturesEnabled))
			row("structured output", enabledLabel(out.StructuredOutput))
			if len(out.KnownModels) > 0 {
				row("known models", strings.Join(out.KnownModels, ", "))
			}
			row("store", out.Store)
			return sb.String()
		})
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func enabledLabel(on bool) string {
	if on {
		return ui.StyleSuccess.Render("enabled")
	}
	return ui.StyleWarning.Render("disabled")
}

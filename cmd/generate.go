/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/planwing/internal/taskgen"
	"github.com/josephgoksu/planwing/internal/telemetry"
	"github.com/josephgoksu/planwing/internal/ui"
)

var generateCmd = &cobra.Command{
	Use:   "generate <goal>",
	Short: "Generate actionable tasks from a goal",
	Long: `Generate between 3 and 12 actionable tasks from a free-text goal.

When --project is set, the project's recent tasks and goal are sent as context.
Nothing is persisted; use "relationships preview" and "relationships confirm"
to save tasks.`,
	Example: `  planwing generate "Launch the public beta"
  planwing generate "Migrer la base" --locale fr --option taskCount=4
  planwing generate "Ship billing" --project proj-1a2b3c4d --user alice -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addGenerationFlags(generateCmd)
}

// addGenerationFlags registers the flags shared by generate and preview.
func addGenerationFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("project", "p", "", "Project ID used for context")
	cmd.Flags().StringP("user", "u", "", "User ID the request acts for")
	cmd.Flags().StringP("locale", "l", "", "Output language (en or fr)")
	cmd.Flags().StringArrayP("option", "o", nil, "Generation option as key=value (repeatable), e.g. taskCount=5")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	project, _ := cmd.Flags().GetString("project")
	user, _ := cmd.Flags().GetString("user")
	locale, _ := cmd.Flags().GetString("locale")
	pairs, _ := cmd.Flags().GetStringArray("option")

	options, err := parseOptions(pairs)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	res, err := a.Generator.Generate(cmd.Context(), taskgen.GenerateRequest{
		Prompt:    strings.Join(args, " "),
		ProjectID: project,
		Locale:    locale,
		Options:   options,
	}, user)
	if err != nil {
		return err
	}
	tracker().Track(telemetry.EventTasksGenerated,
		telemetry.GenerationProps(res.Meta.Provider, len(res.Tasks), res.Meta.Degraded, res.Meta.Locale))

	return render(cmd, res, func() string {
		var sb strings.Builder
		sb.WriteString(ui.RenderDrafts(res.Tasks, ui.Width()))
		sb.WriteString("\n" + ui.RenderMeta(ui.Meta{
			Provider: res.Meta.Provider,
			Model:    res.Meta.Model,
			Locale:   res.Meta.Locale,
			Degraded: res.Meta.Degraded,
		}) + "\n")
		return sb.String()
	})
}

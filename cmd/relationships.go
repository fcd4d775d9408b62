/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/josephgoksu/planwing/internal/relgen"
	"github.com/josephgoksu/planwing/internal/telemetry"
	"github.com/josephgoksu/planwing/internal/ui"
)

var relationshipsCmd = &cobra.Command{
	Use:     "relationships",
	Aliases: []string{"rel"},
	Short:   "Preview and confirm tasks with their dependencies",
}

var relationshipsPreviewCmd = &cobra.Command{
	Use:   "preview <goal>",
	Short: "Generate tasks and propose relationships between them",
	Long: `Generate tasks and propose relationships that reference tasks by position
(task_1, task_2, ...). Save the JSON or YAML output and pass it to
"relationships confirm" to persist it.`,
	Example: `  planwing relationships preview "Launch the public beta" -f json > preview.json
  planwing rel preview "Refonte du site" --locale fr --no-relationships`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRelationshipsPreview,
}

var relationshipsConfirmCmd = &cobra.Command{
	Use:   "confirm [file]",
	Short: "Persist previewed tasks and create their relationships",
	Long: `Persist tasks from a preview into a project, resolve task_N placeholders
to the created IDs and create every relationship that passes validation.
Rejected relationships are reported with a reason code and never abort the run.

The input is read from the file argument, or from stdin when it is omitted or "-".
Both JSON and YAML previews are accepted.`,
	Example: `  planwing relationships confirm preview.json --project proj-1a2b3c4d --user alice
  planwing rel preview "Ship billing" -f json | planwing rel confirm -p proj-1a2b3c4d`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRelationshipsConfirm,
}

func init() {
	rootCmd.AddCommand(relationshipsCmd)
	relationshipsCmd.AddCommand(relationshipsPreviewCmd)
	relationshipsCmd.AddCommand(relationshipsConfirmCmd)

	addGenerationFlags(relationshipsPreviewCmd)
	relationshipsPreviewCmd.Flags().Bool("no-relationships", false, "Skip relationship proposals")

	relationshipsConfirmCmd.Flags().StringP("project", "p", "", "Project ID that receives the tasks (overrides the input)")
	relationshipsConfirmCmd.Flags().StringP("user", "u", "", "User ID the request acts for")
	relationshipsConfirmCmd.Flags().StringP("locale", "l", "", "Locale recorded with the request")
}

func runRelationshipsPreview(cmd *cobra.Command, args []string) error {
	project, _ := cmd.Flags().GetString("project")
	user, _ := cmd.Flags().GetString("user")
	locale, _ := cmd.Flags().GetString("locale")
	pairs, _ := cmd.Flags().GetStringArray("option")
	skip, _ := cmd.Flags().GetBool("no-relationships")

	options, err := parseOptions(pairs)
	if err != nil {
		return err
	}

	req := relgen.PreviewRequest{
		Prompt:    strings.Join(args, " "),
		ProjectID: project,
		Options:   options,
	}
	if skip {
		generate := false
		req.GenerateRelationships = &generate
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	res, err := a.Relationships.Preview(cmd.Context(), req, user, locale)
	if err != nil {
		return err
	}
	tracker().Track(telemetry.EventRelationshipsPreviewed,
		telemetry.PreviewProps(res.Meta.Provider, len(res.Tasks), len(res.Relationships), res.Meta.Degraded))

	return render(cmd, res, func() string {
		var sb strings.Builder
		sb.WriteString(ui.RenderDrafts(res.Tasks, ui.Width()))
		sb.WriteString("\n" + ui.RenderPreviewRelationships(res.Relationships, res.Tasks))
		sb.WriteString("\n" + ui.RenderMeta(ui.Meta{
			Provider: res.Meta.Provider,
			Model:    res.Meta.Model,
			Locale:   res.Meta.Locale,
			Degraded: res.Meta.Degraded,
		}) + "\n")
		sb.WriteString(ui.StyleSubtle.Render("Re-run with -f json and pipe into \"planwing relationships confirm\" to save.") + "\n")
		return sb.String()
	})
}

func runRelationshipsConfirm(cmd *cobra.Command, args []string) error {
	project, _ := cmd.Flags().GetString("project")
	user, _ := cmd.Flags().GetString("user")
	locale, _ := cmd.Flags().GetString("locale")

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	req, err := decodeConfirmInput(data)
	if err != nil {
		return err
	}
	if project != "" {
		req.ProjectID = project
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	res, err := a.Relationships.Confirm(cmd.Context(), req, user, locale)
	if err != nil {
		return err
	}
	byReason := make(map[string]int)
	for _, r := range res.RejectedRelationships {
		byReason[string(r.ReasonCode)]++
	}
	tracker().Track(telemetry.EventRelationshipsConfirmed,
		telemetry.ConfirmProps(len(res.Tasks), res.TotalLinks, res.CreatedLinks, res.RejectedLinks, byReason))

	return render(cmd, res, func() string {
		return ui.RenderConfirmation(res.Tasks, res.Relationships, res.RejectedRelationships, ui.Width())
	})
}

// decodeConfirmInput accepts a confirm request or a preview result, in JSON or YAML.
// Preview output has the same tasks and relationships fields, so both decode alike.
func decodeConfirmInput(data []byte) (relgen.ConfirmRequest, error) {
	var req relgen.ConfirmRequest
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return req, fmt.Errorf("no input: expected a preview or confirm request")
	}
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal([]byte(trimmed), &req); err != nil {
			return req, fmt.Errorf("decode JSON input: %w", err)
		}
		return req, nil
	}
	if err := yaml.Unmarshal([]byte(trimmed), &req); err != nil {
		return req, fmt.Errorf("decode YAML input: %w", err)
	}
	return req, nil
}

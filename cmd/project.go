/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/josephgoksu/planwing/internal/projectctx"
	"github.com/josephgoksu/planwing/internal/store"
	"github.com/josephgoksu/planwing/internal/task"
	"github.com/josephgoksu/planwing/internal/ui"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"proj"},
	Short:   "Manage projects, members and their context",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project owned by --user",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("user")
		description, _ := cmd.Flags().GetString("description")
		return withStore(cmd.Context(), func(st *store.SQLiteStore, _ *zap.Logger) error {
			p, err := st.CreateProject(cmd.Context(), strings.Join(args, " "), description, owner)
			if err != nil {
				return err
			}
			return render(cmd, p, func() string {
				return fmt.Sprintf("%s Created project %s (%s)\n", ui.Icon("✓", ui.StyleSuccess), ui.StyleTitle.Render(p.Name), p.ID)
			})
		})
	},
}

var projectAddMemberCmd = &cobra.Command{
	Use:   "add-member <project-id> <user-id>",
	Short: "Grant a user access to a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		role, _ := cmd.Flags().GetString("role")
		member := task.TeamMember{UserID: args[1], Name: name, Email: email, Role: role}
		if member.Name == "" {
			member.Name = member.UserID
		}
		return withStore(cmd.Context(), func(st *store.SQLiteStore, _ *zap.Logger) error {
			if err := st.AddMember(cmd.Context(), args[0], member); err != nil {
				return err
			}
			return render(cmd, member, func() string {
				return fmt.Sprintf("%s Added %s to %s as %s\n", ui.Icon("✓", ui.StyleSuccess), member.Name, args[0], member.Role)
			})
		})
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects visible to --user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		return withStore(cmd.Context(), func(st *store.SQLiteStore, _ *zap.Logger) error {
			projects, err := st.ListProjects(cmd.Context(), user)
			if err != nil {
				return err
			}
			return render(cmd, projects, func() string {
				if len(projects) == 0 {
					return ui.StyleSubtle.Render("No projects found.") + "\n"
				}
				t := &ui.Table{Headers: []string{"ID", "Name", "Owner", "Created"}, MaxWidth: 40}
				for _, p := range projects {
					t.Rows = append(t.Rows, []string{p.ID, p.Name, p.OwnerID, p.CreatedAt.Format("2006-01-02")})
				}
				return t.Render()
			})
		})
	},
}

var projectContextCmd = &cobra.Command{
	Use:   "context <project-id>",
	Short: "Show the context sent to the model for a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		return withStore(cmd.Context(), func(st *store.SQLiteStore, l *zap.Logger) error {
			svc := projectctx.NewService(st, st, st, projectctx.WithLogger(l.Named("context")))
			agg, err := svc.GetAggregatedContext(cmd.Context(), args[0], user)
			if err != nil {
				return err
			}
			if agg == nil {
				return fmt.Errorf("project %s: %w", args[0], projectctx.ErrProjectNotFound)
			}
			return render(cmd, agg, func() string { return renderContext(agg) })
		})
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectCreateCmd, projectAddMemberCmd, projectListCmd, projectContextCmd)

	projectCmd.PersistentFlags().StringP("user", "u", "", "User ID the command acts for")

	projectCreateCmd.Flags().StringP("description", "d", "", "Project goal or description")
	projectAddMemberCmd.Flags().String("name", "", "Display name (defaults to the user ID)")
	projectAddMemberCmd.Flags().String("email", "", "Email address")
	projectAddMemberCmd.Flags().String("role", "member", "Role in the project")
}

// withStore opens the configured store without building an LLM provider.
func withStore(ctx context.Context, fn func(*store.SQLiteStore, *zap.Logger) error) error {
	cfg, l, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store %s: %w", cfg.Store.Path, err)
	}
	defer func() { _ = st.Close() }()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(st, l)
}

func renderContext(agg *projectctx.AggregatedContext) string {
	var sb strings.Builder
	sb.WriteString(ui.StyleTitle.Render(agg.Project.Name) + " " + ui.StyleSubtle.Render(agg.Project.ID) + "\n")
	if agg.Project.Description != "" {
		sb.WriteString(agg.Project.Description + "\n")
	}

	sb.WriteString("\n" + ui.StyleSectionTitle.Render("Tasks") + "\n")
	if len(agg.Tasks) == 0 {
		sb.WriteString(ui.StyleSubtle.Render("  none") + "\n")
	} else {
		t := &ui.Table{Headers: []string{"ID", "Priority", "Status", "Assignee", "Title"}, MaxWidth: 40}
		for _, tc := range agg.Tasks {
			t.Rows = append(t.Rows, []string{ui.ShortID(tc.ID), string(tc.Priority), string(tc.Status), tc.AssigneeName, tc.Title})
		}
		sb.WriteString(t.Render())
	}

	sb.WriteString("\n" + ui.StyleSectionTitle.Render("Team") + "\n")
	for _, m := range agg.Team {
		fmt.Fprintf(&sb, "  %s %s\n", m.Name, ui.StyleSubtle.Render("("+m.Role+")"))
	}

	sb.WriteString("\n" + ui.StyleSectionTitle.Render("Recent activity") + "\n")
	if len(agg.History) == 0 {
		sb.WriteString(ui.StyleSubtle.Render("  none") + "\n")
	}
	for _, h := range agg.History {
		fmt.Fprintf(&sb, "  %s %s %s\n", ui.StyleSubtle.Render(h.CreatedAt.Format("2006-01-02 15:04")), h.Action, h.Summary)
	}

	if agg.Meta.Degraded {
		sb.WriteString("\n" + ui.RenderWarningPanel("Partial context", "Some context is missing or unavailable; generation uses what is available.") + "\n")
	}
	return sb.String()
}

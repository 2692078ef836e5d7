package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	core "brieflink/internal/app"
	"brieflink/internal/store"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Project commands",
	}
	cmd.AddCommand(newProjectsCreateCmd(app))
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsUseCmd(app))
	cmd.AddCommand(newProjectsRenameCmd(app))
	cmd.AddCommand(newProjectsDeleteCmd(app))
	return cmd
}

func newProjectsCreateCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project and make it active",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				return a.CreateProject(ctx, strings.TrimSpace(name))
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				active := ""
				if p, ok := a.ActiveProject(); ok {
					active = p.ID
				}
				return envelope{Data: a.WS.Projects, Meta: map[string]any{"activeProjectId": active}}, nil
			})
		},
	}
}

func newProjectsUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <project-id>",
		Short: "Switch the active project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				return a.SwitchProject(ctx, strings.TrimSpace(args[0]))
			})
		},
	}
}

func newProjectsRenameCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename <project-id>",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				return a.RenameProject(ctx, strings.TrimSpace(args[0]), name)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New project name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project with all of its briefs, notes, copy and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				out, err := a.DeleteProject(ctx, strings.TrimSpace(args[0]))
				return deleteEnvelope(out, "project", args[0]), err
			})
		},
	}
}

func deleteEnvelope(out core.DeleteOutcome, kind, id string) any {
	switch {
	case out.Declined:
		return aborted("declined")
	case !out.Deleted:
		return aborted(store.NotFoundError{Kind: kind, ID: id}.Error())
	}
	return envelope{Data: out, Meta: map[string]any{
		"briefs": len(out.Result.Briefs),
		"notes":  len(out.Result.Notes),
		"copy":   len(out.Result.Copy),
		"tasks":  len(out.Result.Tasks),
	}}
}

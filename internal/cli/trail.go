package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	core "brieflink/internal/app"
	"brieflink/internal/model"
)

func newTrailCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "trail",
		Aliases: []string{"breadcrumbs"},
		Short:   "Breadcrumb trail of recently opened items",
	}
	cmd.AddCommand(newTrailListCmd(app))
	cmd.AddCommand(newTrailVisitCmd(app))
	cmd.AddCommand(newTrailGoCmd(app))
	cmd.AddCommand(newTrailClearCmd(app))
	return cmd
}

func newTrailListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List breadcrumbs, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				return a.Trail.Crumbs(), nil
			})
		},
	}
}

func newTrailVisitCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "visit <brief|note|copy|task> <id>",
		Short: "Open an item, recording it on the trail",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := model.ParseItemType(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				ref, err := resolveRef(a, projectID, typ, args[1])
				if err != nil {
					return nil, err
				}
				return a.OpenItem(ctx, ref)
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: active project)")
	return cmd
}

func newTrailGoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "go <crumb-id>",
		Short: "Navigate to a breadcrumb, switching project first when needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				res, err := a.Navigate(ctx, strings.TrimSpace(args[0]))
				if err != nil {
					return nil, err
				}
				if res.Aborted {
					return envelope{Data: res, Meta: map[string]any{"aborted": "item no longer exists"}}, nil
				}
				return res, nil
			})
		},
	}
}

func newTrailClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget every breadcrumb",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				if err := a.ClearTrail(ctx); err != nil {
					return nil, err
				}
				return a.Trail.Crumbs(), nil
			})
		},
	}
}

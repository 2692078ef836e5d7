package cli

import (
	"context"

	"github.com/spf13/cobra"

	core "brieflink/internal/app"
	"brieflink/internal/publish"
)

func newPublishCmd(app *App) *cobra.Command {
	var toDir string
	var projectID string
	var includeCompleted bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Export derived Markdown artifacts (not canonical)",
	}

	briefCmd := &cobra.Command{
		Use:   "brief <brief-id>",
		Short: "Publish a brief with its linked notes, copy and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				p, err := a.ResolveProject(projectID)
				if err != nil {
					return nil, err
				}
				return publish.WriteBrief(a.WS, p.ID, args[0], toDir, publish.WriteOptions{
					IncludeCompleted: includeCompleted,
					Overwrite:        overwrite,
				})
			})
		},
	}
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Publish a project index + brief pages as Markdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				p, err := a.ResolveProject(projectID)
				if err != nil {
					return nil, err
				}
				return publish.WriteProject(a.WS, p.ID, toDir, publish.WriteOptions{
					IncludeCompleted: includeCompleted,
					Overwrite:        overwrite,
				})
			})
		},
	}

	for _, c := range []*cobra.Command{briefCmd, projectCmd} {
		c.Flags().StringVar(&toDir, "to", "", "Output directory")
		c.Flags().StringVar(&projectID, "project", "", "Project id (default: active project)")
		c.Flags().BoolVar(&includeCompleted, "include-completed", false, "Include completed tasks")
		c.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")
		_ = c.MarkFlagRequired("to")
	}

	cmd.AddCommand(briefCmd)
	cmd.AddCommand(projectCmd)
	return cmd
}

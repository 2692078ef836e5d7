package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	core "brieflink/internal/app"
	"brieflink/internal/links"
	"brieflink/internal/model"
	"brieflink/internal/store"
)

func newBriefsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "briefs",
		Aliases: []string{"brief"},
		Short:   "Brief commands",
	}
	cmd.AddCommand(newBriefsCreateCmd(app))
	cmd.AddCommand(newBriefsListCmd(app))
	cmd.AddCommand(newBriefsShowCmd(app))
	cmd.AddCommand(newBriefsEditCmd(app))
	cmd.AddCommand(newBriefsDeleteCmd(app))
	return cmd
}

func newBriefsCreateCmd(app *App) *cobra.Command {
	var projectID string
	var in store.BriefInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a brief (it gets the next link color)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				return a.CreateBrief(ctx, projectID, in)
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: active project)")
	cmd.Flags().StringVar(&in.Title, "title", "", "Brief title")
	cmd.Flags().StringVar(&in.Proposition, "proposition", "", "Single-minded proposition")
	cmd.Flags().StringVar(&in.ClientBrief, "client-brief", "", "Client brief text")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newBriefsListCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List briefs in a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				p, err := a.ResolveProject(projectID)
				if err != nil {
					return nil, err
				}
				return p.Briefs, nil
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: active project)")
	return cmd
}

type briefDetail struct {
	model.Brief
	ProjectID string          `json:"projectId"`
	Linked    []model.ItemRef `json:"linked"`
}

func newBriefsShowCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "show <brief-id>",
		Short: "Show a brief and everything linked to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				p, err := a.ResolveProject(projectID)
				if err != nil {
					return nil, err
				}
				id := strings.TrimSpace(args[0])
				b, ok := a.WS.FindBrief(p.ID, id)
				if !ok {
					return nil, store.NotFoundError{Kind: "brief", ID: id}
				}
				ref := model.ItemRef{ProjectID: p.ID, ItemID: id, Type: model.ItemBrief}
				return briefDetail{Brief: *b, ProjectID: p.ID, Linked: descendants(a.WS, ref)}, nil
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: active project)")
	return cmd
}

// descendants lists everything reachable from ref through links, nearest first.
func descendants(ws *store.Workspace, ref model.ItemRef) []model.ItemRef {
	out := []model.ItemRef{}
	seen := map[string]bool{ref.Key(): true}
	queue := []model.ItemRef{ref}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range links.Children(ws, cur) {
			if seen[c.Key()] {
				continue
			}
			seen[c.Key()] = true
			out = append(out, c)
			queue = append(queue, c)
		}
	}
	return out
}

func newBriefsEditCmd(app *App) *cobra.Command {
	var projectID string
	var title, proposition, clientBrief string

	cmd := &cobra.Command{
		Use:   "edit <brief-id>",
		Short: "Edit a brief",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch store.BriefPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("proposition") {
				patch.Proposition = &proposition
			}
			if cmd.Flags().Changed("client-brief") {
				patch.ClientBrief = &clientBrief
			}
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				return a.UpdateBrief(ctx, projectID, strings.TrimSpace(args[0]), patch)
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: active project)")
	cmd.Flags().StringVar(&title, "title", "", "Brief title")
	cmd.Flags().StringVar(&proposition, "proposition", "", "Single-minded proposition")
	cmd.Flags().StringVar(&clientBrief, "client-brief", "", "Client brief text")
	return cmd
}

func newBriefsDeleteCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "delete <brief-id>",
		Short: "Delete a brief with its linked notes, copy and derived tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				id := strings.TrimSpace(args[0])
				out, err := a.DeleteBrief(ctx, projectID, id)
				return deleteEnvelope(out, "brief", id), err
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: active project)")
	return cmd
}

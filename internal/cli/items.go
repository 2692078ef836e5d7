package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	core "brieflink/internal/app"
	"brieflink/internal/model"
	"brieflink/internal/store"
)

// newItemsCmd builds the notes or copy command tree; both collections share
// the same shape.
func newItemsCmd(app *App, typ model.ItemType) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"note"},
		Short:   "Note commands",
	}
	if typ == model.ItemCopy {
		cmd.Use, cmd.Aliases, cmd.Short = "copy", nil, "Copy commands"
	}
	cmd.AddCommand(newItemsCreateCmd(app, typ))
	cmd.AddCommand(newItemsListCmd(app, typ))
	cmd.AddCommand(newItemsShowCmd(app, typ))
	cmd.AddCommand(newItemsEditCmd(app, typ))
	cmd.AddCommand(newItemsLinkCmd(app, typ))
	cmd.AddCommand(newItemsMoveCmd(app, typ))
	cmd.AddCommand(newItemsDeleteCmd(app, typ))
	return cmd
}

func newItemsCreateCmd(app *App, typ model.ItemType) *cobra.Command {
	var projectID string
	var in store.ItemInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a %s entry", typ),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				return a.CreateItem(ctx, projectID, typ, in)
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: active project)")
	cmd.Flags().StringVar(&in.Title, "title", "", "Title")
	cmd.Flags().StringVar(&in.Content, "content", "", "Body text")
	cmd.Flags().StringVar(&in.LinkedBriefID, "brief", "", "Brief to link to")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

type itemRow struct {
	model.Item
	Type      model.ItemType `json:"type"`
	LinkColor string         `json:"linkColor,omitempty"`
}

func newItemsListCmd(app *App, typ model.ItemType) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s entries in display order", typ),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				p, err := a.ResolveProject(projectID)
				if err != nil {
					return nil, err
				}
				items := store.SortedItems(p, typ)
				out := make([]itemRow, 0, len(items))
				for _, it := range items {
					c, _ := a.ColorFor(model.ItemRef{ProjectID: p.ID, ItemID: it.ID, Type: typ})
					out = append(out, itemRow{Item: it, Type: typ, LinkColor: c})
				}
				return out, nil
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: active project)")
	return cmd
}

func newItemsShowCmd(app *App, typ model.ItemType) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("show <%s-id>", typ),
		Short: fmt.Sprintf("Show a %s entry", typ),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				p, err := a.ResolveProject(projectID)
				if err != nil {
					return nil, err
				}
				id := strings.TrimSpace(args[0])
				it, ok := a.WS.FindItem(p.ID, typ, id)
				if !ok {
					return nil, store.NotFoundError{Kind: string(typ), ID: id}
				}
				c, _ := a.ColorFor(model.ItemRef{ProjectID: p.ID, ItemID: id, Type: typ})
				return itemRow{Item: *it, Type: typ, LinkColor: c}, nil
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: active project)")
	return cmd
}

func newItemsEditCmd(app *App, typ model.ItemType) *cobra.Command {
	var projectID string
	var title, content string

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("edit <%s-id>", typ),
		Short: fmt.Sprintf("Edit a %s entry", typ),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch store.ItemPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("content") {
				patch.Content = &content
			}
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				return a.UpdateItem(ctx, projectID, typ, strings.TrimSpace(args[0]), patch)
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: active project)")
	cmd.Flags().StringVar(&title, "title", "", "Title")
	cmd.Flags().StringVar(&content, "content", "", "Body text")
	return cmd
}

func newItemsLinkCmd(app *App, typ model.ItemType) *cobra.Command {
	var projectID string
	var briefID string
	var unlink bool

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("link <%s-id>", typ),
		Short: fmt.Sprintf("Link a %s entry to a brief (or --unlink)", typ),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !unlink && strings.TrimSpace(briefID) == "" {
				return writeErr(cmd, fmt.Errorf("missing --brief (or pass --unlink)"))
			}
			if unlink {
				briefID = ""
			}
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				return a.LinkItem(ctx, projectID, typ, strings.TrimSpace(args[0]), strings.TrimSpace(briefID))
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: active project)")
	cmd.Flags().StringVar(&briefID, "brief", "", "Brief id")
	cmd.Flags().BoolVar(&unlink, "unlink", false, "Remove the brief link")
	return cmd
}

func newItemsMoveCmd(app *App, typ model.ItemType) *cobra.Command {
	var projectID string
	to := model.ItemCopy
	if typ == model.ItemCopy {
		to = model.ItemNote
	}

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("move <%s-id>", typ),
		Short: fmt.Sprintf("Move a %s entry to %s (it lands first)", typ, to),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				p, err := a.ResolveProject(projectID)
				if err != nil {
					return nil, err
				}
				id := strings.TrimSpace(args[0])
				if _, ok := a.WS.FindItem(p.ID, typ, id); !ok {
					return nil, store.NotFoundError{Kind: string(typ), ID: id}
				}
				drag := core.DragState{Kind: core.DragItem, Ref: model.ItemRef{ProjectID: p.ID, ItemID: id, Type: typ}}
				if err := a.BeginDrag(drag); err != nil {
					return nil, err
				}
				moved, err := a.Drop(ctx, core.DropTarget{Collection: to})
				if err != nil {
					return nil, err
				}
				if !moved {
					return aborted("not moved"), nil
				}
				it, _ := a.WS.FindItem(p.ID, to, id)
				return itemRow{Item: *it, Type: to}, nil
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: active project)")
	return cmd
}

func newItemsDeleteCmd(app *App, typ model.ItemType) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("delete <%s-id>", typ),
		Short: fmt.Sprintf("Delete a %s entry and tasks derived from it", typ),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				id := strings.TrimSpace(args[0])
				var out core.DeleteOutcome
				var err error
				if typ == model.ItemCopy {
					out, err = a.DeleteCopy(ctx, projectID, id)
				} else {
					out, err = a.DeleteNote(ctx, projectID, id)
				}
				return deleteEnvelope(out, string(typ), id), err
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: active project)")
	return cmd
}

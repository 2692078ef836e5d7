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

type colorResult struct {
	Ref   model.ItemRef   `json:"ref"`
	Color string          `json:"color"`
	Chain []model.ItemRef `json:"chain"`
}

func newColorCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "color <brief|note|copy|task> <id>",
		Short: "Resolve the link color of an item through its brief chain",
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
				c, _ := a.ColorFor(ref)
				return colorResult{Ref: ref, Color: c, Chain: links.SourceChain(a.WS, ref)}, nil
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: active project)")
	return cmd
}

// resolveRef builds a reference to an existing item in the given (or active) project.
func resolveRef(a *core.App, projectID string, typ model.ItemType, id string) (model.ItemRef, error) {
	p, err := a.ResolveProject(projectID)
	if err != nil {
		return model.ItemRef{}, err
	}
	ref := model.ItemRef{ProjectID: p.ID, ItemID: strings.TrimSpace(id), Type: typ}
	if !a.WS.Exists(ref) {
		return model.ItemRef{}, store.NotFoundError{Kind: string(typ), ID: ref.ItemID}
	}
	return ref, nil
}

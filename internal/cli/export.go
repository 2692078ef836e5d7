package cli

import (
	"context"

	"github.com/spf13/cobra"

	core "brieflink/internal/app"
	"brieflink/internal/model"
)

type exportDoc struct {
	Projects        []model.Project       `json:"projects"`
	GlobalTaskOrder model.GlobalTaskOrder `json:"globalTaskOrder"`
	WorkContext     model.WorkContext     `json:"workContext"`
}

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export every persisted key",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				return exportDoc{
					Projects:        a.WS.Projects,
					GlobalTaskOrder: a.WS.Order,
					WorkContext:     a.Trail.WorkContext(),
				}, nil
			})
		},
	}
}

package cli

import (
	"fmt"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	core "brieflink/internal/app"
	"brieflink/internal/model"
	"brieflink/internal/render"
)

// newViewCmd prints styled terminal views instead of the data envelope.
func newViewCmd(app *App) *cobra.Command {
	var width int
	var plain bool
	var projectID string
	var watch bool

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Render views for humans",
	}
	cmd.PersistentFlags().IntVar(&width, "width", 80, "Wrap width")
	cmd.PersistentFlags().BoolVar(&plain, "plain", false, "Disable colors")
	cmd.PersistentFlags().StringVar(&projectID, "project", "", "Project id (default: active project)")
	cmd.PersistentFlags().BoolVar(&watch, "watch", false, "Re-render whenever the data dir changes")

	terminal := func(cmd *cobra.Command, a *core.App) *render.Terminal {
		opts := []render.Option{render.WithWidth(width), render.WithColors(a.ColorFor)}
		if plain {
			opts = append(opts, render.WithProfile(termenv.Ascii))
		}
		return render.NewTerminal(cmd.OutOrStdout(), opts...)
	}

	once := func(cmd *cobra.Command, fn func(t *render.Terminal, a *core.App) (string, error)) error {
		a, err := openApp(cmd, app)
		if err != nil {
			return err
		}
		defer a.Close()
		out, err := fn(terminal(cmd, a), a)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	}

	show := func(cmd *cobra.Command, fn func(t *render.Terminal, a *core.App) (string, error)) error {
		if err := once(cmd, fn); err != nil {
			return writeErr(cmd, err)
		}
		if !watch {
			return nil
		}
		err := watchDir(cmd.Context(), app.Dir, app.logger(), storedFingerprint(cmd, app), func() error {
			return once(cmd, fn)
		})
		if err != nil {
			return writeErr(cmd, err)
		}
		return nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "project [project-id]",
		Short: "Render a project (default: active project)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd, func(t *render.Terminal, a *core.App) (string, error) {
				id := projectID
				if len(args) == 1 {
					id = args[0]
				}
				p, err := a.ResolveProject(id)
				if err != nil {
					return "", err
				}
				return t.ProjectView(*p), nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "tasks",
		Short: "Render the cross-project task view",
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd, func(t *render.Terminal, a *core.App) (string, error) {
				return t.GlobalTasks(a.GlobalView()), nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "trail",
		Short: "Render the breadcrumb trail",
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd, func(t *render.Terminal, a *core.App) (string, error) {
				return t.Breadcrumbs(a.Trail.Crumbs()), nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "item <brief|note|copy|task> <id>",
		Short: "Render an item's content",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd, func(t *render.Terminal, a *core.App) (string, error) {
				typ, err := model.ParseItemType(args[0])
				if err != nil {
					return "", err
				}
				ref, err := resolveRef(a, projectID, typ, args[1])
				if err != nil {
					return "", err
				}
				title, body := itemText(a.WS, ref)
				return title + "\n\n" + t.Content(body, false), nil
			})
		},
	})
	return cmd
}

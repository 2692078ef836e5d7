package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	core "brieflink/internal/app"
	"brieflink/internal/model"
	"brieflink/internal/ranker"
	"brieflink/internal/store"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Task commands",
	}
	cmd.AddCommand(newTasksCreateCmd(app))
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksEditCmd(app))
	cmd.AddCommand(newTasksToggleCmd(app))
	cmd.AddCommand(newTasksMoveCmd(app))
	cmd.AddCommand(newTasksOrderCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))
	cmd.AddCommand(newTasksGlobalCmd(app))
	cmd.AddCommand(newTasksSweepCmd(app))
	return cmd
}

// parseSource splits "<type>:<id>" (e.g. note:abcd).
func parseSource(s string) (model.ItemType, string, error) {
	typ, id, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || strings.TrimSpace(id) == "" {
		return "", "", errInvalidFlag("source", s, "brief:<id>", "note:<id>", "copy:<id>")
	}
	t, err := model.ParseItemType(typ)
	if err != nil {
		return "", "", err
	}
	if !t.CanSource() {
		return "", "", errInvalidFlag("source", s, "brief:<id>", "note:<id>", "copy:<id>")
	}
	return t, strings.TrimSpace(id), nil
}

func newTasksCreateCmd(app *App) *cobra.Command {
	var projectID string
	var source, sourceProject string
	var in store.TaskInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task, optionally derived from a brief, note or copy entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(source) != "" {
				typ, id, err := parseSource(source)
				if err != nil {
					return writeErr(cmd, err)
				}
				in.SourceItemType, in.SourceItemID = typ, id
				in.SourceProjectID = strings.TrimSpace(sourceProject)
			}
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				return a.CreateTask(ctx, projectID, in)
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: active project)")
	cmd.Flags().StringVar(&in.Title, "title", "", "Task title")
	cmd.Flags().StringVar(&in.Content, "content", "", "Task details")
	cmd.Flags().StringVar(&source, "source", "", "Source item as <type>:<id> (brief|note|copy)")
	cmd.Flags().StringVar(&sourceProject, "source-project", "", "Project of the source item (default: the task's project)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				p, err := a.ResolveProject(projectID)
				if err != nil {
					return nil, err
				}
				out := make([]ranker.TaskView, 0, len(p.Tasks))
				for _, t := range p.Tasks {
					c, _ := a.ColorFor(model.ItemRef{ProjectID: p.ID, ItemID: t.ID, Type: model.ItemTask})
					out = append(out, ranker.TaskView{
						Task:         t,
						UniqueID:     model.TaskKey(p.ID, t.ID),
						ProjectID:    p.ID,
						ProjectName:  p.Name,
						ProjectTheme: p.ColorTheme,
						LinkColor:    c,
					})
				}
				return out, nil
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: active project)")
	return cmd
}

func newTasksEditCmd(app *App) *cobra.Command {
	var projectID string
	var title, content string
	var order int

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Edit a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch store.TaskPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("content") {
				patch.Content = &content
			}
			if cmd.Flags().Changed("order") {
				patch.Order = &order
			}
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				return a.UpdateTask(ctx, projectID, strings.TrimSpace(args[0]), patch)
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: active project)")
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&content, "content", "", "Task details")
	cmd.Flags().IntVar(&order, "order", 0, "Position within the project")
	return cmd
}

func newTasksToggleCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "toggle <task-id>",
		Short: "Toggle task completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				return a.ToggleTask(ctx, projectID, strings.TrimSpace(args[0]))
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: active project)")
	return cmd
}

func newTasksMoveCmd(app *App) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "move <project-id>-<task-id>",
		Short: "Move a task into the top three or the other list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, ok := ranker.ParseSection(strings.TrimSpace(to))
			if !ok {
				return writeErr(cmd, errInvalidFlag("to", to, string(ranker.SectionTop), string(ranker.SectionOther)))
			}
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				if err := a.BeginDrag(core.DragState{Kind: core.DragTask, TaskKey: strings.TrimSpace(args[0])}); err != nil {
					return nil, err
				}
				moved, err := a.Drop(ctx, core.DropTarget{Section: section})
				if err != nil {
					return nil, err
				}
				if !moved {
					return aborted("not moved"), nil
				}
				return a.GlobalView(), nil
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Target section (top|other)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newTasksOrderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "order [<project-id>-<task-id>]",
		Short: "Show the persisted manual task order, or where one task sits in it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				if len(args) == 0 {
					return a.WS.Order, nil
				}
				key := strings.TrimSpace(args[0])
				section, ok := ranker.SectionOf(a.WS.Order, key)
				if !ok {
					return aborted("not in the manual order"), nil
				}
				return map[string]any{"task": key, "section": section}, nil
			})
		},
	}
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				id := strings.TrimSpace(args[0])
				out, err := a.DeleteTask(ctx, projectID, id)
				return deleteEnvelope(out, "task", id), err
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: active project)")
	return cmd
}

func newTasksGlobalCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "global",
		Short: "Show the cross-project task view (top three + other)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				return a.GlobalView(), nil
			})
		},
	}
}

func newTasksSweepCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Remove completed tasks older than tasks.retention",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				return a.Sweep(ctx)
			})
		},
	}
}

package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	core "brieflink/internal/app"
	"brieflink/internal/model"
	"brieflink/internal/store"
	"brieflink/internal/worktrail"
)

func newContextCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Save and resume editing sessions",
	}
	cmd.AddCommand(newContextSaveCmd(app))
	cmd.AddCommand(newContextShowCmd(app))
	cmd.AddCommand(newContextResumeCmd(app))
	cmd.AddCommand(newContextClearCmd(app))
	return cmd
}

// parsePair reads "a,b" into two ints.
func parsePair(flag, s string) (int, int, error) {
	a, b, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return 0, 0, errInvalidFlag(flag, s, "<n>,<n>")
	}
	x, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, errInvalidFlag(flag, s, "<n>,<n>")
	}
	y, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, errInvalidFlag(flag, s, "<n>,<n>")
	}
	return x, y, nil
}

// itemText returns the stored title and body of ref.
func itemText(ws *store.Workspace, ref model.ItemRef) (string, string) {
	switch ref.Type {
	case model.ItemBrief:
		if b, ok := ws.FindBrief(ref.ProjectID, ref.ItemID); ok {
			return b.Title, strings.TrimSpace(b.Proposition + "\n\n" + b.ClientBrief)
		}
	case model.ItemNote, model.ItemCopy:
		if it, ok := ws.FindItem(ref.ProjectID, ref.Type, ref.ItemID); ok {
			return it.Title, it.Content
		}
	case model.ItemTask:
		if t, ok := ws.FindTask(ref.ProjectID, ref.ItemID); ok {
			return t.Title, t.Content
		}
	}
	return "", ""
}

func newContextSaveCmd(app *App) *cobra.Command {
	var projectID string
	var title, content, cursor, scroll string
	var rich bool

	cmd := &cobra.Command{
		Use:   "save <brief|note|copy|task> <id>",
		Short: "Record the editor state for an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := model.ParseItemType(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			var st worktrail.EditorState
			st.IsRichText = rich
			if cursor != "" {
				s, e, err := parsePair("cursor", cursor)
				if err != nil {
					return writeErr(cmd, err)
				}
				st.Cursor = model.Selection{Start: s, End: e}
			}
			if scroll != "" {
				top, left, err := parsePair("scroll", scroll)
				if err != nil {
					return writeErr(cmd, err)
				}
				st.Scroll = model.Scroll{Top: top, Left: left}
			}
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				ref, err := resolveRef(a, projectID, typ, args[1])
				if err != nil {
					return nil, err
				}
				st.Title, st.Content = itemText(a.WS, ref)
				if cmd.Flags().Changed("title") {
					st.Title = title
				}
				if cmd.Flags().Changed("content") {
					st.Content = content
				}
				return a.SaveContext(ctx, ref, st)
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: active project)")
	cmd.Flags().StringVar(&title, "title", "", "Unsaved title (default: stored title)")
	cmd.Flags().StringVar(&content, "content", "", "Unsaved body (default: stored body)")
	cmd.Flags().BoolVar(&rich, "rich", false, "Body is HTML rich text")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Selection as <start>,<end>")
	cmd.Flags().StringVar(&scroll, "scroll", "", "Scroll position as <top>,<left>")
	return cmd
}

type contextView struct {
	Current  *model.Snapshot           `json:"currentContext"`
	Global   model.GlobalContext       `json:"globalContext"`
	Projects map[string]model.Snapshot `json:"projectContexts"`
}

func newContextShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the saved session context",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				wc := a.Trail.WorkContext()
				return contextView{Current: wc.CurrentContext, Global: wc.GlobalContext, Projects: wc.ProjectContexts}, nil
			})
		},
	}
}

func newContextResumeCmd(app *App) *cobra.Command {
	var dismiss bool

	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Resume the last editing session (title, content, cursor, scroll)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				offer, ok := a.OfferResume(ctx)
				if !ok {
					return aborted("nothing to resume"), nil
				}
				if dismiss {
					a.DismissResume(offer)
					return envelope{Data: offer.Snapshot, Meta: map[string]any{"dismissed": true}}, nil
				}
				res, ok, err := a.AcceptResume(ctx, offer)
				if err != nil {
					return nil, fmt.Errorf("resume: %w", err)
				}
				if !ok {
					return aborted("offer expired"), nil
				}
				return res, nil
			})
		},
	}
	cmd.Flags().BoolVar(&dismiss, "dismiss", false, "Decline the offer instead of replaying it")
	return cmd
}

func newContextClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop the saved session context",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, app, func(ctx context.Context, a *core.App) (any, error) {
				if err := a.ClearContext(ctx); err != nil {
					return nil, err
				}
				return map[string]any{"cleared": true}, nil
			})
		},
	}
}

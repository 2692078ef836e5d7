package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"brieflink/internal/cascade"
	"brieflink/internal/model"
	"brieflink/internal/ranker"
)

// DeleteOutcome describes a delete attempt.
type DeleteOutcome struct {
	// Deleted is false for unknown ids and declined confirmations.
	Deleted  bool           `json:"deleted"`
	Declined bool           `json:"declined,omitempty"`
	Summary  string         `json:"summary,omitempty"`
	Result   cascade.Result `json:"-"`
}

func (a *App) DeleteBrief(ctx context.Context, projectID, id string) (DeleteOutcome, error) {
	return a.deleteItem(ctx, projectID, model.ItemBrief, id)
}

func (a *App) DeleteNote(ctx context.Context, projectID, id string) (DeleteOutcome, error) {
	return a.deleteItem(ctx, projectID, model.ItemNote, id)
}

func (a *App) DeleteCopy(ctx context.Context, projectID, id string) (DeleteOutcome, error) {
	return a.deleteItem(ctx, projectID, model.ItemCopy, id)
}

func (a *App) DeleteTask(ctx context.Context, projectID, id string) (DeleteOutcome, error) {
	return a.deleteItem(ctx, projectID, model.ItemTask, id)
}

func (a *App) deleteItem(ctx context.Context, projectID string, typ model.ItemType, id string) (DeleteOutcome, error) {
	p, err := a.ResolveProject(projectID)
	if err != nil {
		return DeleteOutcome{}, err
	}
	ref := model.ItemRef{ProjectID: p.ID, ItemID: id, Type: typ}
	plan, ok := cascade.PlanItem(a.WS, ref)
	if !ok {
		return DeleteOutcome{}, nil
	}
	return a.applyDelete(ctx, plan, fmt.Sprintf("Delete %s", typ), confirmMessage(plan))
}

// DeleteProject removes a project and everything nested in it.
func (a *App) DeleteProject(ctx context.Context, id string) (DeleteOutcome, error) {
	plan, ok := cascade.PlanProject(a.WS, id)
	if !ok {
		return DeleteOutcome{}, nil
	}
	msg := fmt.Sprintf("Delete project %q and everything in it?", plan.ProjectName)
	return a.applyDelete(ctx, plan, "Delete project", msg)
}

func confirmMessage(plan cascade.Plan) string {
	n := len(plan.Removed) - 1
	if n <= 0 {
		return fmt.Sprintf("Delete %s %q?", plan.Root.Type, plan.RootTitle)
	}
	return fmt.Sprintf("Delete %s %q? %d linked item(s) will also be deleted.", plan.Root.Type, plan.RootTitle, n)
}

func (a *App) applyDelete(ctx context.Context, plan cascade.Plan, title, msg string) (DeleteOutcome, error) {
	ok, err := a.Confirmer.Confirm(ctx, title, msg)
	if err != nil {
		return DeleteOutcome{}, err
	}
	if !ok {
		return DeleteOutcome{Declined: true}, nil
	}

	res := cascade.Apply(a.WS, plan)
	ranker.RemoveKeys(&a.WS.Order, res.TaskKeys()...)
	ranker.Purge(a.WS)

	a.Trail.Prune(func(r model.ItemRef) bool { return !res.Contains(r) })
	if a.open != nil && res.Contains(*a.open) {
		a.open = nil
		if a.Editor != nil {
			_ = a.Editor.Close(ctx)
		}
	}
	if plan.Project != "" && a.Trail.Global().ActiveProjectID == plan.Project {
		a.Trail.SetGlobal(model.GlobalContext{View: "global"})
	}

	if err := a.persist(ctx); err != nil {
		return DeleteOutcome{}, err
	}
	if err := a.persistTrail(ctx); err != nil {
		return DeleteOutcome{}, err
	}

	summary := res.Summary()
	a.log.Info("delete cascaded",
		zap.String("summary", summary),
		zap.Int("briefs", len(res.Briefs)),
		zap.Int("notes", len(res.Notes)),
		zap.Int("copy", len(res.Copy)),
		zap.Int("tasks", len(res.Tasks)),
	)
	a.Notifier.Notify(ctx, summary)
	if plan.Project == "" {
		a.renderProject(ctx, plan.Root.ProjectID)
	}
	a.renderGlobal(ctx)
	a.Renderer.RenderBreadcrumbs(ctx, a.Trail.Crumbs())
	return DeleteOutcome{Deleted: true, Summary: summary, Result: res}, nil
}

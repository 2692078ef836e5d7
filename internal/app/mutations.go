package app

import (
	"context"

	"go.uber.org/zap"

	"brieflink/internal/model"
	"brieflink/internal/ranker"
	"brieflink/internal/store"
)

// CreateProject adds a project and makes it active.
func (a *App) CreateProject(ctx context.Context, name string) (*model.Project, error) {
	p, err := a.WS.CreateProject(name)
	if err != nil {
		return nil, err
	}
	id := p.ID
	if err := a.persist(ctx); err != nil {
		return nil, err
	}
	return a.SwitchProject(ctx, id)
}

func (a *App) RenameProject(ctx context.Context, id, name string) (*model.Project, error) {
	p, err := a.WS.RenameProject(id, name)
	if err != nil {
		return nil, err
	}
	if err := a.persist(ctx); err != nil {
		return nil, err
	}
	a.Renderer.RenderProjectView(ctx, *p)
	return p, nil
}

func (a *App) CreateBrief(ctx context.Context, projectID string, in store.BriefInput) (*model.Brief, error) {
	p, err := a.ResolveProject(projectID)
	if err != nil {
		return nil, err
	}
	b, err := a.WS.CreateBrief(p.ID, in)
	if err != nil {
		return nil, err
	}
	if err := a.persist(ctx); err != nil {
		return nil, err
	}
	a.renderProject(ctx, p.ID)
	return b, nil
}

func (a *App) UpdateBrief(ctx context.Context, projectID, id string, patch store.BriefPatch) (*model.Brief, error) {
	p, err := a.ResolveProject(projectID)
	if err != nil {
		return nil, err
	}
	b, err := a.WS.UpdateBrief(p.ID, id, patch)
	if err != nil {
		return nil, err
	}
	a.retitle(ctx, model.ItemRef{ProjectID: p.ID, ItemID: b.ID, Type: model.ItemBrief}, b.Title)
	if err := a.persist(ctx); err != nil {
		return nil, err
	}
	a.renderProject(ctx, p.ID)
	return b, nil
}

// CreateItem adds a note or copy entry.
func (a *App) CreateItem(ctx context.Context, projectID string, typ model.ItemType, in store.ItemInput) (*model.Item, error) {
	p, err := a.ResolveProject(projectID)
	if err != nil {
		return nil, err
	}
	it, err := a.WS.CreateItem(p.ID, typ, in)
	if err != nil {
		return nil, err
	}
	if err := a.persist(ctx); err != nil {
		return nil, err
	}
	a.renderProject(ctx, p.ID)
	return it, nil
}

func (a *App) UpdateItem(ctx context.Context, projectID string, typ model.ItemType, id string, patch store.ItemPatch) (*model.Item, error) {
	p, err := a.ResolveProject(projectID)
	if err != nil {
		return nil, err
	}
	it, err := a.WS.UpdateItem(p.ID, typ, id, patch)
	if err != nil {
		return nil, err
	}
	a.retitle(ctx, model.ItemRef{ProjectID: p.ID, ItemID: it.ID, Type: typ}, it.Title)
	if err := a.persist(ctx); err != nil {
		return nil, err
	}
	a.renderProject(ctx, p.ID)
	return it, nil
}

// LinkItem links a note/copy entry to a brief; an empty briefID unlinks it.
func (a *App) LinkItem(ctx context.Context, projectID string, typ model.ItemType, id, briefID string) (*model.Item, error) {
	p, err := a.ResolveProject(projectID)
	if err != nil {
		return nil, err
	}
	it, err := a.WS.LinkItem(p.ID, typ, id, briefID)
	if err != nil {
		return nil, err
	}
	if err := a.persist(ctx); err != nil {
		return nil, err
	}
	a.renderProject(ctx, p.ID)
	return it, nil
}

// MoveItem moves a note to copy or vice versa. Breadcrumbs and saved
// contexts for the old location are dropped.
func (a *App) MoveItem(ctx context.Context, projectID string, from model.ItemType, id string) (*model.Item, model.ItemType, error) {
	p, err := a.ResolveProject(projectID)
	if err != nil {
		return nil, "", err
	}
	pid := p.ID
	it, to, err := a.WS.MoveItem(pid, from, id)
	if err != nil {
		return nil, "", err
	}
	if removed := a.Trail.Forget(model.ItemRef{ProjectID: pid, ItemID: id, Type: from}); len(removed) > 0 {
		if err := a.persistTrail(ctx); err != nil {
			return nil, "", err
		}
	}
	if err := a.persist(ctx); err != nil {
		return nil, "", err
	}
	a.renderProject(ctx, pid)
	return it, to, nil
}

func (a *App) CreateTask(ctx context.Context, projectID string, in store.TaskInput) (*model.Task, error) {
	p, err := a.ResolveProject(projectID)
	if err != nil {
		return nil, err
	}
	t, err := a.WS.CreateTask(p.ID, in)
	if err != nil {
		return nil, err
	}
	if err := a.persist(ctx); err != nil {
		return nil, err
	}
	a.renderProject(ctx, p.ID)
	a.renderGlobal(ctx)
	return t, nil
}

func (a *App) UpdateTask(ctx context.Context, projectID, id string, patch store.TaskPatch) (*model.Task, error) {
	p, err := a.ResolveProject(projectID)
	if err != nil {
		return nil, err
	}
	t, err := a.WS.UpdateTask(p.ID, id, patch)
	if err != nil {
		return nil, err
	}
	a.retitle(ctx, model.ItemRef{ProjectID: p.ID, ItemID: t.ID, Type: model.ItemTask}, t.Title)
	if err := a.persist(ctx); err != nil {
		return nil, err
	}
	a.renderGlobal(ctx)
	return t, nil
}

// ToggleTask flips completion. Completing evicts the task from the manual order.
func (a *App) ToggleTask(ctx context.Context, projectID, taskID string) (*model.Task, error) {
	p, err := a.ResolveProject(projectID)
	if err != nil {
		return nil, err
	}
	t, err := ranker.ToggleCompletion(a.WS, p.ID, taskID, a.now())
	if err != nil {
		return nil, err
	}
	if err := a.persist(ctx); err != nil {
		return nil, err
	}
	a.renderGlobal(ctx)
	return t, nil
}

// MoveTask places a task in the top three or in the rest. Unknown or
// completed tasks are ignored.
func (a *App) MoveTask(ctx context.Context, uniqueID string, section ranker.Section) (bool, error) {
	_, t, ok := a.WS.FindTaskByKey(uniqueID)
	if !ok {
		a.log.Debug("move of unknown task ignored", zap.String("task", uniqueID))
		return false, nil
	}
	if t.Completed {
		a.log.Debug("move of completed task ignored", zap.String("task", uniqueID))
		return false, nil
	}
	ranker.MoveTask(&a.WS.Order, uniqueID, section)
	if err := a.persist(ctx); err != nil {
		return false, err
	}
	a.renderGlobal(ctx)
	return true, nil
}

func (a *App) retitle(ctx context.Context, ref model.ItemRef, title string) {
	a.Trail.Retitle(ref, title)
	if err := a.persistTrail(ctx); err != nil {
		a.log.Warn("breadcrumb retitle not saved", zap.Error(err))
	}
}

// Package app wires the entity store, cascade engine, task ranker and
// context tracker to the view collaborators. Every mutating call follows the
// same shape: mutate, recompute, persist, render.
package app

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"brieflink/internal/links"
	"brieflink/internal/model"
	"brieflink/internal/ranker"
	"brieflink/internal/store"
	"brieflink/internal/worktrail"
)

// App is the application state object. It is driven from a single goroutine.
type App struct {
	WS    *store.Workspace
	Trail *worktrail.Tracker

	Renderer  Renderer
	Notifier  Notifier
	Confirmer Confirmer
	Editor    Editor

	Retention time.Duration

	log   *zap.Logger
	now   func() time.Time
	gw    store.Gateway
	drag  *DragState
	open  *model.ItemRef
	offer *worktrail.Offer
}

type Options struct {
	Logger    *zap.Logger
	Now       func() time.Time
	Retention time.Duration
	Tracker   worktrail.Config

	Renderer  Renderer
	Notifier  Notifier
	Confirmer Confirmer
	Editor    Editor
}

// Open loads all persisted state from gw, sweeps expired completed tasks and
// drops breadcrumbs that point at missing items.
func Open(ctx context.Context, gw store.Gateway, opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	ws, err := store.Load(ctx, gw, store.Options{Logger: log.Named("store"), Now: now})
	if err != nil {
		return nil, err
	}
	tr, err := worktrail.Load(ctx, gw, worktrail.Options{Config: opts.Tracker, Logger: log.Named("worktrail"), Now: now})
	if err != nil {
		return nil, err
	}
	a := &App{
		WS:        ws,
		Trail:     tr,
		Renderer:  opts.Renderer,
		Notifier:  opts.Notifier,
		Confirmer: opts.Confirmer,
		Editor:    opts.Editor,
		Retention: opts.Retention,
		log:       log,
		now:       now,
		gw:        gw,
	}
	if a.Renderer == nil {
		a.Renderer = nopRenderer{}
	}
	if a.Notifier == nil {
		a.Notifier = nopNotifier{}
	}
	if a.Confirmer == nil {
		a.Confirmer = denyConfirmer{}
	}
	if a.Retention <= 0 {
		a.Retention = ranker.DefaultRetention
	}

	if _, err := a.Sweep(ctx); err != nil {
		return nil, err
	}
	if removed := tr.Prune(ws.Exists); len(removed) > 0 {
		log.Debug("pruned stale breadcrumbs", zap.Int("count", len(removed)))
		if err := tr.Save(ctx); err != nil {
			return nil, err
		}
	}
	if g := tr.Global(); g.ActiveProjectID != "" {
		if _, ok := ws.FindProject(g.ActiveProjectID); !ok {
			tr.SetGlobal(model.GlobalContext{View: g.View})
			if err := tr.Save(ctx); err != nil {
				return nil, err
			}
		}
	}
	return a, nil
}

// Close cancels any pending resume offer and releases the gateway.
func (a *App) Close() error {
	if a.offer != nil {
		a.offer.Dismiss()
		a.offer = nil
	}
	if a.gw != nil {
		return a.gw.Close()
	}
	return nil
}

func (a *App) Logger() *zap.Logger { return a.log }

// persist writes the entity store through to the gateway.
func (a *App) persist(ctx context.Context) error {
	if err := a.WS.Save(ctx); err != nil {
		a.log.Error("persist workspace", zap.Error(err))
		return err
	}
	return nil
}

func (a *App) persistTrail(ctx context.Context) error {
	if err := a.Trail.Save(ctx); err != nil {
		a.log.Error("persist work context", zap.Error(err))
		return err
	}
	return nil
}

// ActiveProject returns the project the user is working in.
func (a *App) ActiveProject() (*model.Project, bool) {
	id := a.Trail.Global().ActiveProjectID
	if id == "" {
		return nil, false
	}
	return a.WS.FindProject(id)
}

// ResolveProject returns the named project or, for an empty id, the active one.
func (a *App) ResolveProject(id string) (*model.Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		p, ok := a.ActiveProject()
		if !ok {
			return nil, ErrNoProject
		}
		return p, nil
	}
	p, ok := a.WS.FindProject(id)
	if !ok {
		return nil, store.NotFoundError{Kind: "project", ID: id}
	}
	return p, nil
}

// SwitchProject makes id the active project and renders it.
func (a *App) SwitchProject(ctx context.Context, id string) (*model.Project, error) {
	p, ok := a.WS.FindProject(id)
	if !ok {
		return nil, store.NotFoundError{Kind: "project", ID: id}
	}
	a.Trail.SetGlobal(model.GlobalContext{ActiveProjectID: p.ID, View: "project"})
	if err := a.persistTrail(ctx); err != nil {
		return nil, err
	}
	a.Renderer.RenderProjectView(ctx, *p)
	return p, nil
}

func (a *App) renderProject(ctx context.Context, projectID string) {
	if p, ok := a.WS.FindProject(projectID); ok {
		a.Renderer.RenderProjectView(ctx, *p)
	}
}

func (a *App) renderGlobal(ctx context.Context) {
	a.Renderer.RenderGlobalTasks(ctx, ranker.ComputeView(a.WS))
}

// GlobalView computes the cross-project task view.
func (a *App) GlobalView() ranker.View {
	return ranker.ComputeView(a.WS)
}

// ColorFor resolves ref's link color.
func (a *App) ColorFor(ref model.ItemRef) (string, bool) {
	return links.ColorFor(a.WS, ref)
}

// Sweep removes completed tasks past retention and persists when anything changed.
func (a *App) Sweep(ctx context.Context) (ranker.SweepResult, error) {
	res := ranker.Sweep(a.WS, a.now(), a.Retention)
	if len(res.Removed) == 0 && len(res.Purged) == 0 {
		return res, nil
	}
	a.log.Info("swept tasks", zap.Int("removed", len(res.Removed)), zap.Int("purged", len(res.Purged)))
	a.Trail.Forget(res.Removed...)
	if err := a.persist(ctx); err != nil {
		return res, err
	}
	return res, a.persistTrail(ctx)
}

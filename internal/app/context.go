package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"brieflink/internal/model"
	"brieflink/internal/store"
	"brieflink/internal/worktrail"
)

// OpenItem opens ref in the editor. An editor already open on another item
// is snapshotted first so its work can be resumed later.
func (a *App) OpenItem(ctx context.Context, ref model.ItemRef) (model.Breadcrumb, error) {
	title, ok := a.WS.Title(ref)
	if !ok {
		return model.Breadcrumb{}, store.NotFoundError{Kind: string(ref.Type), ID: ref.ItemID}
	}
	if a.open != nil && *a.open != ref {
		a.captureOpen()
	}
	if a.Editor != nil {
		if err := a.Editor.Open(ctx, ref); err != nil {
			return model.Breadcrumb{}, err
		}
	}
	r := ref
	a.open = &r
	crumb := a.Trail.Visit(ref, title)
	if err := a.persistTrail(ctx); err != nil {
		return crumb, err
	}
	a.Renderer.RenderBreadcrumbs(ctx, a.Trail.Crumbs())
	return crumb, nil
}

// OpenRef is the item currently open in the editor.
func (a *App) OpenRef() (model.ItemRef, bool) {
	if a.open == nil {
		return model.ItemRef{}, false
	}
	return *a.open, true
}

func (a *App) captureOpen() (model.Snapshot, bool) {
	if a.open == nil || a.Editor == nil {
		return model.Snapshot{}, false
	}
	st, ok := a.Editor.Snapshot()
	if !ok {
		return model.Snapshot{}, false
	}
	return a.Trail.Capture(*a.open, st), true
}

// CaptureContext snapshots the open editor and persists it.
func (a *App) CaptureContext(ctx context.Context) (model.Snapshot, bool, error) {
	snap, ok := a.captureOpen()
	if !ok {
		return model.Snapshot{}, false, nil
	}
	return snap, true, a.persistTrail(ctx)
}

// SaveContext records an explicit editor state for ref, as if the user had
// navigated away from an editor showing it.
func (a *App) SaveContext(ctx context.Context, ref model.ItemRef, st worktrail.EditorState) (model.Snapshot, error) {
	if !a.WS.Exists(ref) {
		return model.Snapshot{}, store.NotFoundError{Kind: string(ref.Type), ID: ref.ItemID}
	}
	snap := a.Trail.Capture(ref, st)
	return snap, a.persistTrail(ctx)
}

// CloseEditor snapshots and closes the open editor.
func (a *App) CloseEditor(ctx context.Context) error {
	if a.open == nil {
		return nil
	}
	if _, _, err := a.CaptureContext(ctx); err != nil {
		return err
	}
	a.open = nil
	if a.Editor != nil {
		return a.Editor.Close(ctx)
	}
	return nil
}

// NavigateResult reports how far a breadcrumb navigation got.
type NavigateResult struct {
	Crumb    model.Breadcrumb `json:"crumb"`
	Stages   []string         `json:"stages"`
	Aborted  bool             `json:"aborted,omitempty"`
	Switched bool             `json:"switchedProject,omitempty"`
}

// Navigate opens the item behind a breadcrumb. When the crumb belongs to a
// different project, the project switch (and its render) completes before
// the item is opened. A crumb whose item is gone is purged and the
// navigation silently aborts.
func (a *App) Navigate(ctx context.Context, crumbID string) (NavigateResult, error) {
	crumb, ok := a.Trail.FindCrumb(crumbID)
	if !ok {
		return NavigateResult{Aborted: true}, nil
	}
	res := NavigateResult{Crumb: crumb}
	ref := crumb.Ref()
	if !a.WS.Exists(ref) {
		a.Trail.Forget(ref)
		res.Aborted = true
		return res, a.persistTrail(ctx)
	}

	var stages []worktrail.Stage
	if a.Trail.Global().ActiveProjectID != ref.ProjectID {
		res.Switched = true
		stages = append(stages, worktrail.Stage{Name: "switch-project", Run: func(ctx context.Context) error {
			_, err := a.SwitchProject(ctx, ref.ProjectID)
			return err
		}})
	}
	stages = append(stages, worktrail.Stage{Name: "open-item", Run: func(ctx context.Context) error {
		_, err := a.OpenItem(ctx, ref)
		return err
	}})
	done, err := worktrail.Pipeline{
		Name:   "navigate",
		Step:   a.Trail.Config.ReplayStep,
		Stages: stages,
		Logger: a.log,
	}.Run(ctx)
	res.Stages = done
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			res.Aborted = true
			return res, nil
		}
		return res, err
	}
	return res, nil
}

// OfferResume returns a resume offer for the last editing session when one
// is still worth resuming. Any earlier offer is dismissed.
func (a *App) OfferResume(ctx context.Context) (*worktrail.Offer, bool) {
	if a.offer != nil {
		a.offer.Dismiss()
		a.offer = nil
	}
	offer, ok := a.Trail.Offer(a.WS.Exists, func(o *worktrail.Offer) {
		a.log.Debug("resume offer expired", zap.String("offer", o.ID))
	})
	if !ok {
		return nil, false
	}
	a.offer = offer
	title, _ := a.WS.Title(offer.Snapshot.Ref())
	a.Notifier.Notify(ctx, "Resume editing "+string(offer.Snapshot.ItemType)+" \""+title+"\"?")
	return offer, true
}

// ResumeHint announces a resumable session through the Notifier without
// starting an offer; accepting it is left to an explicit resume.
func (a *App) ResumeHint(ctx context.Context) (model.Snapshot, bool) {
	snap, ok := a.Trail.ResumeCandidate(a.WS.Exists)
	if !ok {
		return model.Snapshot{}, false
	}
	title, _ := a.WS.Title(snap.Ref())
	a.Notifier.Notify(ctx, "Resume editing "+string(snap.ItemType)+" \""+title+"\"? Run `brieflink context resume`.")
	return snap, true
}

// ResumeResult reports the replay of an accepted offer.
type ResumeResult struct {
	Snapshot model.Snapshot `json:"snapshot"`
	Stages   []string       `json:"stages"`
}

// AcceptResume resolves offer and replays its snapshot: switch project if
// needed, open the item, then title, content, cursor and scroll in order.
// An offer that already expired or was dismissed is a silent no-op.
func (a *App) AcceptResume(ctx context.Context, offer *worktrail.Offer) (ResumeResult, bool, error) {
	if offer == nil || !offer.Accept() {
		return ResumeResult{}, false, nil
	}
	if a.offer == offer {
		a.offer = nil
	}
	if a.Editor == nil {
		return ResumeResult{}, false, ErrNoEditor
	}
	snap := offer.Snapshot
	ref := snap.Ref()
	if !a.WS.Exists(ref) {
		return ResumeResult{}, false, nil
	}

	var stages []worktrail.Stage
	if a.Trail.Global().ActiveProjectID != ref.ProjectID {
		stages = append(stages, worktrail.Stage{Name: "switch-project", Run: func(ctx context.Context) error {
			_, err := a.SwitchProject(ctx, ref.ProjectID)
			return err
		}})
	}
	stages = append(stages, worktrail.Stage{Name: "open-item", Run: func(ctx context.Context) error {
		_, err := a.OpenItem(ctx, ref)
		return err
	}})
	stages = append(stages, a.Trail.ReplayPipeline(a.Editor, snap).Stages...)

	done, err := worktrail.Pipeline{
		Name:   "resume",
		Step:   a.Trail.Config.ReplayStep,
		Stages: stages,
		Logger: a.log,
	}.Run(ctx)
	return ResumeResult{Snapshot: snap, Stages: done}, true, err
}

// DismissResume declines offer and cancels its auto-dismiss timer.
func (a *App) DismissResume(offer *worktrail.Offer) bool {
	if offer == nil {
		return false
	}
	if a.offer == offer {
		a.offer = nil
	}
	return offer.Dismiss()
}

// ClearContext drops the saved session snapshot.
func (a *App) ClearContext(ctx context.Context) error {
	a.Trail.ClearCurrent()
	return a.persistTrail(ctx)
}

// ClearTrail forgets every breadcrumb.
func (a *App) ClearTrail(ctx context.Context) error {
	a.Trail.ClearTrail()
	if err := a.persistTrail(ctx); err != nil {
		return err
	}
	a.Renderer.RenderBreadcrumbs(ctx, a.Trail.Crumbs())
	return nil
}

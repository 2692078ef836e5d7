package app

import (
	"context"

	"brieflink/internal/model"
	"brieflink/internal/ranker"
	"brieflink/internal/worktrail"
)

// Renderer draws views. Implementations must not mutate what they are given.
type Renderer interface {
	RenderProjectView(ctx context.Context, p model.Project)
	RenderGlobalTasks(ctx context.Context, v ranker.View)
	RenderBreadcrumbs(ctx context.Context, trail []model.Breadcrumb)
}

// Notifier shows non-blocking informational messages.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// Confirmer asks the user to approve a destructive action. Returning false
// or an error aborts the action.
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
}

// Editor is the item editor the context tracker snapshots and replays into.
type Editor interface {
	worktrail.EditorSink
	Open(ctx context.Context, ref model.ItemRef) error
	Close(ctx context.Context) error
	// Snapshot reports the editor's state; false when nothing is open.
	Snapshot() (worktrail.EditorState, bool)
}

type nopRenderer struct{}

func (nopRenderer) RenderProjectView(context.Context, model.Project) {}
func (nopRenderer) RenderGlobalTasks(context.Context, ranker.View) {}
func (nopRenderer) RenderBreadcrumbs(context.Context, []model.Breadcrumb) {}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, string) {}

// denyConfirmer refuses everything; destructive actions need an explicit Confirmer.
type denyConfirmer struct{}

func (denyConfirmer) Confirm(context.Context, string, string) (bool, error) { return false, nil }

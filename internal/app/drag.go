package app

import (
	"context"

	"brieflink/internal/model"
	"brieflink/internal/ranker"
)

type DragKind string

const (
	DragTask DragKind = "task"
	DragItem DragKind = "item"
)

// DragState is the identity of the entity being dragged.
type DragState struct {
	Kind DragKind
	// TaskKey is set for task drags.
	TaskKey string
	// Ref is set for note/copy drags.
	Ref model.ItemRef
}

// DropTarget is where a drag ends: a ranker section for tasks, or a
// collection (note/copy) for items.
type DropTarget struct {
	Section    ranker.Section
	Collection model.ItemType
}

// BeginDrag records the dragged entity. Only one drag may be in flight.
func (a *App) BeginDrag(d DragState) error {
	if a.drag != nil {
		return ErrDragInFlight
	}
	a.drag = &d
	return nil
}

// Dragging returns the in-flight drag.
func (a *App) Dragging() (DragState, bool) {
	if a.drag == nil {
		return DragState{}, false
	}
	return *a.drag, true
}

// EndDrag clears the drag state without moving anything.
func (a *App) EndDrag() {
	a.drag = nil
}

// Drop applies the in-flight drag to target. The drag state is cleared
// whatever the outcome.
func (a *App) Drop(ctx context.Context, target DropTarget) (bool, error) {
	d := a.drag
	a.drag = nil
	if d == nil {
		return false, ErrNoDrag
	}
	switch d.Kind {
	case DragTask:
		if target.Section == "" {
			return false, nil
		}
		return a.MoveTask(ctx, d.TaskKey, target.Section)
	case DragItem:
		if target.Collection == "" || target.Collection == d.Ref.Type {
			return false, nil
		}
		if _, ok := a.WS.FindItem(d.Ref.ProjectID, d.Ref.Type, d.Ref.ItemID); !ok {
			return false, nil
		}
		if _, _, err := a.MoveItem(ctx, d.Ref.ProjectID, d.Ref.Type, d.Ref.ItemID); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, nil
	}
}

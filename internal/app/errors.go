package app

import "errors"

// ErrNoProject is returned when an action needs an active project and none is set.
var ErrNoProject = errors.New("no active project; run `brieflink projects use <id>` or pass --project")

// ErrDragInFlight is returned when a drag starts while another is unfinished.
var ErrDragInFlight = errors.New("another drag is already in progress")

// ErrNoDrag is returned by Drop without a preceding BeginDrag.
var ErrNoDrag = errors.New("no drag in progress")

// ErrNoEditor is returned when an action needs an editor collaborator.
var ErrNoEditor = errors.New("no editor available")

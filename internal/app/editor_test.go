package app

import (
	"context"

	"brieflink/internal/model"
	"brieflink/internal/worktrail"
)

// memoryEditor is a headless Editor that records what it was given.
type memoryEditor struct {
	OpenRef *model.ItemRef
	State   worktrail.EditorState
	Calls   []string
}

func (e *memoryEditor) Open(_ context.Context, ref model.ItemRef) error {
	r := ref
	e.OpenRef = &r
	e.State = worktrail.EditorState{}
	e.Calls = append(e.Calls, "open")
	return nil
}

func (e *memoryEditor) Close(context.Context) error {
	e.OpenRef = nil
	e.Calls = append(e.Calls, "close")
	return nil
}

func (e *memoryEditor) Snapshot() (worktrail.EditorState, bool) {
	if e.OpenRef == nil {
		return worktrail.EditorState{}, false
	}
	return e.State, true
}

func (e *memoryEditor) SetTitle(title string) error {
	e.State.Title = title
	e.Calls = append(e.Calls, "title")
	return nil
}

func (e *memoryEditor) SetContent(body string, isRichText bool) error {
	e.State.Content = body
	e.State.IsRichText = isRichText
	e.Calls = append(e.Calls, "content")
	return nil
}

func (e *memoryEditor) SetSelection(sel model.Selection) error {
	e.State.Cursor = sel
	e.Calls = append(e.Calls, "cursor")
	return nil
}

func (e *memoryEditor) SetScroll(s model.Scroll) error {
	e.State.Scroll = s
	e.Calls = append(e.Calls, "scroll")
	return nil
}

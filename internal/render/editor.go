package render

import (
	"context"
	"fmt"

	"brieflink/internal/model"
	"brieflink/internal/worktrail"
)

// LineEditor is a non-interactive editor: it keeps the restored state and
// prints one line per replay step to the terminal.
type LineEditor struct {
	T *Terminal

	open  *model.ItemRef
	state worktrail.EditorState
}

func NewLineEditor(t *Terminal) *LineEditor { return &LineEditor{T: t} }

func (e *LineEditor) Open(_ context.Context, ref model.ItemRef) error {
	r := ref
	e.open = &r
	e.state = worktrail.EditorState{}
	fmt.Fprintln(e.T.Out, e.T.muted().Render("open "+ref.String()))
	return nil
}

func (e *LineEditor) Close(context.Context) error {
	e.open = nil
	return nil
}

func (e *LineEditor) Snapshot() (worktrail.EditorState, bool) {
	if e.open == nil {
		return worktrail.EditorState{}, false
	}
	return e.state, true
}

func (e *LineEditor) SetTitle(title string) error {
	e.state.Title = title
	fmt.Fprintln(e.T.Out, e.T.heading("").Render(title))
	return nil
}

func (e *LineEditor) SetContent(body string, isRichText bool) error {
	e.state.Content = body
	e.state.IsRichText = isRichText
	if out := e.T.Content(body, isRichText); out != "" {
		fmt.Fprintln(e.T.Out, out)
	}
	return nil
}

func (e *LineEditor) SetSelection(sel model.Selection) error {
	e.state.Cursor = sel
	fmt.Fprintln(e.T.Out, e.T.muted().Render(fmt.Sprintf("cursor %d-%d", sel.Start, sel.End)))
	return nil
}

func (e *LineEditor) SetScroll(s model.Scroll) error {
	e.state.Scroll = s
	fmt.Fprintln(e.T.Out, e.T.muted().Render(fmt.Sprintf("scroll %d,%d", s.Top, s.Left)))
	return nil
}

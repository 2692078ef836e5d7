package worktrail

import (
	"html"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"brieflink/internal/model"
)

var stripTags = bluemonday.StrictPolicy()

// PlainText returns the text a user sees in the editable region: markup is
// stripped from rich text, plain text is returned unchanged.
func PlainText(body string, isRichText bool) string {
	if !isRichText {
		return body
	}
	return html.UnescapeString(stripTags.Sanitize(body))
}

// ClampSelection bounds sel to [0, length] with Start <= End.
func ClampSelection(sel model.Selection, length int) model.Selection {
	clamp := func(n int) int {
		if n < 0 {
			return 0
		}
		if n > length {
			return length
		}
		return n
	}
	sel.Start = clamp(sel.Start)
	sel.End = clamp(sel.End)
	if sel.End < sel.Start {
		sel.Start, sel.End = sel.End, sel.Start
	}
	return sel
}

// PlainLength is the character length of a snapshot's editable text.
func PlainLength(s model.Snapshot) int {
	return utf8.RuneCountInString(PlainText(s.Body(), s.IsRichText))
}

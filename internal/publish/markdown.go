package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"brieflink/internal/links"
	"brieflink/internal/model"
	"brieflink/internal/store"
)

type RenderOptions struct {
	IncludeCompleted bool
}

// RenderBriefMarkdown renders a brief with the notes, copy and tasks linked to it.
func RenderBriefMarkdown(ws *store.Workspace, projectID, briefID string, opt RenderOptions) (string, error) {
	if ws == nil {
		return "", fmt.Errorf("missing workspace")
	}
	p, ok := ws.FindProject(strings.TrimSpace(projectID))
	if !ok {
		return "", store.NotFoundError{Kind: "project", ID: projectID}
	}
	b, ok := ws.FindBrief(p.ID, strings.TrimSpace(briefID))
	if !ok {
		return "", store.NotFoundError{Kind: "brief", ID: briefID}
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(b.Title))
	writeLn("")
	writeLn("## Meta")
	writeLn("")
	writeLn("- ID: " + b.ID)
	writeLn("- Project: " + strings.TrimSpace(p.Name) + " (" + p.ID + ")")
	writeLn("- Color: " + b.LinkColor)
	writeLn("- Created: " + b.CreatedAt.UTC().Format(time.RFC3339))

	if s := strings.TrimSpace(b.Proposition); s != "" {
		writeLn("")
		writeLn("## Proposition")
		writeLn("")
		writeLn(s)
	}
	if s := strings.TrimSpace(b.ClientBrief); s != "" {
		writeLn("")
		writeLn("## Client brief")
		writeLn("")
		writeLn(s)
	}

	ref := model.ItemRef{ProjectID: p.ID, ItemID: b.ID, Type: model.ItemBrief}
	var notes, copies []model.ItemRef
	var tasks []model.ItemRef
	for _, child := range links.Children(ws, ref) {
		switch child.Type {
		case model.ItemNote:
			notes = append(notes, child)
		case model.ItemCopy:
			copies = append(copies, child)
		case model.ItemTask:
			tasks = append(tasks, child)
		}
	}
	// Tasks derived from the linked notes and copy belong to the brief too.
	for _, it := range append(append([]model.ItemRef{}, notes...), copies...) {
		for _, child := range links.Children(ws, it) {
			if child.Type == model.ItemTask {
				tasks = append(tasks, child)
			}
		}
	}

	writeItems := func(heading string, refs []model.ItemRef) {
		if len(refs) == 0 {
			return
		}
		writeLn("")
		writeLn("## " + heading)
		for _, r := range refs {
			it, ok := ws.FindItem(r.ProjectID, r.Type, r.ItemID)
			if !ok {
				continue
			}
			writeLn("")
			writeLn("### " + strings.TrimSpace(it.Title))
			if body := strings.TrimSpace(it.Content); body != "" {
				writeLn("")
				writeLn(body)
			}
		}
	}
	writeItems("Notes", notes)
	writeItems("Copy", copies)

	lines := taskLines(ws, p.ID, tasks, opt)
	if len(lines) > 0 {
		writeLn("")
		writeLn("## Tasks")
		writeLn("")
		for _, l := range lines {
			writeLn(l)
		}
	}
	return buf.String(), nil
}

func taskLines(ws *store.Workspace, projectID string, refs []model.ItemRef, opt RenderOptions) []string {
	var out []string
	for _, r := range refs {
		t, ok := ws.FindTask(r.ProjectID, r.ItemID)
		if !ok {
			continue
		}
		if t.Completed && !opt.IncludeCompleted {
			continue
		}
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		line := "- " + box + " " + strings.TrimSpace(t.Title)
		if r.ProjectID != projectID {
			if q, ok := ws.FindProject(r.ProjectID); ok {
				line += " (" + strings.TrimSpace(q.Name) + ")"
			}
		}
		out = append(out, line)
	}
	return out
}

// RenderProjectIndexMarkdown renders a project overview linking to one page per brief.
func RenderProjectIndexMarkdown(ws *store.Workspace, projectID string, opt RenderOptions) (string, error) {
	if ws == nil {
		return "", fmt.Errorf("missing workspace")
	}
	p, ok := ws.FindProject(strings.TrimSpace(projectID))
	if !ok {
		return "", store.NotFoundError{Kind: "project", ID: projectID}
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(p.Name))
	writeLn("")
	writeLn("- ID: " + p.ID)
	writeLn("- Theme: " + p.ColorTheme)

	writeLn("")
	writeLn("## Briefs")
	writeLn("")
	if len(p.Briefs) == 0 {
		writeLn("_No briefs._")
	}
	for _, b := range p.Briefs {
		writeLn(fmt.Sprintf("- [%s](briefs/%s.md)", strings.TrimSpace(b.Title), b.ID))
	}

	for _, typ := range []model.ItemType{model.ItemNote, model.ItemCopy} {
		var loose []model.Item
		for _, it := range store.SortedItems(p, typ) {
			if it.LinkedBriefID == "" {
				loose = append(loose, it)
			}
		}
		if len(loose) == 0 {
			continue
		}
		writeLn("")
		if typ == model.ItemNote {
			writeLn("## Unlinked notes")
		} else {
			writeLn("## Unlinked copy")
		}
		writeLn("")
		for _, it := range loose {
			writeLn("- " + strings.TrimSpace(it.Title))
		}
	}

	var refs []model.ItemRef
	for _, t := range p.Tasks {
		if !t.HasSource() {
			refs = append(refs, model.ItemRef{ProjectID: p.ID, ItemID: t.ID, Type: model.ItemTask})
		}
	}
	if lines := taskLines(ws, p.ID, refs, opt); len(lines) > 0 {
		writeLn("")
		writeLn("## Standalone tasks")
		writeLn("")
		for _, l := range lines {
			writeLn(l)
		}
	}
	return buf.String(), nil
}

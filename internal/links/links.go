// Package links resolves provenance between briefs, notes, copy and tasks
// and derives the display color of any item from its link chain.
package links

import (
	"strings"

	"brieflink/internal/model"
	"brieflink/internal/store"
)

// maxDepth bounds the chain walk: task -> note/copy -> brief.
const maxDepth = 2

// ColorFor returns the link color of ref, or false when the item has none.
func ColorFor(ws *store.Workspace, ref model.ItemRef) (string, bool) {
	return colorFor(ws, ref, 0)
}

func colorFor(ws *store.Workspace, ref model.ItemRef, depth int) (string, bool) {
	if ws == nil || depth > maxDepth {
		return "", false
	}
	switch ref.Type {
	case model.ItemBrief:
		b, ok := ws.FindBrief(ref.ProjectID, ref.ItemID)
		if !ok || strings.TrimSpace(b.LinkColor) == "" {
			return "", false
		}
		return b.LinkColor, true
	case model.ItemNote, model.ItemCopy:
		it, ok := ws.FindItem(ref.ProjectID, ref.Type, ref.ItemID)
		if !ok || it.LinkedBriefID == "" {
			return "", false
		}
		return colorFor(ws, model.ItemRef{ProjectID: ref.ProjectID, ItemID: it.LinkedBriefID, Type: model.ItemBrief}, depth+1)
	case model.ItemTask:
		t, ok := ws.FindTask(ref.ProjectID, ref.ItemID)
		if !ok {
			return "", false
		}
		src, ok := t.Source(ref.ProjectID)
		if !ok {
			return "", false
		}
		return colorFor(ws, src, depth+1)
	default:
		return "", false
	}
}

// Parent returns the item ref links to directly, if any.
func Parent(ws *store.Workspace, ref model.ItemRef) (model.ItemRef, bool) {
	switch ref.Type {
	case model.ItemBrief:
		return model.ItemRef{}, false
	case model.ItemNote, model.ItemCopy:
		it, ok := ws.FindItem(ref.ProjectID, ref.Type, ref.ItemID)
		if !ok || it.LinkedBriefID == "" {
			return model.ItemRef{}, false
		}
		return model.ItemRef{ProjectID: ref.ProjectID, ItemID: it.LinkedBriefID, Type: model.ItemBrief}, true
	case model.ItemTask:
		t, ok := ws.FindTask(ref.ProjectID, ref.ItemID)
		if !ok {
			return model.ItemRef{}, false
		}
		return t.Source(ref.ProjectID)
	default:
		return model.ItemRef{}, false
	}
}

// SourceChain returns ref followed by each ancestor on its link chain,
// stopping at the first missing link.
func SourceChain(ws *store.Workspace, ref model.ItemRef) []model.ItemRef {
	out := []model.ItemRef{ref}
	cur := ref
	for i := 0; i < maxDepth; i++ {
		next, ok := Parent(ws, cur)
		if !ok || !ws.Exists(next) {
			break
		}
		out = append(out, next)
		cur = next
	}
	return out
}

// Children returns items whose direct parent is ref.
func Children(ws *store.Workspace, ref model.ItemRef) []model.ItemRef {
	var out []model.ItemRef
	if ref.Type == model.ItemBrief {
		if p, ok := ws.FindProject(ref.ProjectID); ok {
			for _, typ := range []model.ItemType{model.ItemNote, model.ItemCopy} {
				for _, it := range *store.Collection(p, typ) {
					if it.LinkedBriefID == ref.ItemID {
						out = append(out, model.ItemRef{ProjectID: p.ID, ItemID: it.ID, Type: typ})
					}
				}
			}
		}
	}
	if !ref.Type.CanSource() {
		return out
	}
	for _, p := range ws.Projects {
		for _, t := range p.Tasks {
			if src, ok := t.Source(p.ID); ok && src == ref {
				out = append(out, model.ItemRef{ProjectID: p.ID, ItemID: t.ID, Type: model.ItemTask})
			}
		}
	}
	return out
}

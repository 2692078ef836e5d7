// Package cascade computes and applies dependent deletions across the link
// graph: brief -> {notes, copy} -> {tasks}.
package cascade

import (
	"fmt"
	"strings"

	"brieflink/internal/links"
	"brieflink/internal/model"
	"brieflink/internal/store"
)

// Plan is the full removal set for one delete, computed before any mutation.
type Plan struct {
	Root      model.ItemRef
	RootTitle string

	// Project is set when a whole project is removed.
	Project     string
	ProjectName string

	// Removed lists every entity to delete, root first, in traversal order.
	Removed []model.ItemRef
}

// Empty reports whether the plan deletes nothing.
func (p Plan) Empty() bool {
	return p.Project == "" && len(p.Removed) == 0
}

// PlanItem plans the deletion of ref and everything that depends on it.
// The bool is false when ref does not exist.
func PlanItem(ws *store.Workspace, ref model.ItemRef) (Plan, bool) {
	title, ok := ws.Title(ref)
	if !ok {
		return Plan{}, false
	}
	return Plan{
		Root:      ref,
		RootTitle: title,
		Removed:   traverse(ws, []model.ItemRef{ref}),
	}, true
}

// PlanProject plans the deletion of a project, its nested entities, and any
// task in another project sourced from one of them.
func PlanProject(ws *store.Workspace, projectID string) (Plan, bool) {
	p, ok := ws.FindProject(projectID)
	if !ok {
		return Plan{}, false
	}
	var roots []model.ItemRef
	for _, b := range p.Briefs {
		roots = append(roots, model.ItemRef{ProjectID: p.ID, ItemID: b.ID, Type: model.ItemBrief})
	}
	for _, typ := range []model.ItemType{model.ItemNote, model.ItemCopy} {
		for _, it := range *store.Collection(p, typ) {
			roots = append(roots, model.ItemRef{ProjectID: p.ID, ItemID: it.ID, Type: typ})
		}
	}
	for _, t := range p.Tasks {
		roots = append(roots, model.ItemRef{ProjectID: p.ID, ItemID: t.ID, Type: model.ItemTask})
	}
	return Plan{
		Project:     p.ID,
		ProjectName: p.Name,
		Removed:     traverse(ws, roots),
	}, true
}

// traverse walks the dependency graph breadth-first from roots.
func traverse(ws *store.Workspace, roots []model.ItemRef) []model.ItemRef {
	seen := map[model.ItemRef]bool{}
	var out []model.ItemRef
	queue := append([]model.ItemRef{}, roots...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		for _, child := range links.Children(ws, cur) {
			if !seen[child] {
				queue = append(queue, child)
			}
		}
	}
	return out
}

// Result reports what Apply removed.
type Result struct {
	Plan Plan

	Briefs []model.ItemRef
	Notes  []model.ItemRef
	Copy   []model.ItemRef
	Tasks  []model.ItemRef
}

// TaskKeys returns the unique ids of removed tasks.
func (r Result) TaskKeys() []string {
	out := make([]string, 0, len(r.Tasks))
	for _, t := range r.Tasks {
		out = append(out, model.TaskKey(t.ProjectID, t.ItemID))
	}
	return out
}

// Contains reports whether ref was removed.
func (r Result) Contains(ref model.ItemRef) bool {
	if r.Plan.Project != "" && ref.ProjectID == r.Plan.Project {
		return true
	}
	for _, x := range r.Plan.Removed {
		if x == ref {
			return true
		}
	}
	return false
}

// Apply removes every entity in plan in one pass over the store.
func Apply(ws *store.Workspace, plan Plan) Result {
	res := Result{Plan: plan}
	if plan.Empty() {
		return res
	}
	drop := map[model.ItemRef]bool{}
	for _, ref := range plan.Removed {
		drop[ref] = true
		switch ref.Type {
		case model.ItemBrief:
			res.Briefs = append(res.Briefs, ref)
		case model.ItemNote:
			res.Notes = append(res.Notes, ref)
		case model.ItemCopy:
			res.Copy = append(res.Copy, ref)
		case model.ItemTask:
			res.Tasks = append(res.Tasks, ref)
		}
	}

	kept := ws.Projects[:0]
	for _, p := range ws.Projects {
		if plan.Project != "" && p.ID == plan.Project {
			continue
		}
		p.Briefs = filter(p.Briefs, func(b model.Brief) bool {
			return !drop[model.ItemRef{ProjectID: p.ID, ItemID: b.ID, Type: model.ItemBrief}]
		})
		p.Notes = filter(p.Notes, func(it model.Item) bool {
			return !drop[model.ItemRef{ProjectID: p.ID, ItemID: it.ID, Type: model.ItemNote}]
		})
		p.Copy = filter(p.Copy, func(it model.Item) bool {
			return !drop[model.ItemRef{ProjectID: p.ID, ItemID: it.ID, Type: model.ItemCopy}]
		})
		p.Tasks = filter(p.Tasks, func(t model.Task) bool {
			return !drop[model.ItemRef{ProjectID: p.ID, ItemID: t.ID, Type: model.ItemTask}]
		})
		kept = append(kept, p)
	}
	ws.Projects = kept
	return res
}

func filter[T any](xs []T, keep func(T) bool) []T {
	out := xs[:0]
	for _, x := range xs {
		if keep(x) {
			out = append(out, x)
		}
	}
	return out
}

// Summary is a human-readable description of what the delete removed.
func (r Result) Summary() string {
	if r.Plan.Empty() {
		return "Nothing deleted"
	}
	var head string
	var dependents []string
	if r.Plan.Project != "" {
		head = fmt.Sprintf("Deleted project %q", r.Plan.ProjectName)
		dependents = appendCount(dependents, len(r.Briefs), "brief", "briefs")
		dependents = appendCount(dependents, len(r.Notes), "note", "notes")
		dependents = appendCount(dependents, len(r.Copy), "copy item", "copy items")
		dependents = appendCount(dependents, len(r.Tasks), "task", "tasks")
	} else {
		head = fmt.Sprintf("Deleted %s %q", r.Plan.Root.Type, r.Plan.RootTitle)
		// The root is counted in its own bucket; report only dependents.
		nb, nn, nc, nt := len(r.Briefs), len(r.Notes), len(r.Copy), len(r.Tasks)
		switch r.Plan.Root.Type {
		case model.ItemBrief:
			nb--
		case model.ItemNote:
			nn--
		case model.ItemCopy:
			nc--
		case model.ItemTask:
			nt--
		}
		dependents = appendCount(dependents, nb, "linked brief", "linked briefs")
		dependents = appendCount(dependents, nn, "linked note", "linked notes")
		dependents = appendCount(dependents, nc, "linked copy item", "linked copy items")
		dependents = appendCount(dependents, nt, "derived task", "derived tasks")
	}
	if len(dependents) == 0 {
		return head
	}
	return head + " along with " + joinAnd(dependents)
}

func appendCount(xs []string, n int, one, many string) []string {
	switch {
	case n <= 0:
		return xs
	case n == 1:
		return append(xs, "1 "+one)
	default:
		return append(xs, fmt.Sprintf("%d %s", n, many))
	}
}

func joinAnd(xs []string) string {
	switch len(xs) {
	case 0:
		return ""
	case 1:
		return xs[0]
	default:
		return strings.Join(xs[:len(xs)-1], ", ") + " and " + xs[len(xs)-1]
	}
}

// Package ranker builds the cross-project task view: a manually curated
// "top three" plus every other task, and keeps the persisted manual order
// consistent with task lifecycle.
package ranker

import (
	"sort"
	"time"

	"brieflink/internal/links"
	"brieflink/internal/model"
	"brieflink/internal/store"
)

// MaxTopThree bounds the priority section.
const MaxTopThree = 3

// DefaultRetention is how long completed tasks survive a sweep.
const DefaultRetention = 24 * time.Hour

type Section string

const (
	SectionTop   Section = "top"
	SectionOther Section = "other"
)

func ParseSection(s string) (Section, bool) {
	switch s {
	case "top", "top3", "topThree", "top-three":
		return SectionTop, true
	case "other":
		return SectionOther, true
	default:
		return "", false
	}
}

// TaskView is a task tagged with its owning project.
type TaskView struct {
	model.Task
	UniqueID     string `json:"uniqueId"`
	ProjectID    string `json:"projectId"`
	ProjectName  string `json:"projectName"`
	ProjectTheme string `json:"projectColorTheme"`
	LinkColor    string `json:"linkColor,omitempty"`
}

type View struct {
	TopThree []TaskView `json:"topThree"`
	Other    []TaskView `json:"other"`
}

// collect returns every task across all projects keyed by unique id, plus
// the keys in project/task order.
func collect(ws *store.Workspace) (map[string]TaskView, []string) {
	byKey := map[string]TaskView{}
	var keys []string
	for _, p := range ws.Projects {
		for _, t := range p.Tasks {
			key := model.TaskKey(p.ID, t.ID)
			tv := TaskView{
				Task:         t,
				UniqueID:     key,
				ProjectID:    p.ID,
				ProjectName:  p.Name,
				ProjectTheme: p.ColorTheme,
			}
			if c, ok := links.ColorFor(ws, model.ItemRef{ProjectID: p.ID, ItemID: t.ID, Type: model.ItemTask}); ok {
				tv.LinkColor = c
			}
			byKey[key] = tv
			keys = append(keys, key)
		}
	}
	return byKey, keys
}

// ComputeView merges the persisted manual order with the live task set.
func ComputeView(ws *store.Workspace) View {
	byKey, keys := collect(ws)
	view := View{TopThree: []TaskView{}, Other: []TaskView{}}

	inTop := map[string]bool{}
	for _, key := range ws.Order.TopThree {
		tv, ok := byKey[key]
		if !ok || tv.Completed || inTop[key] {
			continue
		}
		if len(view.TopThree) >= MaxTopThree {
			break
		}
		inTop[key] = true
		view.TopThree = append(view.TopThree, tv)
	}

	placed := map[string]bool{}
	for k := range inTop {
		placed[k] = true
	}
	var rest []TaskView
	for _, key := range ws.Order.Other {
		tv, ok := byKey[key]
		if !ok || placed[key] {
			continue
		}
		placed[key] = true
		rest = append(rest, tv)
	}
	for _, key := range keys {
		if placed[key] {
			continue
		}
		placed[key] = true
		rest = append(rest, byKey[key])
	}

	sort.SliceStable(rest, func(i, j int) bool {
		a, b := rest[i], rest[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	if rest != nil {
		view.Other = rest
	}
	return view
}

// MoveTask moves uniqueID into section. A full top section evicts its last
// entry to the front of other before the move.
func MoveTask(order *model.GlobalTaskOrder, uniqueID string, section Section) {
	order.TopThree = without(order.TopThree, uniqueID)
	order.Other = without(order.Other, uniqueID)

	switch section {
	case SectionTop:
		for len(order.TopThree) >= MaxTopThree {
			last := order.TopThree[len(order.TopThree)-1]
			order.TopThree = order.TopThree[:len(order.TopThree)-1]
			order.Other = append([]string{last}, order.Other...)
		}
		order.TopThree = append(order.TopThree, uniqueID)
	case SectionOther:
		order.Other = append(order.Other, uniqueID)
	}
}

// ToggleCompletion flips a task's completed flag. Completing a task removes
// it from the manual order immediately.
func ToggleCompletion(ws *store.Workspace, projectID, taskID string, now time.Time) (*model.Task, error) {
	t, ok := ws.FindTask(projectID, taskID)
	if !ok {
		return nil, store.NotFoundError{Kind: "task", ID: taskID}
	}
	t.Completed = !t.Completed
	if t.Completed {
		at := now
		t.CompletedAt = &at
		key := model.TaskKey(projectID, taskID)
		ws.Order.TopThree = without(ws.Order.TopThree, key)
		ws.Order.Other = without(ws.Order.Other, key)
	} else {
		t.CompletedAt = nil
	}
	return t, nil
}

// SweepResult lists the tasks a sweep removed.
type SweepResult struct {
	Removed []model.ItemRef `json:"removed"`
	Purged  []string        `json:"purged"`
}

// Sweep deletes completed tasks whose completedAt is older than retention,
// then purges dangling ids from the manual order.
func Sweep(ws *store.Workspace, now time.Time, retention time.Duration) SweepResult {
	if retention <= 0 {
		retention = DefaultRetention
	}
	cutoff := now.Add(-retention)
	var res SweepResult
	for i := range ws.Projects {
		p := &ws.Projects[i]
		kept := p.Tasks[:0]
		for _, t := range p.Tasks {
			if t.Completed && t.CompletedAt != nil && t.CompletedAt.Before(cutoff) {
				res.Removed = append(res.Removed, model.ItemRef{ProjectID: p.ID, ItemID: t.ID, Type: model.ItemTask})
				continue
			}
			kept = append(kept, t)
		}
		p.Tasks = kept
	}
	res.Purged = Purge(ws)
	return res
}

// Purge removes ids that no longer name an incomplete live task, drops
// duplicates, and caps the top section at MaxTopThree (overflow moves to
// the front of other). It returns the ids dropped.
func Purge(ws *store.Workspace) []string {
	live := map[string]bool{}
	for _, p := range ws.Projects {
		for _, t := range p.Tasks {
			if !t.Completed {
				live[model.TaskKey(p.ID, t.ID)] = true
			}
		}
	}
	var dropped []string
	seen := map[string]bool{}
	keep := func(xs []string) []string {
		out := make([]string, 0, len(xs))
		for _, k := range xs {
			if seen[k] {
				continue
			}
			if !live[k] {
				dropped = append(dropped, k)
				continue
			}
			seen[k] = true
			out = append(out, k)
		}
		return out
	}
	top := keep(ws.Order.TopThree)
	other := keep(ws.Order.Other)
	if len(top) > MaxTopThree {
		overflow := append([]string{}, top[MaxTopThree:]...)
		top = top[:MaxTopThree]
		other = append(overflow, other...)
	}
	ws.Order.TopThree = top
	ws.Order.Other = other
	return dropped
}

// RemoveKeys drops the given unique ids from both lists.
func RemoveKeys(order *model.GlobalTaskOrder, keys ...string) {
	for _, k := range keys {
		order.TopThree = without(order.TopThree, k)
		order.Other = without(order.Other, k)
	}
}

// SectionOf reports where uniqueID currently sits in the persisted order.
func SectionOf(order model.GlobalTaskOrder, uniqueID string) (Section, bool) {
	for _, k := range order.TopThree {
		if k == uniqueID {
			return SectionTop, true
		}
	}
	for _, k := range order.Other {
		if k == uniqueID {
			return SectionOther, true
		}
	}
	return "", false
}

func without(xs []string, id string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

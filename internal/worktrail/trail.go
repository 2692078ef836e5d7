package worktrail

import (
	"time"

	"brieflink/internal/model"
)

// DefaultMaxCrumbs caps the breadcrumb trail. Larger Max values are clamped to it.
const DefaultMaxCrumbs = 10

// Trail is the bounded list of recently visited items, most recent last.
type Trail struct {
	Max    int
	Crumbs []model.Breadcrumb
}

func (t *Trail) max() int {
	if t.Max <= 0 || t.Max > DefaultMaxCrumbs {
		return DefaultMaxCrumbs
	}
	return t.Max
}

// Add records a visit. Re-visiting an item drops its stale entry first.
func (t *Trail) Add(ref model.ItemRef, title string, now time.Time) model.Breadcrumb {
	c := model.Breadcrumb{
		ID:        ref.Key(),
		ProjectID: ref.ProjectID,
		ItemID:    ref.ItemID,
		ItemType:  ref.Type,
		Title:     title,
		Timestamp: now,
	}
	out := make([]model.Breadcrumb, 0, len(t.Crumbs)+1)
	for _, x := range t.Crumbs {
		if x.ID != c.ID {
			out = append(out, x)
		}
	}
	out = append(out, c)
	t.Crumbs = out
	t.normalize()
	return c
}

// Find returns the crumb with the given id.
func (t *Trail) Find(id string) (model.Breadcrumb, bool) {
	for _, c := range t.Crumbs {
		if c.ID == id {
			return c, true
		}
	}
	return model.Breadcrumb{}, false
}

// Purge removes crumbs for which keep returns false and returns them.
func (t *Trail) Purge(keep func(model.ItemRef) bool) []model.Breadcrumb {
	var removed []model.Breadcrumb
	out := t.Crumbs[:0]
	for _, c := range t.Crumbs {
		if keep(c.Ref()) {
			out = append(out, c)
			continue
		}
		removed = append(removed, c)
	}
	t.Crumbs = out
	return removed
}

// Retitle updates the stored title of ref's crumb, if present.
func (t *Trail) Retitle(ref model.ItemRef, title string) {
	id := ref.Key()
	for i := range t.Crumbs {
		if t.Crumbs[i].ID == id {
			t.Crumbs[i].Title = title
		}
	}
}

// normalize re-derives ids, keeps the newest entry per id and enforces the cap.
func (t *Trail) normalize() {
	if t.Crumbs == nil {
		t.Crumbs = []model.Breadcrumb{}
		return
	}
	seen := map[string]bool{}
	rev := make([]model.Breadcrumb, 0, len(t.Crumbs))
	for i := len(t.Crumbs) - 1; i >= 0; i-- {
		c := t.Crumbs[i]
		c.ID = c.Ref().Key()
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		rev = append(rev, c)
		if len(rev) == t.max() {
			break
		}
	}
	out := make([]model.Breadcrumb, len(rev))
	for i, c := range rev {
		out[len(rev)-1-i] = c
	}
	t.Crumbs = out
}

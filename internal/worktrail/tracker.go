// Package worktrail preserves work context across navigation and restarts:
// a bounded breadcrumb trail of visited items and a snapshot of the last
// open editor that can be offered for resumption.
package worktrail

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"brieflink/internal/model"
	"brieflink/internal/store"
)

// DefaultResumeWindow is the maximum snapshot age that still gets a resume offer.
const DefaultResumeWindow = 24 * time.Hour

// DefaultReplayStep separates replay stages.
const DefaultReplayStep = 50 * time.Millisecond

type Config struct {
	MaxCrumbs    int
	ResumeWindow time.Duration
	AutoDismiss  time.Duration
	ReplayStep   time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxCrumbs <= 0 || c.MaxCrumbs > DefaultMaxCrumbs {
		c.MaxCrumbs = DefaultMaxCrumbs
	}
	if c.ResumeWindow <= 0 {
		c.ResumeWindow = DefaultResumeWindow
	}
	if c.AutoDismiss < 0 {
		c.AutoDismiss = 0
	} else if c.AutoDismiss == 0 {
		c.AutoDismiss = DefaultAutoDismiss
	}
	if c.ReplayStep < 0 {
		c.ReplayStep = 0
	}
	return c
}

// Tracker owns the workContext and breadcrumbs keys.
type Tracker struct {
	Config Config

	trail    Trail
	current  *model.Snapshot
	projects map[string]model.Snapshot
	global   model.GlobalContext

	gw  store.Gateway
	log *zap.Logger
	now func() time.Time
}

type Options struct {
	Config Config
	Logger *zap.Logger
	Now    func() time.Time
}

// Load reads workContext from gw, falling back to the standalone
// breadcrumbs key when workContext carries none.
func Load(ctx context.Context, gw store.Gateway, opts Options) (*Tracker, error) {
	t := &Tracker{
		Config:   opts.Config.withDefaults(),
		projects: map[string]model.Snapshot{},
		gw:       gw,
		log:      opts.Logger,
		now:      opts.Now,
	}
	if t.log == nil {
		t.log = zap.NewNop()
	}
	if t.now == nil {
		t.now = func() time.Time { return time.Now().UTC() }
	}
	t.trail.Max = t.Config.MaxCrumbs
	if gw == nil {
		t.trail.normalize()
		return t, nil
	}

	wc, err := store.ReadJSON[model.WorkContext](ctx, gw, store.KeyWorkContext, t.log)
	if err != nil {
		return nil, err
	}
	crumbs := wc.Breadcrumbs
	if len(crumbs) == 0 {
		legacy, err := store.ReadJSON[[]model.Breadcrumb](ctx, gw, store.KeyBreadcrumbs, t.log)
		if err != nil {
			return nil, err
		}
		crumbs = legacy
	}
	t.trail.Crumbs = crumbs
	t.trail.normalize()
	if wc.CurrentContext != nil && wc.CurrentContext.ItemID != "" {
		snap := *wc.CurrentContext
		t.current = &snap
	}
	for k, v := range wc.ProjectContexts {
		t.projects[k] = v
	}
	t.global = wc.GlobalContext
	return t, nil
}

// WorkContext returns the persisted shape of the tracker state.
func (t *Tracker) WorkContext() model.WorkContext {
	wc := model.WorkContext{
		Breadcrumbs:     append([]model.Breadcrumb{}, t.trail.Crumbs...),
		ProjectContexts: map[string]model.Snapshot{},
		GlobalContext:   t.global,
		Timestamp:       t.now(),
	}
	if t.current != nil {
		snap := *t.current
		wc.CurrentContext = &snap
	}
	for k, v := range t.projects {
		wc.ProjectContexts[k] = v
	}
	return wc
}

// Save writes workContext and the redundant breadcrumbs copy.
func (t *Tracker) Save(ctx context.Context) error {
	if t.gw == nil {
		return nil
	}
	wc := t.WorkContext()
	if err := store.WriteJSON(ctx, t.gw, store.KeyWorkContext, wc); err != nil {
		return err
	}
	return store.WriteJSON(ctx, t.gw, store.KeyBreadcrumbs, wc.Breadcrumbs)
}

// Crumbs returns the trail, most recent last.
func (t *Tracker) Crumbs() []model.Breadcrumb {
	return append([]model.Breadcrumb{}, t.trail.Crumbs...)
}

func (t *Tracker) FindCrumb(id string) (model.Breadcrumb, bool) {
	return t.trail.Find(strings.TrimSpace(id))
}

// Visit records a visit to ref.
func (t *Tracker) Visit(ref model.ItemRef, title string) model.Breadcrumb {
	return t.trail.Add(ref, title, t.now())
}

// Forget drops crumbs and saved contexts that reference any of refs.
func (t *Tracker) Forget(refs ...model.ItemRef) []model.Breadcrumb {
	if len(refs) == 0 {
		return nil
	}
	gone := map[model.ItemRef]bool{}
	for _, r := range refs {
		gone[r] = true
	}
	return t.Prune(func(r model.ItemRef) bool { return !gone[r] })
}

// Prune keeps only crumbs and snapshots for which keep returns true.
func (t *Tracker) Prune(keep func(model.ItemRef) bool) []model.Breadcrumb {
	removed := t.trail.Purge(keep)
	if t.current != nil && !keep(t.current.Ref()) {
		t.current = nil
	}
	for k, snap := range t.projects {
		if !keep(snap.Ref()) {
			delete(t.projects, k)
		}
	}
	return removed
}

// ClearTrail empties the breadcrumb trail.
func (t *Tracker) ClearTrail() {
	t.trail.Crumbs = []model.Breadcrumb{}
}

func (t *Tracker) Retitle(ref model.ItemRef, title string) {
	t.trail.Retitle(ref, title)
}

// EditorState is what an editor reports when asked for a snapshot.
type EditorState struct {
	Title      string
	Content    string
	IsRichText bool
	Cursor     model.Selection
	Scroll     model.Scroll
}

// Capture records the editor state for ref as the current context and as
// the project's last context.
func (t *Tracker) Capture(ref model.ItemRef, st EditorState) model.Snapshot {
	snap := model.Snapshot{
		ProjectID:  ref.ProjectID,
		ItemID:     ref.ItemID,
		ItemType:   ref.Type,
		Title:      st.Title,
		IsRichText: st.IsRichText,
		Scroll:     st.Scroll,
		Timestamp:  t.now(),
	}
	if st.IsRichText {
		snap.HTML = st.Content
	} else {
		snap.Content = st.Content
	}
	snap.Cursor = ClampSelection(st.Cursor, PlainLength(snap))
	t.current = &snap
	t.projects[ref.ProjectID] = snap
	return snap
}

// Current returns the last captured snapshot.
func (t *Tracker) Current() (model.Snapshot, bool) {
	if t.current == nil {
		return model.Snapshot{}, false
	}
	return *t.current, true
}

// ProjectContext returns the last snapshot captured in projectID.
func (t *Tracker) ProjectContext(projectID string) (model.Snapshot, bool) {
	s, ok := t.projects[projectID]
	return s, ok
}

// ClearCurrent drops the current snapshot.
func (t *Tracker) ClearCurrent() {
	t.current = nil
}

func (t *Tracker) Global() model.GlobalContext { return t.global }

func (t *Tracker) SetGlobal(g model.GlobalContext) { t.global = g }

// ResumeCandidate returns the current snapshot when it is still worth
// offering: its item exists and it is no older than the resume window.
func (t *Tracker) ResumeCandidate(exists func(model.ItemRef) bool) (model.Snapshot, bool) {
	snap, ok := t.Current()
	if !ok {
		return model.Snapshot{}, false
	}
	if exists != nil && !exists(snap.Ref()) {
		return model.Snapshot{}, false
	}
	if t.now().Sub(snap.Timestamp) > t.Config.ResumeWindow {
		return model.Snapshot{}, false
	}
	return snap, true
}

// Offer wraps the resume candidate in an auto-dismissing offer.
func (t *Tracker) Offer(exists func(model.ItemRef) bool, onExpire func(*Offer)) (*Offer, bool) {
	snap, ok := t.ResumeCandidate(exists)
	if !ok {
		return nil, false
	}
	return NewOffer(snap, t.Config.AutoDismiss, onExpire), true
}

// EditorSink receives replayed snapshot state.
type EditorSink interface {
	SetTitle(title string) error
	SetContent(body string, isRichText bool) error
	SetSelection(sel model.Selection) error
	SetScroll(s model.Scroll) error
}

// ReplayPipeline restores snap into ed: title, then content, then cursor,
// then scroll.
func (t *Tracker) ReplayPipeline(ed EditorSink, snap model.Snapshot) Pipeline {
	return Pipeline{
		Name:   "replay",
		Step:   t.Config.ReplayStep,
		Logger: t.log,
		Stages: []Stage{
			{Name: "title", Run: func(context.Context) error { return ed.SetTitle(snap.Title) }},
			{Name: "content", Run: func(context.Context) error { return ed.SetContent(snap.Body(), snap.IsRichText) }},
			{Name: "cursor", Run: func(context.Context) error {
				return ed.SetSelection(ClampSelection(snap.Cursor, PlainLength(snap)))
			}},
			{Name: "scroll", Run: func(context.Context) error { return ed.SetScroll(snap.Scroll) }},
		},
	}
}

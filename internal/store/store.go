package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"brieflink/internal/model"
)

// Workspace is the in-memory entity store: every project with its nested
// briefs, notes, copy and tasks, plus the persisted global task order.
//
// A Workspace is not safe for concurrent use; it is owned by a single actor.
type Workspace struct {
	Projects []model.Project
	Order    model.GlobalTaskOrder

	// Now is the clock used for createdAt/completedAt stamps.
	Now func() time.Time

	gw            Gateway
	log           *zap.Logger
	nextLinkColor int
	seq           int
}

// Options configures Load.
type Options struct {
	Logger *zap.Logger
	Now    func() time.Time
}

// DefaultDir returns ~/.brieflink/default, honoring BRIEFLINK_HOME.
func DefaultDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("BRIEFLINK_HOME")); v != "" {
		return filepath.Join(v, "default"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".brieflink", "default"), nil
}

// New returns an empty workspace bound to gw.
func New(gw Gateway, opts Options) *Workspace {
	ws := &Workspace{
		Projects: []model.Project{},
		Order:    model.GlobalTaskOrder{TopThree: []string{}, Other: []string{}},
		Now:      opts.Now,
		gw:       gw,
		log:      opts.Logger,
	}
	if ws.Now == nil {
		ws.Now = func() time.Time { return time.Now().UTC() }
	}
	if ws.log == nil {
		ws.log = zap.NewNop()
	}
	return ws
}

// Load reads projects and globalTaskOrder from gw. Missing or malformed blobs
// fall back to empty defaults; only gateway I/O errors are returned.
func Load(ctx context.Context, gw Gateway, opts Options) (*Workspace, error) {
	ws := New(gw, opts)

	projects, err := ReadJSON[[]model.Project](ctx, gw, KeyProjects, ws.log)
	if err != nil {
		return nil, err
	}
	if projects != nil {
		ws.Projects = projects
	}
	order, err := ReadJSON[model.GlobalTaskOrder](ctx, gw, KeyGlobalTaskOrder, ws.log)
	if err != nil {
		return nil, err
	}
	ws.Order = order
	ws.normalize()
	ws.nextLinkColor = reconstructLinkColorIndex(ws.Projects)
	return ws, nil
}

// ReadJSON loads key from gw into T. A missing key or a blob that fails to
// parse yields the zero value; the latter is logged.
func ReadJSON[T any](ctx context.Context, gw Gateway, key string, log *zap.Logger) (T, error) {
	var zero T
	b, ok, err := gw.Get(ctx, key)
	if err != nil {
		return zero, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || len(strings.TrimSpace(string(b))) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		if log != nil {
			log.Warn("malformed persisted state; using empty default", zap.String("key", key), zap.Error(err))
		}
		return zero, nil
	}
	return v, nil
}

// WriteJSON marshals v and stores it under key.
func WriteJSON(ctx context.Context, gw Gateway, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := gw.Put(ctx, key, b); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Save writes projects and globalTaskOrder through to the gateway.
func (ws *Workspace) Save(ctx context.Context) error {
	if ws.gw == nil {
		return nil
	}
	ws.normalize()
	if err := WriteJSON(ctx, ws.gw, KeyProjects, ws.Projects); err != nil {
		return err
	}
	return WriteJSON(ctx, ws.gw, KeyGlobalTaskOrder, ws.Order)
}

func (ws *Workspace) Gateway() Gateway { return ws.gw }

func (ws *Workspace) Logger() *zap.Logger { return ws.log }

// NextLinkColorIndex exposes the session palette cursor (for diagnostics/tests).
func (ws *Workspace) NextLinkColorIndex() int { return ws.nextLinkColor }

// normalize ensures nil slices are empty for stable JSON and callers.
func (ws *Workspace) normalize() {
	if ws.Projects == nil {
		ws.Projects = []model.Project{}
	}
	for i := range ws.Projects {
		p := &ws.Projects[i]
		if p.Briefs == nil {
			p.Briefs = []model.Brief{}
		}
		if p.Notes == nil {
			p.Notes = []model.Item{}
		}
		if p.Copy == nil {
			p.Copy = []model.Item{}
		}
		if p.Tasks == nil {
			p.Tasks = []model.Task{}
		}
	}
	if ws.Order.TopThree == nil {
		ws.Order.TopThree = []string{}
	}
	if ws.Order.Other == nil {
		ws.Order.Other = []string{}
	}
}

func (ws *Workspace) FindProject(id string) (*model.Project, bool) {
	id = strings.TrimSpace(id)
	for i := range ws.Projects {
		if ws.Projects[i].ID == id {
			return &ws.Projects[i], true
		}
	}
	return nil, false
}

func (ws *Workspace) FindBrief(projectID, id string) (*model.Brief, bool) {
	p, ok := ws.FindProject(projectID)
	if !ok {
		return nil, false
	}
	for i := range p.Briefs {
		if p.Briefs[i].ID == id {
			return &p.Briefs[i], true
		}
	}
	return nil, false
}

// FindItem finds a note or copy entry.
func (ws *Workspace) FindItem(projectID string, typ model.ItemType, id string) (*model.Item, bool) {
	p, ok := ws.FindProject(projectID)
	if !ok {
		return nil, false
	}
	xs := Collection(p, typ)
	if xs == nil {
		return nil, false
	}
	for i := range *xs {
		if (*xs)[i].ID == id {
			return &(*xs)[i], true
		}
	}
	return nil, false
}

func (ws *Workspace) FindTask(projectID, id string) (*model.Task, bool) {
	p, ok := ws.FindProject(projectID)
	if !ok {
		return nil, false
	}
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return &p.Tasks[i], true
		}
	}
	return nil, false
}

// FindTaskByKey resolves a "<projectId>-<taskId>" unique id.
func (ws *Workspace) FindTaskByKey(key string) (*model.Project, *model.Task, bool) {
	for i := range ws.Projects {
		p := &ws.Projects[i]
		prefix := p.ID + "-"
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if t, ok := ws.FindTask(p.ID, strings.TrimPrefix(key, prefix)); ok {
			return p, t, true
		}
	}
	return nil, nil, false
}

// Collection returns the note or copy slice of p; nil for other types.
func Collection(p *model.Project, typ model.ItemType) *[]model.Item {
	switch typ {
	case model.ItemNote:
		return &p.Notes
	case model.ItemCopy:
		return &p.Copy
	case model.ItemBrief, model.ItemTask:
		return nil
	default:
		return nil
	}
}

// Exists reports whether ref names a live entity.
func (ws *Workspace) Exists(ref model.ItemRef) bool {
	_, ok := ws.Title(ref)
	return ok
}

// Title returns the display title of ref.
func (ws *Workspace) Title(ref model.ItemRef) (string, bool) {
	switch ref.Type {
	case model.ItemBrief:
		if b, ok := ws.FindBrief(ref.ProjectID, ref.ItemID); ok {
			return b.Title, true
		}
	case model.ItemNote, model.ItemCopy:
		if it, ok := ws.FindItem(ref.ProjectID, ref.Type, ref.ItemID); ok {
			return it.Title, true
		}
	case model.ItemTask:
		if t, ok := ws.FindTask(ref.ProjectID, ref.ItemID); ok {
			return t.Title, true
		}
	}
	return "", false
}

// TaskCount returns the number of tasks across all projects.
func (ws *Workspace) TaskCount() int {
	n := 0
	for _, p := range ws.Projects {
		n += len(p.Tasks)
	}
	return n
}

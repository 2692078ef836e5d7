package store

import (
	"fmt"
	"strings"

	"brieflink/internal/model"
)

// CreateProject appends a project with the next free color theme.
func (ws *Workspace) CreateProject(name string) (*model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("project: %w", ErrEmptyTitle)
	}
	p := model.Project{
		ID: ws.nextID("proj", func(id string) bool {
			_, ok := ws.FindProject(id)
			return ok
		}),
		Name:       name,
		ColorTheme: nextProjectTheme(ws.Projects),
		Briefs:     []model.Brief{},
		Notes:      []model.Item{},
		Copy:       []model.Item{},
		Tasks:      []model.Task{},
		CreatedAt:  ws.Now(),
	}
	ws.Projects = append(ws.Projects, p)
	return &ws.Projects[len(ws.Projects)-1], nil
}

func (ws *Workspace) RenameProject(id, name string) (*model.Project, error) {
	p, ok := ws.FindProject(id)
	if !ok {
		return nil, NotFoundError{Kind: "project", ID: id}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("project: %w", ErrEmptyTitle)
	}
	p.Name = name
	return p, nil
}

type BriefInput struct {
	Title       string
	Proposition string
	ClientBrief string
}

// CreateBrief adds a brief and assigns it the next link color.
func (ws *Workspace) CreateBrief(projectID string, in BriefInput) (*model.Brief, error) {
	p, ok := ws.FindProject(projectID)
	if !ok {
		return nil, NotFoundError{Kind: "project", ID: projectID}
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("brief: %w", ErrEmptyTitle)
	}
	b := model.Brief{
		ID:          ws.nextID("brief", func(id string) bool { return projectHasID(p, id) }),
		Title:       title,
		Proposition: in.Proposition,
		ClientBrief: in.ClientBrief,
		LinkColor:   ws.takeLinkColor(),
		CreatedAt:   ws.Now(),
	}
	p.Briefs = append(p.Briefs, b)
	return &p.Briefs[len(p.Briefs)-1], nil
}

// BriefPatch carries optional field updates; nil leaves a field unchanged.
type BriefPatch struct {
	Title       *string
	Proposition *string
	ClientBrief *string
}

func (ws *Workspace) UpdateBrief(projectID, id string, patch BriefPatch) (*model.Brief, error) {
	b, ok := ws.FindBrief(projectID, id)
	if !ok {
		return nil, NotFoundError{Kind: "brief", ID: id}
	}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			return nil, fmt.Errorf("brief: %w", ErrEmptyTitle)
		}
		b.Title = t
	}
	if patch.Proposition != nil {
		b.Proposition = *patch.Proposition
	}
	if patch.ClientBrief != nil {
		b.ClientBrief = *patch.ClientBrief
	}
	return b, nil
}

type ItemInput struct {
	Title         string
	Content       string
	LinkedBriefID string
}

// CreateItem adds a note or copy entry at the end of its collection.
func (ws *Workspace) CreateItem(projectID string, typ model.ItemType, in ItemInput) (*model.Item, error) {
	p, ok := ws.FindProject(projectID)
	if !ok {
		return nil, NotFoundError{Kind: "project", ID: projectID}
	}
	xs := Collection(p, typ)
	if xs == nil {
		return nil, fmt.Errorf("cannot create %s as a note/copy item", typ)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%s: %w", typ, ErrEmptyTitle)
	}
	linked := strings.TrimSpace(in.LinkedBriefID)
	if linked != "" {
		if _, ok := ws.FindBrief(projectID, linked); !ok {
			return nil, NotFoundError{Kind: "brief", ID: linked}
		}
	}
	it := model.Item{
		ID:            ws.nextID(string(typ), func(id string) bool { return projectHasID(p, id) }),
		Title:         title,
		Content:       in.Content,
		Order:         nextOrder(*xs),
		LinkedBriefID: linked,
		CreatedAt:     ws.Now(),
	}
	*xs = append(*xs, it)
	return &(*xs)[len(*xs)-1], nil
}

type ItemPatch struct {
	Title   *string
	Content *string
}

func (ws *Workspace) UpdateItem(projectID string, typ model.ItemType, id string, patch ItemPatch) (*model.Item, error) {
	it, ok := ws.FindItem(projectID, typ, id)
	if !ok {
		return nil, NotFoundError{Kind: string(typ), ID: id}
	}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			return nil, fmt.Errorf("%s: %w", typ, ErrEmptyTitle)
		}
		it.Title = t
	}
	if patch.Content != nil {
		it.Content = *patch.Content
	}
	return it, nil
}

// LinkItem sets (or with an empty briefID clears) a note/copy entry's brief link.
func (ws *Workspace) LinkItem(projectID string, typ model.ItemType, id, briefID string) (*model.Item, error) {
	it, ok := ws.FindItem(projectID, typ, id)
	if !ok {
		return nil, NotFoundError{Kind: string(typ), ID: id}
	}
	briefID = strings.TrimSpace(briefID)
	if briefID != "" {
		if _, ok := ws.FindBrief(projectID, briefID); !ok {
			return nil, NotFoundError{Kind: "brief", ID: briefID}
		}
	}
	it.LinkedBriefID = briefID
	return it, nil
}

// MoveItem moves a note to copy or a copy to notes. The moved entry lands
// first (order 0) and every destination sibling shifts down by one. Tasks
// sourced from the entry follow it to the new collection.
func (ws *Workspace) MoveItem(projectID string, from model.ItemType, id string) (*model.Item, model.ItemType, error) {
	p, ok := ws.FindProject(projectID)
	if !ok {
		return nil, "", NotFoundError{Kind: "project", ID: projectID}
	}
	var to model.ItemType
	switch from {
	case model.ItemNote:
		to = model.ItemCopy
	case model.ItemCopy:
		to = model.ItemNote
	case model.ItemBrief, model.ItemTask:
		return nil, "", fmt.Errorf("cannot move a %s between notes and copy", from)
	default:
		return nil, "", fmt.Errorf("cannot move a %s between notes and copy", from)
	}
	src := Collection(p, from)
	dst := Collection(p, to)

	idx := -1
	for i := range *src {
		if (*src)[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, "", NotFoundError{Kind: string(from), ID: id}
	}
	moved := (*src)[idx]
	*src = append((*src)[:idx], (*src)[idx+1:]...)

	for i := range *dst {
		(*dst)[i].Order++
	}
	moved.Order = 0
	*dst = append([]model.Item{moved}, (*dst)...)

	for i := range ws.Projects {
		q := &ws.Projects[i]
		for j := range q.Tasks {
			t := &q.Tasks[j]
			ref, ok := t.Source(q.ID)
			if ok && ref.ProjectID == projectID && ref.Type == from && ref.ItemID == id {
				t.SourceItemType = to
			}
		}
	}
	return &(*dst)[0], to, nil
}

type TaskInput struct {
	Title           string
	Content         string
	SourceItemID    string
	SourceItemType  model.ItemType
	SourceProjectID string
}

// CreateTask adds a task. A source, when given, must exist.
func (ws *Workspace) CreateTask(projectID string, in TaskInput) (*model.Task, error) {
	p, ok := ws.FindProject(projectID)
	if !ok {
		return nil, NotFoundError{Kind: "project", ID: projectID}
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("task: %w", ErrEmptyTitle)
	}
	t := model.Task{
		Title:     title,
		Content:   in.Content,
		CreatedAt: ws.Now(),
	}
	if srcID := strings.TrimSpace(in.SourceItemID); srcID != "" {
		if !in.SourceItemType.CanSource() {
			return nil, fmt.Errorf("task source must be a brief, note or copy item; got %q", in.SourceItemType)
		}
		srcProject := strings.TrimSpace(in.SourceProjectID)
		if srcProject == projectID {
			srcProject = ""
		}
		t.SourceItemID = srcID
		t.SourceItemType = in.SourceItemType
		t.SourceProjectID = srcProject
		ref, _ := t.Source(projectID)
		if !ws.Exists(ref) {
			return nil, NotFoundError{Kind: string(ref.Type), ID: ref.ItemID}
		}
	}
	t.ID = ws.nextID("task", func(id string) bool { return projectHasID(p, id) })
	p.Tasks = append(p.Tasks, t)
	return &p.Tasks[len(p.Tasks)-1], nil
}

type TaskPatch struct {
	Title   *string
	Content *string
	Order   *int
}

func (ws *Workspace) UpdateTask(projectID, id string, patch TaskPatch) (*model.Task, error) {
	t, ok := ws.FindTask(projectID, id)
	if !ok {
		return nil, NotFoundError{Kind: "task", ID: id}
	}
	if patch.Title != nil {
		s := strings.TrimSpace(*patch.Title)
		if s == "" {
			return nil, fmt.Errorf("task: %w", ErrEmptyTitle)
		}
		t.Title = s
	}
	if patch.Content != nil {
		t.Content = *patch.Content
	}
	if patch.Order != nil {
		t.Order = *patch.Order
	}
	return t, nil
}

package model

import (
	"fmt"
	"strings"
	"time"
)

// ItemType is the closed set of linkable entity kinds.
type ItemType string

const (
	ItemBrief ItemType = "brief"
	ItemNote  ItemType = "note"
	ItemCopy  ItemType = "copy"
	ItemTask  ItemType = "task"
)

// ItemTypes lists every ItemType in display order.
var ItemTypes = []ItemType{ItemBrief, ItemNote, ItemCopy, ItemTask}

func ParseItemType(s string) (ItemType, error) {
	switch ItemType(strings.ToLower(strings.TrimSpace(s))) {
	case ItemBrief:
		return ItemBrief, nil
	case ItemNote, "notes":
		return ItemNote, nil
	case ItemCopy:
		return ItemCopy, nil
	case ItemTask, "tasks":
		return ItemTask, nil
	default:
		return "", fmt.Errorf("invalid item type: %q (expected brief|note|copy|task)", s)
	}
}

// CanSource reports whether tasks may derive from items of this type.
func (t ItemType) CanSource() bool {
	switch t {
	case ItemBrief, ItemNote, ItemCopy:
		return true
	case ItemTask:
		return false
	default:
		return false
	}
}

// ItemRef identifies any entity. IDs are only unique within a project.
type ItemRef struct {
	ProjectID string   `json:"projectId"`
	ItemID    string   `json:"itemId"`
	Type      ItemType `json:"itemType"`
}

func (r ItemRef) Key() string {
	return r.ProjectID + "-" + r.ItemID + "-" + string(r.Type)
}

func (r ItemRef) String() string {
	return fmt.Sprintf("%s %s/%s", r.Type, r.ProjectID, r.ItemID)
}

type Project struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ColorTheme string    `json:"colorTheme"`
	Briefs     []Brief   `json:"briefs"`
	Notes      []Item    `json:"notes"`
	Copy       []Item    `json:"copy"`
	Tasks      []Task    `json:"tasks"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Brief struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Proposition string    `json:"proposition,omitempty"`
	ClientBrief string    `json:"clientBrief,omitempty"`
	LinkColor   string    `json:"linkColor"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Item is a Note or a Copy entry; which one is decided by the collection holding it.
type Item struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content,omitempty"`
	Order         int       `json:"order"`
	LinkedBriefID string    `json:"linkedBriefId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	Order       int        `json:"order,omitempty"`

	SourceItemID   string   `json:"sourceItemId,omitempty"`
	SourceItemType ItemType `json:"sourceItemType,omitempty"`
	// SourceProjectID names the project owning the source item.
	// Empty means the task's own project.
	SourceProjectID string `json:"sourceProjectId,omitempty"`
}

// HasSource reports whether the task derives from another item.
func (t Task) HasSource() bool {
	return strings.TrimSpace(t.SourceItemID) != "" && t.SourceItemType != ""
}

// Source returns the resolved reference of the task's source item.
func (t Task) Source(ownerProjectID string) (ItemRef, bool) {
	if !t.HasSource() {
		return ItemRef{}, false
	}
	pid := strings.TrimSpace(t.SourceProjectID)
	if pid == "" {
		pid = ownerProjectID
	}
	return ItemRef{ProjectID: pid, ItemID: t.SourceItemID, Type: t.SourceItemType}, true
}

// TaskKey is the cross-project identity of a task: "<projectId>-<taskId>".
func TaskKey(projectID, taskID string) string {
	return projectID + "-" + taskID
}

// GlobalTaskOrder is the persisted manual ordering of the global task view.
type GlobalTaskOrder struct {
	TopThree []string `json:"topThree"`
	Other    []string `json:"other"`
}

type Breadcrumb struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	ItemID    string    `json:"itemId"`
	ItemType  ItemType  `json:"itemType"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
}

func (b Breadcrumb) Ref() ItemRef {
	return ItemRef{ProjectID: b.ProjectID, ItemID: b.ItemID, Type: b.ItemType}
}

// Selection holds plain-text character offsets within the editable region.
type Selection struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type Scroll struct {
	Top  int `json:"top"`
	Left int `json:"left"`
}

// Snapshot is the captured state of an open editor.
type Snapshot struct {
	ProjectID  string    `json:"projectId"`
	ItemID     string    `json:"itemId"`
	ItemType   ItemType  `json:"itemType"`
	Title      string    `json:"title"`
	Content    string    `json:"content,omitempty"`
	HTML       string    `json:"html,omitempty"`
	IsRichText bool      `json:"isRichText"`
	Cursor     Selection `json:"cursor"`
	Scroll     Scroll    `json:"scroll"`
	Timestamp  time.Time `json:"timestamp"`
}

func (s Snapshot) Ref() ItemRef {
	return ItemRef{ProjectID: s.ProjectID, ItemID: s.ItemID, Type: s.ItemType}
}

// Body returns whichever of HTML or Content is active.
func (s Snapshot) Body() string {
	if s.IsRichText {
		return s.HTML
	}
	return s.Content
}

type GlobalContext struct {
	ActiveProjectID string `json:"activeProjectId,omitempty"`
	View            string `json:"view,omitempty"`
}

type WorkContext struct {
	Breadcrumbs     []Breadcrumb        `json:"breadcrumbs"`
	CurrentContext  *Snapshot           `json:"currentContext,omitempty"`
	ProjectContexts map[string]Snapshot `json:"projectContexts,omitempty"`
	GlobalContext   GlobalContext       `json:"globalContext"`
	Timestamp       time.Time           `json:"timestamp"`
}

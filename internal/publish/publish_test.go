package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"brieflink/internal/model"
	"brieflink/internal/store"
)

func seed(t *testing.T) (*store.Workspace, string, string) {
	t.Helper()
	now := time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)
	ws := store.New(store.NewMemoryGateway(), store.Options{Now: func() time.Time { return now }})
	p, err := ws.CreateProject("Spring launch")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	pid := p.ID
	q, err := ws.CreateProject("Ops")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	qid := q.ID
	b, err := ws.CreateBrief(pid, store.BriefInput{Title: "Hero", Proposition: "Faster **mornings**"})
	if err != nil {
		t.Fatalf("create brief: %v", err)
	}
	bid := b.ID
	n, err := ws.CreateItem(pid, model.ItemNote, store.ItemInput{Title: "Taglines", Content: "Wake up brighter", LinkedBriefID: bid})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}
	if _, err := ws.CreateItem(pid, model.ItemCopy, store.ItemInput{Title: "Loose copy"}); err != nil {
		t.Fatalf("create copy: %v", err)
	}
	if _, err := ws.CreateTask(pid, store.TaskInput{Title: "Draft taglines", SourceItemID: n.ID, SourceItemType: model.ItemNote}); err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := ws.CreateTask(qid, store.TaskInput{Title: "Book studio", SourceItemID: bid, SourceItemType: model.ItemBrief, SourceProjectID: pid}); err != nil {
		t.Fatalf("create task: %v", err)
	}
	done, err := ws.CreateTask(pid, store.TaskInput{Title: "Kickoff", SourceItemID: bid, SourceItemType: model.ItemBrief})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	done.Completed = true
	if _, err := ws.CreateTask(pid, store.TaskInput{Title: "Invoice"}); err != nil {
		t.Fatalf("create task: %v", err)
	}
	return ws, pid, bid
}

func TestRenderBriefMarkdown_IncludesLinkedWork(t *testing.T) {
	t.Parallel()
	ws, pid, bid := seed(t)

	md, err := RenderBriefMarkdown(ws, pid, bid, RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"# Hero",
		"- Project: Spring launch (" + pid + ")",
		"- Color: #3b82f6",
		"## Proposition\n\nFaster **mornings**",
		"### Taglines\n\nWake up brighter",
		"- [ ] Draft taglines",
		"- [ ] Book studio (Ops)",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected markdown to contain %q; got:\n%s", want, md)
		}
	}
	if strings.Contains(md, "Kickoff") {
		t.Fatalf("completed task should be hidden by default:\n%s", md)
	}
	if strings.Contains(md, "Loose copy") {
		t.Fatalf("unlinked copy does not belong to the brief:\n%s", md)
	}

	md, err = RenderBriefMarkdown(ws, pid, bid, RenderOptions{IncludeCompleted: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(md, "- [x] Kickoff") {
		t.Fatalf("expected completed task with IncludeCompleted:\n%s", md)
	}
}

func TestRenderBriefMarkdown_NotFound(t *testing.T) {
	t.Parallel()
	ws, pid, _ := seed(t)
	if _, err := RenderBriefMarkdown(ws, pid, "brief-missing", RenderOptions{}); err == nil {
		t.Fatalf("expected error for missing brief")
	}
	if _, err := RenderProjectIndexMarkdown(ws, "proj-missing", RenderOptions{}); err == nil {
		t.Fatalf("expected error for missing project")
	}
}

func TestWriteProject_WritesIndexAndBriefs(t *testing.T) {
	t.Parallel()
	ws, pid, bid := seed(t)
	dir := t.TempDir()

	res, err := WriteProject(ws, pid, dir, WriteOptions{})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(res.Written) != 2 {
		t.Fatalf("expected index + 1 brief; got %v", res.Written)
	}

	index, err := os.ReadFile(filepath.Join(dir, "index.md"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	for _, want := range []string{"# Spring launch", "- [Hero](briefs/" + bid + ".md)", "## Unlinked copy", "- Loose copy", "- [ ] Invoice"} {
		if !strings.Contains(string(index), want) {
			t.Fatalf("index missing %q:\n%s", want, index)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "briefs", bid+".md")); err != nil {
		t.Fatalf("brief page missing: %v", err)
	}

	if _, err := WriteProject(ws, pid, dir, WriteOptions{}); err == nil || !strings.Contains(err.Error(), "--overwrite") {
		t.Fatalf("expected overwrite error; got %v", err)
	}
	if _, err := WriteProject(ws, pid, dir, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if _, err := WriteBrief(ws, pid, bid, "", WriteOptions{}); err == nil {
		t.Fatalf("expected missing --to error")
	}
}

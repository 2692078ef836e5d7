package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brieflink/internal/model"
	"brieflink/internal/store"
)

type fixture struct {
	ws                      *store.Workspace
	pid, other              string
	brief, note, copy, task model.ItemRef
	crossTask, plainTask    model.ItemRef
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ws := store.New(store.NewMemoryGateway(), store.Options{})
	p, err := ws.CreateProject("A")
	require.NoError(t, err)
	pid := p.ID
	q, err := ws.CreateProject("B")
	require.NoError(t, err)
	other := q.ID

	b, err := ws.CreateBrief(pid, store.BriefInput{Title: "Brief"})
	require.NoError(t, err)
	brief := model.ItemRef{ProjectID: pid, ItemID: b.ID, Type: model.ItemBrief}
	n, err := ws.CreateItem(pid, model.ItemNote, store.ItemInput{Title: "Note", LinkedBriefID: b.ID})
	require.NoError(t, err)
	note := model.ItemRef{ProjectID: pid, ItemID: n.ID, Type: model.ItemNote}
	c, err := ws.CreateItem(pid, model.ItemCopy, store.ItemInput{Title: "Copy"})
	require.NoError(t, err)
	cp := model.ItemRef{ProjectID: pid, ItemID: c.ID, Type: model.ItemCopy}
	tk, err := ws.CreateTask(pid, store.TaskInput{Title: "T", SourceItemID: n.ID, SourceItemType: model.ItemNote})
	require.NoError(t, err)
	task := model.ItemRef{ProjectID: pid, ItemID: tk.ID, Type: model.ItemTask}
	xt, err := ws.CreateTask(other, store.TaskInput{Title: "X", SourceItemID: b.ID, SourceItemType: model.ItemBrief, SourceProjectID: pid})
	require.NoError(t, err)
	cross := model.ItemRef{ProjectID: other, ItemID: xt.ID, Type: model.ItemTask}
	pt, err := ws.CreateTask(pid, store.TaskInput{Title: "plain"})
	require.NoError(t, err)
	plain := model.ItemRef{ProjectID: pid, ItemID: pt.ID, Type: model.ItemTask}

	return fixture{ws: ws, pid: pid, other: other, brief: brief, note: note, copy: cp, task: task, crossTask: cross, plainTask: plain}
}

func TestColorFor_FollowsChainToBrief(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	want := store.LinkPalette[0]
	for _, ref := range []model.ItemRef{f.brief, f.note, f.task, f.crossTask} {
		got, ok := ColorFor(f.ws, ref)
		assert.True(t, ok, "expected color for %s", ref)
		assert.Equal(t, want, got, "color for %s", ref)
	}

	for _, ref := range []model.ItemRef{f.copy, f.plainTask, {ProjectID: f.pid, ItemID: "nope", Type: model.ItemNote}} {
		_, ok := ColorFor(f.ws, ref)
		assert.False(t, ok, "expected no color for %s", ref)
	}
}

func TestColorFor_DanglingLinkHasNoColor(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p, _ := f.ws.FindProject(f.pid)
	p.Briefs = nil

	_, ok := ColorFor(f.ws, f.task)
	assert.False(t, ok)
	_, ok = ColorFor(f.ws, f.note)
	assert.False(t, ok)
}

func TestParentAndSourceChain(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	parent, ok := Parent(f.ws, f.task)
	require.True(t, ok)
	assert.Equal(t, f.note, parent)

	_, ok = Parent(f.ws, f.brief)
	assert.False(t, ok)

	assert.Equal(t, []model.ItemRef{f.task, f.note, f.brief}, SourceChain(f.ws, f.task))
	assert.Equal(t, []model.ItemRef{f.crossTask, f.brief}, SourceChain(f.ws, f.crossTask))
}

func TestChildren(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	assert.ElementsMatch(t, []model.ItemRef{f.note, f.crossTask}, Children(f.ws, f.brief))
	assert.Equal(t, []model.ItemRef{f.task}, Children(f.ws, f.note))
	assert.Empty(t, Children(f.ws, f.copy))
	assert.Empty(t, Children(f.ws, f.task))
}

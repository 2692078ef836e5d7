package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"brieflink/internal/model"
)

func fixedClock() func() time.Time {
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return t0.Add(time.Duration(n) * time.Second)
	}
}

func newWorkspace(t *testing.T) (*Workspace, *model.Project) {
	t.Helper()
	ws := New(NewMemoryGateway(), Options{Now: fixedClock()})
	p, err := ws.CreateProject("Launch")
	require.NoError(t, err)
	return ws, p
}

func TestLoad_MalformedBlobsFallBackToEmptyDefaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	gw := NewMemoryGateway()
	require.NoError(t, gw.Put(ctx, KeyProjects, []byte(`{not json`)))
	require.NoError(t, gw.Put(ctx, KeyGlobalTaskOrder, []byte(`[1,2,3]`)))

	core, logs := observer.New(zapcore.WarnLevel)
	ws, err := Load(ctx, gw, Options{Logger: zap.New(core)})
	require.NoError(t, err)

	assert.Empty(t, ws.Projects)
	assert.NotNil(t, ws.Projects)
	assert.Empty(t, ws.Order.TopThree)
	assert.Empty(t, ws.Order.Other)
	assert.Equal(t, 2, logs.FilterMessage("malformed persisted state; using empty default").Len())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ws, p := newWorkspace(t)
	pid := p.ID

	b, err := ws.CreateBrief(pid, BriefInput{Title: "Hero", Proposition: "Faster mornings"})
	require.NoError(t, err)
	n, err := ws.CreateItem(pid, model.ItemNote, ItemInput{Title: "Taglines", LinkedBriefID: b.ID})
	require.NoError(t, err)
	_, err = ws.CreateTask(pid, TaskInput{Title: "Draft", SourceItemID: n.ID, SourceItemType: model.ItemNote})
	require.NoError(t, err)
	ws.Order.TopThree = []string{"x"}
	require.NoError(t, ws.Save(ctx))

	got, err := Load(ctx, ws.Gateway(), Options{})
	require.NoError(t, err)
	if diff := cmp.Diff(ws.Projects, got.Projects); diff != "" {
		t.Fatalf("projects mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ws.Order, got.Order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateProject_AssignsUnusedThemes(t *testing.T) {
	t.Parallel()
	ws := New(nil, Options{})

	seen := map[string]bool{}
	for i := range ProjectThemes {
		p, err := ws.CreateProject("P")
		require.NoError(t, err)
		assert.False(t, seen[p.ColorTheme], "theme %q reused at project %d", p.ColorTheme, i)
		seen[p.ColorTheme] = true
	}
	p, err := ws.CreateProject("wraps")
	require.NoError(t, err)
	assert.Contains(t, ProjectThemes, p.ColorTheme)

	_, err = ws.CreateProject("  ")
	assert.True(t, errors.Is(err, ErrEmptyTitle))
}

func TestCreateBrief_TakesPaletteInOrderAndWraps(t *testing.T) {
	t.Parallel()
	ws, p := newWorkspace(t)

	for i := 0; i < len(LinkPalette)+2; i++ {
		b, err := ws.CreateBrief(p.ID, BriefInput{Title: "B"})
		require.NoError(t, err)
		assert.Equal(t, LinkPalette[i%len(LinkPalette)], b.LinkColor)
	}
}

func TestLoad_ReconstructsLinkColorIndex(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ws, p := newWorkspace(t)
	pid := p.ID
	for i := 0; i < 3; i++ {
		_, err := ws.CreateBrief(pid, BriefInput{Title: "B"})
		require.NoError(t, err)
	}
	require.NoError(t, ws.Save(ctx))

	got, err := Load(ctx, ws.Gateway(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, got.NextLinkColorIndex())

	b, err := got.CreateBrief(pid, BriefInput{Title: "after restart"})
	require.NoError(t, err)
	assert.Equal(t, LinkPalette[3], b.LinkColor)
}

func TestCreateItem_OrderIsMaxPlusOne(t *testing.T) {
	t.Parallel()
	ws, p := newWorkspace(t)

	a, err := ws.CreateItem(p.ID, model.ItemCopy, ItemInput{Title: "a"})
	require.NoError(t, err)
	assert.Equal(t, 0, a.Order)
	p.Copy[0].Order = 7
	b, err := ws.CreateItem(p.ID, model.ItemCopy, ItemInput{Title: "b"})
	require.NoError(t, err)
	assert.Equal(t, 8, b.Order)

	_, err = ws.CreateItem(p.ID, model.ItemNote, ItemInput{Title: "x", LinkedBriefID: "brief-nope"})
	assert.True(t, IsNotFound(err))
	_, err = ws.CreateItem(p.ID, model.ItemTask, ItemInput{Title: "x"})
	assert.Error(t, err)
}

func TestMoveItem_LandsFirstAndRetypesSourcedTasks(t *testing.T) {
	t.Parallel()
	ws, p := newWorkspace(t)
	pid := p.ID

	c1, _ := ws.CreateItem(pid, model.ItemCopy, ItemInput{Title: "c1"})
	c1ID := c1.ID
	c2, _ := ws.CreateItem(pid, model.ItemCopy, ItemInput{Title: "c2"})
	c2ID := c2.ID
	n, _ := ws.CreateItem(pid, model.ItemNote, ItemInput{Title: "n"})
	nID := n.ID
	task, err := ws.CreateTask(pid, TaskInput{Title: "t", SourceItemID: nID, SourceItemType: model.ItemNote})
	require.NoError(t, err)
	taskID := task.ID

	moved, to, err := ws.MoveItem(pid, model.ItemNote, nID)
	require.NoError(t, err)
	assert.Equal(t, model.ItemCopy, to)
	assert.Equal(t, 0, moved.Order)

	p, _ = ws.FindProject(pid)
	assert.Empty(t, p.Notes)
	sorted := SortedItems(p, model.ItemCopy)
	require.Len(t, sorted, 3)
	assert.Equal(t, []string{nID, c1ID, c2ID}, []string{sorted[0].ID, sorted[1].ID, sorted[2].ID})
	assert.Equal(t, []int{0, 1, 2}, []int{sorted[0].Order, sorted[1].Order, sorted[2].Order})

	tk, ok := ws.FindTask(pid, taskID)
	require.True(t, ok)
	assert.Equal(t, model.ItemCopy, tk.SourceItemType)

	_, _, err = ws.MoveItem(pid, model.ItemBrief, "brief-x")
	assert.Error(t, err)
	_, _, err = ws.MoveItem(pid, model.ItemNote, "note-missing")
	assert.True(t, IsNotFound(err))
}

func TestCreateTask_ValidatesSource(t *testing.T) {
	t.Parallel()
	ws, p := newWorkspace(t)
	pid := p.ID
	other, err := ws.CreateProject("Other")
	require.NoError(t, err)
	otherID := other.ID
	b, err := ws.CreateBrief(otherID, BriefInput{Title: "Remote"})
	require.NoError(t, err)

	_, err = ws.CreateTask(pid, TaskInput{Title: "t", SourceItemID: "note-zz", SourceItemType: model.ItemNote})
	assert.True(t, IsNotFound(err))

	_, err = ws.CreateTask(pid, TaskInput{Title: "t", SourceItemID: "task-1", SourceItemType: model.ItemTask})
	assert.Error(t, err)

	task, err := ws.CreateTask(pid, TaskInput{Title: "cross", SourceItemID: b.ID, SourceItemType: model.ItemBrief, SourceProjectID: otherID})
	require.NoError(t, err)
	ref, ok := task.Source(pid)
	require.True(t, ok)
	assert.Equal(t, model.ItemRef{ProjectID: otherID, ItemID: b.ID, Type: model.ItemBrief}, ref)

	same, err := ws.CreateTask(otherID, TaskInput{Title: "same", SourceItemID: b.ID, SourceItemType: model.ItemBrief, SourceProjectID: otherID})
	require.NoError(t, err)
	assert.Empty(t, same.SourceProjectID, "same-project source is stored without a project id")
}

func TestUpdate_PatchesOnlyGivenFields(t *testing.T) {
	t.Parallel()
	ws, p := newWorkspace(t)
	b, _ := ws.CreateBrief(p.ID, BriefInput{Title: "B", Proposition: "P", ClientBrief: "C"})

	title := "B2"
	got, err := ws.UpdateBrief(p.ID, b.ID, BriefPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "B2", got.Title)
	assert.Equal(t, "P", got.Proposition)
	assert.Equal(t, "C", got.ClientBrief)

	empty := " "
	_, err = ws.UpdateBrief(p.ID, b.ID, BriefPatch{Title: &empty})
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

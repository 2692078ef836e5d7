package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// harness runs commands against an isolated data dir and config file.
type harness struct {
	t    *testing.T
	base []string
}

func newHarness(t *testing.T, backend string) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{t: t, base: []string{
		"--dir", filepath.Join(dir, "data"),
		"--config", filepath.Join(dir, "config.yaml"),
		"--backend", backend,
	}}
}

func (h *harness) run(args ...string) map[string]any {
	h.t.Helper()
	full := append(append([]string{}, h.base...), args...)
	stdout, stderr, err := runCLI(h.t, full)
	if err != nil {
		h.t.Fatalf("command failed: brieflink %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		h.t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
	}
	if _, ok := env["data"]; !ok {
		h.t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	return env
}

func (h *harness) fail(args ...string) string {
	h.t.Helper()
	full := append(append([]string{}, h.base...), args...)
	_, stderr, err := runCLI(h.t, full)
	if err == nil {
		h.t.Fatalf("expected brieflink %v to fail", args)
	}
	return string(stderr)
}

func dataMap(t *testing.T, env map[string]any) map[string]any {
	t.Helper()
	m, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object; got %#v", env["data"])
	}
	return m
}

func idOf(t *testing.T, env map[string]any) string {
	t.Helper()
	id, _ := dataMap(t, env)["id"].(string)
	if id == "" {
		t.Fatalf("expected data.id; got %#v", env["data"])
	}
	return id
}

func TestCLI_BriefCascadeScenario(t *testing.T) {
	t.Parallel()
	for _, backend := range []string{"sqlite", "json"} {
		t.Run(backend, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t, backend)

			pid := idOf(t, h.run("projects", "create", "--name", "Spring launch"))
			brief := h.run("briefs", "create", "--title", "B1", "--proposition", "Faster mornings")
			briefID := idOf(t, brief)
			if got := dataMap(t, brief)["linkColor"]; got != "#3b82f6" {
				t.Fatalf("first brief color = %v, want #3b82f6", got)
			}
			noteID := idOf(t, h.run("notes", "create", "--title", "Tagline ideas", "--brief", briefID))
			taskID := idOf(t, h.run("tasks", "create", "--title", "Draft taglines", "--source", "note:"+noteID))

			color := dataMap(t, h.run("color", "task", taskID))
			if color["color"] != "#3b82f6" {
				t.Fatalf("task color = %v", color["color"])
			}
			if chain, _ := color["chain"].([]any); len(chain) != 3 {
				t.Fatalf("expected task -> note -> brief chain; got %#v", color["chain"])
			}

			h.run("tasks", "move", pid+"-"+taskID, "--to", "top")
			h.run("trail", "visit", "note", noteID)

			del := h.run("--yes", "briefs", "delete", briefID)
			summary, _ := dataMap(t, del)["summary"].(string)
			if summary != `Deleted brief "B1" along with 1 linked note and 1 derived task` {
				t.Fatalf("summary = %q", summary)
			}

			projects, _ := h.run("projects", "list")["data"].([]any)
			if len(projects) != 1 {
				t.Fatalf("expected 1 project; got %d", len(projects))
			}
			p := projects[0].(map[string]any)
			for _, key := range []string{"briefs", "notes", "tasks"} {
				if xs, _ := p[key].([]any); len(xs) != 0 {
					t.Fatalf("expected %s to be empty after cascade; got %#v", key, p[key])
				}
			}
			order := dataMap(t, h.run("tasks", "order"))
			if xs, _ := order["topThree"].([]any); len(xs) != 0 {
				t.Fatalf("expected empty topThree; got %#v", order["topThree"])
			}
			if crumbs, _ := h.run("trail", "list")["data"].([]any); len(crumbs) != 0 {
				t.Fatalf("expected no breadcrumbs; got %#v", crumbs)
			}
		})
	}
}

func TestCLI_DeleteNeedsConfirmationWithoutTTY(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "sqlite")
	h.run("projects", "create", "--name", "P")
	briefID := idOf(t, h.run("briefs", "create", "--title", "B"))

	stderr := h.fail("briefs", "delete", briefID)
	if !strings.Contains(stderr, "confirmation required") {
		t.Fatalf("expected confirmation error; got %q", stderr)
	}
	if xs, _ := h.run("briefs", "list")["data"].([]any); len(xs) != 1 {
		t.Fatalf("brief should survive; got %#v", xs)
	}
}

func TestCLI_DeleteUnknownIsAborted(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "sqlite")
	h.run("projects", "create", "--name", "P")

	env := h.run("notes", "delete", "note-missing")
	meta, _ := env["meta"].(map[string]any)
	if meta["aborted"] == nil {
		t.Fatalf("expected aborted meta; got %#v", env)
	}
}

func TestCLI_TopThreeEviction(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "json")
	pid := idOf(t, h.run("projects", "create", "--name", "P"))

	var keys []string
	for _, title := range []string{"T1", "T2", "T3", "T4"} {
		keys = append(keys, pid+"-"+idOf(t, h.run("tasks", "create", "--title", title)))
	}
	for _, k := range keys {
		h.run("tasks", "move", k, "--to", "top")
	}

	order := dataMap(t, h.run("tasks", "order"))
	top, _ := order["topThree"].([]any)
	other, _ := order["other"].([]any)
	want := []any{keys[0], keys[1], keys[3]}
	if len(top) != 3 || top[0] != want[0] || top[1] != want[1] || top[2] != want[2] {
		t.Fatalf("topThree = %#v, want %#v", top, want)
	}
	if len(other) == 0 || other[0] != keys[2] {
		t.Fatalf("expected evicted task first in other; got %#v", other)
	}

	if sec := dataMap(t, h.run("tasks", "order", keys[2]))["section"]; sec != "other" {
		t.Fatalf("evicted task section = %v, want other", sec)
	}
	if sec := dataMap(t, h.run("tasks", "order", keys[3]))["section"]; sec != "top" {
		t.Fatalf("moved task section = %v, want top", sec)
	}
	missing := h.run("tasks", "order", pid+"-task-missing")
	if meta, _ := missing["meta"].(map[string]any); meta["aborted"] == nil {
		t.Fatalf("expected aborted meta for unknown task; got %#v", missing)
	}

	h.fail("tasks", "move", keys[0], "--to", "sideways")
}

func TestCLI_ToggleRemovesFromTopThree(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "sqlite")
	pid := idOf(t, h.run("projects", "create", "--name", "P"))
	taskID := idOf(t, h.run("tasks", "create", "--title", "T"))
	h.run("tasks", "move", pid+"-"+taskID, "--to", "top")

	toggled := dataMap(t, h.run("tasks", "toggle", taskID))
	if toggled["completed"] != true {
		t.Fatalf("expected completed task; got %#v", toggled)
	}
	global := dataMap(t, h.run("tasks", "global"))
	if xs, _ := global["topThree"].([]any); len(xs) != 0 {
		t.Fatalf("completed task still in top three: %#v", xs)
	}
	order := dataMap(t, h.run("tasks", "order"))
	if xs, _ := order["topThree"].([]any); len(xs) != 0 {
		t.Fatalf("completed task still persisted in top three: %#v", xs)
	}
}

func TestCLI_MoveNoteToCopy(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "sqlite")
	h.run("projects", "create", "--name", "P")
	h.run("copy", "create", "--title", "existing")
	noteID := idOf(t, h.run("notes", "create", "--title", "moving"))

	moved := dataMap(t, h.run("notes", "move", noteID))
	if moved["type"] != "copy" {
		t.Fatalf("expected copy type; got %#v", moved)
	}
	copies, _ := h.run("copy", "list")["data"].([]any)
	if len(copies) != 2 {
		t.Fatalf("expected 2 copy entries; got %d", len(copies))
	}
	if first := copies[0].(map[string]any); first["id"] != noteID {
		t.Fatalf("moved entry should land first; got %#v", first)
	}
	if notes, _ := h.run("notes", "list")["data"].([]any); len(notes) != 0 {
		t.Fatalf("expected no notes; got %#v", notes)
	}
}

func TestCLI_TrailNavigateAcrossProjects(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "sqlite")
	first := idOf(t, h.run("projects", "create", "--name", "First"))
	noteID := idOf(t, h.run("notes", "create", "--title", "N"))
	crumb := dataMap(t, h.run("trail", "visit", "note", noteID))
	crumbID, _ := crumb["id"].(string)
	if crumbID != first+"-"+noteID+"-note" {
		t.Fatalf("crumb id = %q", crumbID)
	}
	h.run("projects", "create", "--name", "Second")

	res := dataMap(t, h.run("trail", "go", crumbID))
	if res["switchedProject"] != true {
		t.Fatalf("expected project switch; got %#v", res)
	}
	list := h.run("projects", "list")
	meta, _ := list["meta"].(map[string]any)
	if meta["activeProjectId"] != first {
		t.Fatalf("active project = %v, want %s", meta["activeProjectId"], first)
	}

	h.run("--yes", "notes", "delete", "--project", first, noteID)
	gone := h.run("trail", "go", crumbID)
	if meta, _ := gone["meta"].(map[string]any); meta["aborted"] == nil {
		t.Fatalf("expected aborted navigation; got %#v", gone)
	}
}

func TestCLI_ContextSaveAndResume(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "sqlite")
	h.run("projects", "create", "--name", "P")
	noteID := idOf(t, h.run("notes", "create", "--title", "Draft", "--content", "hello world"))

	snap := dataMap(t, h.run("context", "save", "note", noteID, "--cursor", "6,99", "--scroll", "10,0"))
	cursor, _ := snap["cursor"].(map[string]any)
	if cursor["start"] != float64(6) || cursor["end"] != float64(11) {
		t.Fatalf("cursor not clamped: %#v", cursor)
	}

	// Any other command announces the resumable session on stderr.
	_, stderr, err := runCLI(t, append(append([]string{}, h.base...), "projects", "list"))
	if err != nil {
		t.Fatalf("projects list: %v", err)
	}
	if !strings.Contains(string(stderr), `Resume editing note "Draft"`) {
		t.Fatalf("expected resume notice on stderr; got %q", stderr)
	}

	res := dataMap(t, h.run("context", "resume"))
	stages, _ := res["stages"].([]any)
	want := []string{"open-item", "title", "content", "cursor", "scroll"}
	if len(stages) != len(want) {
		t.Fatalf("stages = %#v", stages)
	}
	for i, s := range want {
		if stages[i] != s {
			t.Fatalf("stage %d = %v, want %s", i, stages[i], s)
		}
	}

	h.run("context", "clear")
	if _, stderr, _ := runCLI(t, append(append([]string{}, h.base...), "projects", "list")); strings.Contains(string(stderr), "Resume editing") {
		t.Fatalf("unexpected resume notice after clear: %q", stderr)
	}
	env := h.run("context", "resume")
	if meta, _ := env["meta"].(map[string]any); meta["aborted"] != "nothing to resume" {
		t.Fatalf("expected nothing to resume; got %#v", env)
	}
}

func TestCLI_CrossProjectTaskSource(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "sqlite")
	first := idOf(t, h.run("projects", "create", "--name", "First"))
	briefID := idOf(t, h.run("briefs", "create", "--title", "B"))
	h.run("projects", "create", "--name", "Second")
	taskID := idOf(t, h.run("tasks", "create", "--title", "T", "--source", "brief:"+briefID, "--source-project", first))

	if c := dataMap(t, h.run("color", "task", taskID))["color"]; c != "#3b82f6" {
		t.Fatalf("cross-project color = %v", c)
	}
	h.fail("tasks", "create", "--title", "T", "--source", "brief:"+briefID)
	h.fail("tasks", "create", "--title", "T", "--source", "task:x")

	h.run("--yes", "projects", "delete", first)
	if xs, _ := h.run("tasks", "list")["data"].([]any); len(xs) != 0 {
		t.Fatalf("cross-project dependent should be deleted; got %#v", xs)
	}
}

func TestCLI_OutputFormats(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "sqlite")
	h.run("projects", "create", "--name", "P")

	for format, marker := range map[string]string{"yaml": "data:", "edn": ":data"} {
		args := append(append([]string{}, h.base...), "--format", format, "projects", "list")
		stdout, stderr, err := runCLI(t, args)
		if err != nil {
			t.Fatalf("%s output failed: %v\n%s", format, err, stderr)
		}
		if !strings.Contains(string(stdout), marker) {
			t.Fatalf("%s output missing %q:\n%s", format, marker, stdout)
		}
	}

	args := append(append([]string{}, h.base...), "--format", "xml", "projects", "list")
	if _, _, err := runCLI(t, args); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestCLI_ExportAndConfig(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "json")
	h.run("projects", "create", "--name", "P")

	doc := dataMap(t, h.run("export"))
	for _, key := range []string{"projects", "globalTaskOrder", "workContext"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("export missing %s: %#v", key, doc)
		}
	}

	cfg := dataMap(t, h.run("config", "show"))
	storage, _ := cfg["storage"].(map[string]any)
	if storage["backend"] != "json" {
		t.Fatalf("expected --backend override in effective config; got %#v", storage)
	}
}

func TestCLI_PublishProject(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "json")
	h.run("projects", "create", "--name", "Spring launch")
	briefID := idOf(t, h.run("briefs", "create", "--title", "Hero"))
	h.run("notes", "create", "--title", "Taglines", "--brief", briefID)

	out := filepath.Join(t.TempDir(), "site")
	written, _ := dataMap(t, h.run("publish", "project", "--to", out))["written"].([]any)
	if len(written) != 2 {
		t.Fatalf("expected index + brief page; got %#v", written)
	}
	page, err := os.ReadFile(filepath.Join(out, "briefs", briefID+".md"))
	if err != nil {
		t.Fatalf("read brief page: %v", err)
	}
	if !strings.Contains(string(page), "### Taglines") {
		t.Fatalf("brief page missing linked note:\n%s", page)
	}

	if stderr := h.fail("publish", "brief", briefID, "--to", out); !strings.Contains(stderr, "--overwrite") {
		t.Fatalf("expected overwrite hint; got %q", stderr)
	}
	h.run("publish", "brief", briefID, "--to", out, "--overwrite")
}

func TestCLI_BackupAndRestore(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "sqlite")
	h.run("projects", "create", "--name", "Keep me")

	path := filepath.Join(t.TempDir(), "backup.jsonl")
	keys, _ := dataMap(t, h.run("backup", "create", "--to", path))["keys"].([]any)
	if len(keys) == 0 {
		t.Fatalf("expected backed up keys")
	}

	h.run("projects", "create", "--name", "Scratch")
	if stderr := h.fail("backup", "restore", "--from", path); !strings.Contains(stderr, "--yes") {
		t.Fatalf("expected confirmation error; got %q", stderr)
	}
	h.run("--yes", "backup", "restore", "--from", path)

	projects, _ := h.run("projects", "list")["data"].([]any)
	if len(projects) != 1 {
		t.Fatalf("expected restore to drop the scratch project; got %#v", projects)
	}
	if name := projects[0].(map[string]any)["name"]; name != "Keep me" {
		t.Fatalf("restored project = %v", name)
	}
}

// Package render draws brieflink views on a terminal.
package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"brieflink/internal/model"
	"brieflink/internal/ranker"
	"brieflink/internal/store"
	"brieflink/internal/worktrail"
)

const defaultWidth = 80

// Terminal implements the app Renderer and Notifier on an io.Writer.
type Terminal struct {
	Out   io.Writer
	Width int
	// Colors resolves link colors for notes, copy and tasks. Nil draws
	// only the briefs' own colors.
	Colors func(model.ItemRef) (string, bool)

	re *lipgloss.Renderer
}

type Option func(*Terminal)

// WithProfile forces a color profile (tests use termenv.Ascii).
func WithProfile(p termenv.Profile) Option {
	return func(t *Terminal) { t.re.SetColorProfile(p) }
}

func WithWidth(w int) Option {
	return func(t *Terminal) { t.Width = w }
}

func WithColors(fn func(model.ItemRef) (string, bool)) Option {
	return func(t *Terminal) { t.Colors = fn }
}

// NewTerminal detects the color profile of out; non-TTY writers get no color.
func NewTerminal(out io.Writer, opts ...Option) *Terminal {
	t := &Terminal{Out: out, Width: defaultWidth, re: lipgloss.NewRenderer(out)}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *Terminal) width() int {
	if t.Width <= 0 {
		return defaultWidth
	}
	return t.Width
}

func (t *Terminal) colorFor(ref model.ItemRef) string {
	if t.Colors == nil {
		return ""
	}
	c, _ := t.Colors(ref)
	return c
}

func (t *Terminal) row(prefix, title, suffix string) string {
	avail := t.width() - xansi.StringWidth(prefix) - xansi.StringWidth(suffix) - 1
	if avail < 8 {
		avail = 8
	}
	title = xansi.Truncate(title, avail, "…")
	if suffix == "" {
		return prefix + title
	}
	return prefix + title + " " + suffix
}

// ProjectView renders a project: briefs, notes, copy and tasks.
func (t *Terminal) ProjectView(p model.Project) string {
	var b strings.Builder
	b.WriteString(t.heading(p.ColorTheme).Render(p.Name))
	b.WriteString(t.muted().Render(fmt.Sprintf("  (%s, %s)", p.ID, p.ColorTheme)))
	b.WriteByte('\n')

	b.WriteString(t.section("Briefs", len(p.Briefs)))
	for _, br := range p.Briefs {
		b.WriteString(t.row("  "+t.swatch(br.LinkColor), br.Title, t.muted().Render(br.ID)))
		b.WriteByte('\n')
	}
	for _, typ := range []model.ItemType{model.ItemNote, model.ItemCopy} {
		items := store.SortedItems(&p, typ)
		b.WriteString(t.section(sectionTitle(typ), len(items)))
		for _, it := range items {
			ref := model.ItemRef{ProjectID: p.ID, ItemID: it.ID, Type: typ}
			b.WriteString(t.row("  "+t.swatch(t.colorFor(ref)), it.Title, t.muted().Render(it.ID)))
			b.WriteByte('\n')
		}
	}
	b.WriteString(t.section("Tasks", len(p.Tasks)))
	for _, task := range p.Tasks {
		ref := model.ItemRef{ProjectID: p.ID, ItemID: task.ID, Type: model.ItemTask}
		b.WriteString(t.taskRow(task, t.colorFor(ref), task.ID))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func sectionTitle(typ model.ItemType) string {
	switch typ {
	case model.ItemBrief:
		return "Briefs"
	case model.ItemNote:
		return "Notes"
	case model.ItemCopy:
		return "Copy"
	case model.ItemTask:
		return "Tasks"
	}
	return string(typ)
}

func (t *Terminal) section(name string, n int) string {
	return t.re.NewStyle().Bold(true).Render(name) + t.muted().Render(fmt.Sprintf(" %d", n)) + "\n"
}

func (t *Terminal) taskRow(task model.Task, color, suffix string) string {
	box := "[ ] "
	title := task.Title
	if task.Completed {
		box = "[x] "
		title = t.re.NewStyle().Foreground(colorDone).Strikethrough(true).Render(title)
	}
	return t.row("  "+t.swatch(color)+box, title, t.muted().Render(suffix))
}

// GlobalTasks renders the ranked cross-project task view.
func (t *Terminal) GlobalTasks(v ranker.View) string {
	var b strings.Builder
	b.WriteString(t.section("Top three", len(v.TopThree)))
	for i, tv := range v.TopThree {
		b.WriteString(t.globalRow(fmt.Sprintf("%d.", i+1), tv))
		b.WriteByte('\n')
	}
	b.WriteString(t.section("Other", len(v.Other)))
	for _, tv := range v.Other {
		b.WriteString(t.globalRow(" ", tv))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (t *Terminal) globalRow(rank string, tv ranker.TaskView) string {
	project := t.re.NewStyle().Foreground(accent(tv.ProjectTheme)).Render(tv.ProjectName)
	return rank + t.taskRow(tv.Task, tv.LinkColor, tv.UniqueID) + "  " + project
}

// Breadcrumbs renders the trail oldest first.
func (t *Terminal) Breadcrumbs(trail []model.Breadcrumb) string {
	if len(trail) == 0 {
		return t.muted().Render("(no breadcrumbs)")
	}
	sep := t.muted().Render(" › ")
	parts := make([]string, 0, len(trail))
	for i, c := range trail {
		title := xansi.Truncate(c.Title, 24, "…")
		if i == len(trail)-1 {
			title = t.re.NewStyle().Bold(true).Render(title)
		}
		parts = append(parts, title)
	}
	return xansi.Truncate(strings.Join(parts, sep), t.width(), "…")
}

// Content renders an item body: markdown for plain text, stripped markup
// for rich text.
func (t *Terminal) Content(body string, isRichText bool) string {
	if isRichText {
		return worktrail.PlainText(body, true)
	}
	style := "dark"
	if t.re.ColorProfile() == termenv.Ascii {
		style = "notty"
	}
	return Markdown(body, t.width(), style)
}

func (t *Terminal) RenderProjectView(_ context.Context, p model.Project) {
	fmt.Fprintln(t.Out, t.ProjectView(p))
}

func (t *Terminal) RenderGlobalTasks(_ context.Context, v ranker.View) {
	fmt.Fprintln(t.Out, t.GlobalTasks(v))
}

func (t *Terminal) RenderBreadcrumbs(_ context.Context, trail []model.Breadcrumb) {
	fmt.Fprintln(t.Out, t.Breadcrumbs(trail))
}

// Notify prints a one-line toast.
func (t *Terminal) Notify(_ context.Context, message string) {
	fmt.Fprintln(t.Out, t.re.NewStyle().Italic(true).Foreground(colorMuted).Render("» "+message))
}

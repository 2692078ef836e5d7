// Package prompt asks the user to approve destructive actions.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrNeedsConfirmation is returned when a prompt cannot be shown.
var ErrNeedsConfirmation = errors.New("confirmation required: re-run with --yes")

type KeyMap struct {
	Yes    key.Binding
	No     key.Binding
	Toggle key.Binding
	Submit key.Binding
	Cancel key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		No:     key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "no")),
		Toggle: key.NewBinding(key.WithKeys("tab", "left", "right", "h", "l"), key.WithHelp("tab", "focus")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c", "ctrl+g"), key.WithHelp("esc", "cancel")),
	}
}

// confirmModel is a two-button dialog. Focus starts on Cancel.
type confirmModel struct {
	title   string
	message string
	keys    KeyMap

	focusConfirm bool
	answered     bool
	answer       bool
}

func newConfirmModel(title, message string) confirmModel {
	return confirmModel{title: title, message: message, keys: DefaultKeyMap()}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, m.keys.Yes):
		return m.finish(true)
	case key.Matches(km, m.keys.No), key.Matches(km, m.keys.Cancel):
		return m.finish(false)
	case key.Matches(km, m.keys.Toggle):
		m.focusConfirm = !m.focusConfirm
	case key.Matches(km, m.keys.Submit):
		return m.finish(m.focusConfirm)
	}
	return m, nil
}

func (m confirmModel) finish(answer bool) (tea.Model, tea.Cmd) {
	m.answered = true
	m.answer = answer
	return m, tea.Quit
}

func (m confirmModel) View() string {
	if m.answered {
		return ""
	}
	btn := lipgloss.NewStyle().Padding(0, 1)
	active := btn.Bold(true).Reverse(true)
	confirm, cancel := btn.Render("Delete"), active.Render("Cancel")
	if m.focusConfirm {
		confirm, cancel = active.Render("Delete"), btn.Render("Cancel")
	}
	help := lipgloss.NewStyle().Faint(true).Render("y/n   tab: focus   enter: select   esc: cancel")
	return strings.Join([]string{
		lipgloss.NewStyle().Bold(true).Render(m.title),
		m.message,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel),
		help,
	}, "\n") + "\n"
}

// Terminal shows an interactive confirm dialog.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

func (t Terminal) Confirm(ctx context.Context, title, message string) (bool, error) {
	p := tea.NewProgram(newConfirmModel(title, message),
		tea.WithContext(ctx),
		tea.WithInput(t.In),
		tea.WithOutput(t.Out),
	)
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("confirm prompt: %w", err)
	}
	m, ok := final.(confirmModel)
	return ok && m.answered && m.answer, nil
}

// Static answers every prompt the same way without asking.
type Static struct {
	Answer bool
}

func (s Static) Confirm(context.Context, string, string) (bool, error) { return s.Answer, nil }

// Unattended fails every prompt; used when stdin is not a terminal.
type Unattended struct{}

func (Unattended) Confirm(context.Context, string, string) (bool, error) {
	return false, ErrNeedsConfirmation
}

// Package tui renders the todo list in the terminal and forwards user
// intents to client.State.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nambuntu/sdd-speckit-todoapp/internal/client"
	"github.com/nambuntu/sdd-speckit-todoapp/internal/todo"
)

type focus int

const (
	focusForm focus = iota
	focusList
)

// stateChangedMsg is sent after any call into client.State returns.
type stateChangedMsg struct{}

type Model struct {
	ctx   context.Context
	state *client.State

	keys    keyMap
	help    help.Model
	input   textinput.Model
	spinner spinner.Model

	focus  focus
	cursor int
	width  int
}

func New(ctx context.Context, state *client.State) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Enter a new todo..."
	ti.CharLimit = todo.MaxTitleLength
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	return Model{
		ctx:     ctx,
		state:   state,
		keys:    defaultKeyMap(),
		help:    help.New(),
		input:   ti,
		spinner: sp,
		focus:   focusForm,
	}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, state *client.State, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, state), opts...).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textinput.Blink, m.loadCmd())
}

// ===== commands =====

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		m.state.Load(m.ctx)
		return stateChangedMsg{}
	}
}

func (m Model) addCmd(title string) tea.Cmd {
	return func() tea.Msg {
		m.state.Add(m.ctx, title)
		return stateChangedMsg{}
	}
}

func (m Model) toggleCmd(id string) tea.Cmd {
	return func() tea.Msg {
		m.state.Toggle(m.ctx, id)
		return stateChangedMsg{}
	}
}

func (m Model) removeCmd(id string) tea.Cmd {
	return func() tea.Msg {
		m.state.Remove(m.ctx, id)
		return stateChangedMsg{}
	}
}

// ===== update =====

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case stateChangedMsg:
		m.clampCursor(len(m.state.Snapshot().Todos))
		return m, nil

	case spinner.TickMsg:
		if !m.state.Snapshot().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == focusForm {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if key.Matches(msg, m.keys.Focus) {
		return m.switchFocus(), nil
	}

	if m.focus == focusForm {
		if key.Matches(msg, m.keys.Submit) {
			return m.submit()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	snap := m.state.Snapshot()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(snap.Todos)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selected(snap); ok {
			return m, m.toggleCmd(t.ID)
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(snap); ok {
			return m, m.removeCmd(t.ID)
		}
	}
	return m, nil
}

// submit ignores blank input and anything typed while the list is loading.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.state.Snapshot().Loading {
		return m, nil
	}
	title := m.input.Value()
	if strings.TrimSpace(title) == "" {
		return m, nil
	}
	m.input.Reset()
	return m, m.addCmd(title)
}

func (m Model) switchFocus() Model {
	if m.focus == focusForm {
		m.focus = focusList
		m.input.Blur()
	} else {
		m.focus = focusForm
		m.input.Focus()
	}
	return m
}

func (m Model) selected(snap client.Snapshot) (todo.Todo, bool) {
	if m.cursor < 0 || m.cursor >= len(snap.Todos) {
		return todo.Todo{}, false
	}
	return snap.Todos[m.cursor], true
}

func (m *Model) clampCursor(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// ===== view =====

func (m Model) View() string {
	snap := m.state.Snapshot()

	var b strings.Builder
	b.WriteString(m.header(snap))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.listView(snap))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m Model) header(snap client.Snapshot) string {
	done := 0
	for _, t := range snap.Todos {
		if t.Completed {
			done++
		}
	}
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("📝 My Todo List"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), len(snap.Todos)-done,
		accentStyle.Render("Total"), len(snap.Todos),
	)
}

func (m Model) listView(snap client.Snapshot) string {
	if snap.Loading {
		return m.spinner.View() + " Loading..."
	}
	if snap.Error != "" {
		return errorStyle.Render("Error: " + snap.Error)
	}
	if len(snap.Todos) == 0 {
		return emptyStyle.Render("No todos yet. Add one to get started!")
	}

	lines := make([]string, 0, len(snap.Todos))
	for i, t := range snap.Todos {
		lines = append(lines, m.itemView(t, m.focus == focusList && i == m.cursor))
	}
	return listBorderStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) itemView(t todo.Todo, selected bool) string {
	box := mutedStyle.Render(boxUnchecked)
	title := t.Title
	if t.Completed {
		box = successStyle.Render(boxChecked)
		title = doneStyle.Render(title)
	}

	prefix := "  "
	line := fmt.Sprintf("%s %s", box, title)
	if selected {
		prefix = selectedStyle.Render("> ")
		line += "  " + deleteStyle.Render("d Delete")
	}
	return prefix + line
}

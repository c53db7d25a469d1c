// Package tui implements the interactive full-screen mode: a login/register
// form and a task list with add, edit, toggle, delete, and sort.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/session"
	"taskdeck/internal/workspace"
)

// Run starts the interactive program and blocks until the user quits.
func Run(ctx context.Context, ws *workspace.Workspace) error {
	p := tea.NewProgram(newModel(ctx, ws), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type view int

const (
	viewAuth view = iota
	viewTasks
)

// Auth form field order.
const (
	fieldName = iota
	fieldUsername
	fieldPassword
)

type model struct {
	ctx context.Context
	ws  *workspace.Workspace

	view         view
	registerMode bool
	authInputs   [3]textinput.Model
	authFocus    int

	cursor  int
	adding  bool
	editing bool
	title   textinput.Model
	desc    textinput.Model

	width int
}

// restoredMsg carries the startup session-restore result.
type restoredMsg struct {
	state session.State
}

// opDoneMsg signals that a workspace operation finished; the model re-reads
// workspace state on receipt.
type opDoneMsg struct{}

func newModel(ctx context.Context, ws *workspace.Workspace) model {
	m := model{ctx: ctx, ws: ws}

	name := textinput.New()
	name.Placeholder = "name"
	username := textinput.New()
	username.Placeholder = "username"
	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	m.authInputs = [3]textinput.Model{name, username, password}
	m.authFocus = fieldUsername
	m.authInputs[fieldUsername].Focus()

	m.title = textinput.New()
	m.title.Placeholder = "title"
	m.desc = textinput.New()
	m.desc.Placeholder = "description (optional)"

	return m
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return restoredMsg{state: m.ws.Restore(m.ctx)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case restoredMsg:
		if msg.state == session.Authenticated {
			m.view = viewTasks
		}
		return m, nil

	case opDoneMsg:
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if m.view == viewAuth {
			return m.updateAuth(msg)
		}
		return m.updateTasks(msg)
	}

	return m, nil
}

func (m model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "tab", "shift+tab", "up", "down":
		m.authFocus = nextAuthField(m.authFocus, m.registerMode, msg.String() != "shift+tab" && msg.String() != "up")
		for i := range m.authInputs {
			if i == m.authFocus {
				m.authInputs[i].Focus()
			} else {
				m.authInputs[i].Blur()
			}
		}
		return m, nil

	case "ctrl+r":
		// Switch between login and register; a visible error is stale now.
		m.registerMode = !m.registerMode
		m.ws.ClearErr()
		if !m.registerMode && m.authFocus == fieldName {
			m.authFocus = fieldUsername
			m.authInputs[fieldName].Blur()
			m.authInputs[fieldUsername].Focus()
		}
		return m, nil

	case "enter":
		return m, m.submitAuth()
	}

	var cmd tea.Cmd
	m.authInputs[m.authFocus], cmd = m.authInputs[m.authFocus].Update(msg)
	return m, cmd
}

func (m *model) submitAuth() tea.Cmd {
	name := m.authInputs[fieldName].Value()
	username := m.authInputs[fieldUsername].Value()
	password := m.authInputs[fieldPassword].Value()
	register := m.registerMode

	return func() tea.Msg {
		var err error
		if register {
			err = m.ws.Register(m.ctx, name, username, password)
		} else {
			err = m.ws.Login(m.ctx, username, password)
		}
		if err != nil {
			return opDoneMsg{}
		}
		return restoredMsg{state: session.Authenticated}
	}
}

func (m model) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.adding || m.editing {
		return m.updateTaskForm(msg)
	}

	tasks := m.ws.Tasks()

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(tasks)-1 {
			m.cursor++
		}
		return m, nil

	case "a":
		m.adding = true
		m.title.SetValue("")
		m.desc.SetValue("")
		m.title.Focus()
		m.desc.Blur()
		return m, nil

	case "e":
		if m.cursor < len(tasks) && m.ws.BeginEdit(tasks[m.cursor].ID) {
			draft, _ := m.ws.Draft()
			m.editing = true
			m.title.SetValue(draft.Title)
			m.desc.SetValue(draft.Description)
			m.title.Focus()
			m.desc.Blur()
		}
		return m, nil

	case " ", "x":
		if m.cursor < len(tasks) {
			id := tasks[m.cursor].ID
			return m, m.op(func() error { return m.ws.Toggle(m.ctx, id) })
		}
		return m, nil

	case "d":
		if m.cursor < len(tasks) {
			id := tasks[m.cursor].ID
			return m, m.op(func() error { return m.ws.Delete(m.ctx, id) })
		}
		return m, nil

	case "s":
		m.ws.SortByDate()
		return m, nil

	case "r":
		return m, m.op(func() error { return m.ws.Load(m.ctx) })

	case "L":
		m.ws.Logout()
		m.view = viewAuth
		m.cursor = 0
		m.authInputs[fieldPassword].SetValue("")
		return m, nil
	}

	return m, nil
}

func (m model) updateTaskForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.editing {
			m.ws.CancelEdit()
		}
		m.adding = false
		m.editing = false
		return m, nil

	case "tab", "shift+tab":
		if m.title.Focused() {
			m.title.Blur()
			m.desc.Focus()
		} else {
			m.desc.Blur()
			m.title.Focus()
		}
		return m, nil

	case "enter":
		title := m.title.Value()
		desc := m.desc.Value()
		if m.editing {
			m.ws.UpdateDraft(title, desc)
			m.editing = false
			return m, m.op(func() error { return m.ws.SaveEdit(m.ctx) })
		}
		m.adding = false
		return m, m.op(func() error { return m.ws.Add(m.ctx, title, desc) })
	}

	var cmd tea.Cmd
	if m.title.Focused() {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.desc, cmd = m.desc.Update(msg)
	}
	return m, cmd
}

// op runs a workspace operation off the update loop.
func (m model) op(fn func() error) tea.Cmd {
	return func() tea.Msg {
		_ = fn()
		return opDoneMsg{}
	}
}

func (m *model) clampCursor() {
	if n := len(m.ws.Tasks()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// nextAuthField cycles focus over the visible form fields.
// The name field only exists in register mode.
func nextAuthField(current int, registerMode, forward bool) int {
	first := fieldUsername
	if registerMode {
		first = fieldName
	}
	if forward {
		if current >= fieldPassword {
			return first
		}
		return current + 1
	}
	if current <= first {
		return fieldPassword
	}
	return current - 1
}

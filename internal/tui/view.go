package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(0, 1)
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	descStyle     = lipgloss.NewStyle().Faint(true).PaddingLeft(6)
	helpStyle     = lipgloss.NewStyle().Faint(true).PaddingTop(1)
	labelStyle    = lipgloss.NewStyle().Faint(true)
)

func (m model) View() string {
	if m.view == viewAuth {
		return m.viewAuthForm()
	}
	return m.viewTaskList()
}

func (m model) viewAuthForm() string {
	var b strings.Builder

	title := "Login"
	if m.registerMode {
		title = "Register"
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n\n")

	if msg := m.ws.Err(); msg != "" {
		b.WriteString(errorStyle.Render(msg))
		b.WriteString("\n\n")
	}

	if m.registerMode {
		b.WriteString(labelStyle.Render("Name"))
		b.WriteString("\n")
		b.WriteString(m.authInputs[fieldName].View())
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render("Username"))
	b.WriteString("\n")
	b.WriteString(m.authInputs[fieldUsername].View())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.authInputs[fieldPassword].View())
	b.WriteString("\n")

	if m.ws.Loading() {
		b.WriteString("\nProcessing...\n")
	}

	hint := "enter submit · tab next field · ctrl+r register · esc quit"
	if m.registerMode {
		hint = "enter submit · tab next field · ctrl+r login · esc quit"
	}
	b.WriteString(helpStyle.Render(hint))
	return b.String()
}

func (m model) viewTaskList() string {
	var b strings.Builder

	header := "My Todo List"
	if profile, ok := m.ws.Session().Profile(); ok {
		header = fmt.Sprintf("My Todo List - %s", profile.DisplayName())
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n\n")

	if msg := m.ws.Err(); msg != "" {
		b.WriteString(errorStyle.Render(msg))
		b.WriteString("\n\n")
	}

	if m.adding || m.editing {
		mode := "Add task"
		if m.editing {
			mode = "Edit task"
		}
		b.WriteString(labelStyle.Render(mode))
		b.WriteString("\n")
		b.WriteString(m.title.View())
		b.WriteString("\n")
		b.WriteString(m.desc.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter save · tab switch field · esc cancel"))
		return b.String()
	}

	tasks := m.ws.Tasks()
	if len(tasks) == 0 {
		b.WriteString(labelStyle.Render("No todos yet. Add some tasks with 'a'."))
		b.WriteString("\n")
	}

	for i, task := range tasks {
		mark := "[ ]"
		if task.Completed {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, task.Title)
		if task.Completed {
			line = doneStyle.Render(line)
		}
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
		if i == m.cursor && task.Description != "" {
			b.WriteString(descStyle.Render(task.Description))
			b.WriteString("\n")
		}
	}

	if m.ws.Loading() {
		b.WriteString("\nLoading...\n")
	}

	direction := "newest first"
	if m.ws.Ascending() {
		direction = "oldest first"
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf(
		"a add · e edit · space toggle · d delete · s sort (%s) · r reload · L logout · q quit",
		direction)))
	return b.String()
}

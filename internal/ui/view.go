package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"duetoday/internal/countdown"
)

// row renders one task. Completed rows have no countdown cell, and a
// pending row stays blank until its first tick. Only short cells are
// styled, as the table truncates cells without skipping escape codes.
func (m *Model) row(id string) table.Row {
	t, ok := m.app.Store.Get(id)
	if !ok {
		return table.Row{"", "", ""}
	}

	if t.Completed {
		return table.Row{"✔ " + t.Text, t.Deadline, ""}
	}

	reading, ok := m.app.Scheduler.Reading(id)
	if !ok {
		return table.Row{t.Text, t.Deadline, ""}
	}
	if reading.Phase == countdown.Expired {
		return table.Row{t.Text, t.Deadline, expiredStyle.Render(reading.String())}
	}
	return table.Row{t.Text, t.Deadline, reading.String()}
}

func (m Model) View() string {
	if m.mode != modeBrowse {
		return m.formView()
	}

	header := headerStyle.Render("📝 duetoday")

	sections := []string{header, ""}
	names := [2]string{
		fmt.Sprintf("Pending (%d)", len(m.pending)),
		fmt.Sprintf("Completed (%d)", len(m.completed)),
	}
	for i, name := range names {
		if i == m.activeTable {
			sections = append(sections, activeTabStyle.Render(name))
		} else {
			sections = append(sections, tabStyle.Render(name))
		}
		sections = append(sections, m.tables[i].View(), "")
	}

	summaryLine := m.countsLine()
	if chart := m.app.Summary.Chart(); chart != nil {
		summaryLine += "\n" + chart.View(20)
	}
	sections = append(sections, summaryStyle.Render(summaryLine))

	if p := m.app.Notifier.Prompt(); p.Visible {
		body := p.Message + "\n" +
			keyStyle.Render("y") + ": " + actionStyle.Render("done") + " " + bulletStyle.Render("•") + " " +
			keyStyle.Render("n") + ": " + actionStyle.Render("not yet")
		sections = append(sections, promptStyle.Render(body))
	}

	commandRow := m.helpRow(
		m.keys.Up,
		m.keys.Switch,
		m.keys.Add,
		m.keys.Edit,
		m.keys.Delete,
		m.keys.Toggle,
		m.keys.Reload,
		m.keys.Quit,
	)
	if status := m.statusLine(); status != "" {
		commandRow += "\n> " + status
	}
	sections = append(sections, "", commandRow)

	return lipgloss.JoinVertical(lipgloss.Top, sections...)
}

func (m Model) formView() string {
	var labels []string
	var title string
	if m.mode == modeAdding {
		title = "➕ New Task"
		labels = []string{"Task:", "Deadline (HH:MM):"}
	} else {
		title = "✏️ Editing Task"
		labels = []string{"Task:"}
	}

	var fields []string
	for i, input := range m.inputs {
		fields = append(fields, labelStyle.Render(labels[i])+"\n"+input.View())
	}
	content := lipgloss.JoinVertical(lipgloss.Top, fields...)

	bindings := []key.Binding{m.keys.Submit, m.keys.Cancel}
	if m.mode == modeAdding {
		bindings = append([]key.Binding{m.keys.Next, m.keys.Previous}, bindings...)
	}

	return lipgloss.JoinVertical(lipgloss.Top,
		headerStyle.Render(title),
		"",
		content,
		"",
		m.helpRow(bindings...),
	)
}

func (m Model) helpRow(bindings ...key.Binding) string {
	commands := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		commands = append(commands, keyStyle.Render(h.Key)+": "+actionStyle.Render(h.Desc))
	}
	return strings.Join(commands, bulletStyle.Render(" • "))
}

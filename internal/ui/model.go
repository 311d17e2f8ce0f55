package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"duetoday/internal/countdown"
	"duetoday/internal/logger"
	"duetoday/internal/metrics"
	"duetoday/internal/model"
	"duetoday/internal/notify"
	"duetoday/internal/rollover"
	"duetoday/internal/storage"
	"duetoday/internal/store"
	"duetoday/internal/summary"
)

// App is the state shared by every component for the life of the program.
type App struct {
	Persistence *storage.Store
	Store       *store.Store
	Scheduler   *countdown.Scheduler
	Notifier    *notify.Notifier
	Summary     *summary.Aggregator
	Metrics     *metrics.Metrics
	Log         *slog.Logger
	Now         func() time.Time
}

type mode int

const (
	modeBrowse mode = iota
	modeAdding
	modeEditing
)

const (
	pendingTable = iota
	completedTable
)

type statusMsg struct {
	message string
	color   string
}

type Model struct {
	app *App

	// containers of task ids; a task's row lives in exactly one of them
	pending   []string
	completed []string

	tables      [2]table.Model
	activeTable int

	mode       mode
	inputs     []textinput.Model
	focusField int
	editingID  string

	keys         keyMap
	statusMsg    string
	statusColor  string
	statusExpiry time.Time
	width        int
	height       int

	initCmds []tea.Cmd
}

func showStatus(msg string, color string) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{message: msg, color: color}
	}
}

// New runs the startup sequence: rollover, hydrate, draw every row and arm
// a timer for each pending one.
func New(app *App) Model {
	if app.Now == nil {
		app.Now = time.Now
	}
	if app.Log == nil {
		app.Log = logger.Get()
	}

	m := Model{
		app:         app,
		keys:        defaultKeyMap(),
		statusColor: "86",
	}
	m.setupTables()
	m.initCmds = append(m.load(), app.Summary.Tick())
	return m
}

func (m *Model) setupTables() {
	columns := []table.Column{
		{Title: "Task", Width: 30},
		{Title: "Deadline", Width: 8},
		{Title: "Countdown", Width: 44},
	}
	for i := range m.tables {
		m.tables[i] = table.New(
			table.WithColumns(columns),
			table.WithHeight(8),
		)
	}

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color("86"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	for i := range m.tables {
		m.tables[i].SetStyles(s)
	}
	m.tables[m.activeTable].Focus()
}

func (m *Model) adjustLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	tableHeight := (m.height - 16) / 2
	if tableHeight < 3 {
		tableHeight = 3
	}
	taskWidth := m.width - 8 - 44 - 8
	if taskWidth < 16 {
		taskWidth = 16
	}

	for i := range m.tables {
		m.tables[i].SetHeight(tableHeight)
		m.tables[i].SetColumns([]table.Column{
			{Title: "Task", Width: taskWidth},
			{Title: "Deadline", Width: 8},
			{Title: "Countdown", Width: 44},
		})
	}
}

// load clears both containers and redraws them from storage, the same way
// the program starts.
func (m *Model) load() []tea.Cmd {
	m.app.Scheduler.CancelAll()
	m.pending = nil
	m.completed = nil

	rolled, err := rollover.Run(m.app.Persistence, m.app.Now(), m.app.Log)
	if err != nil {
		m.app.Log.Error("day rollover failed", "error", err)
	} else if rolled {
		m.app.Metrics.Rollovers.Inc()
	}

	m.app.Store.Hydrate()

	var cmds []tea.Cmd
	for _, t := range m.app.Store.Tasks() {
		m.placeRow(t.ID, t.Completed)
		if cmd := m.app.Scheduler.Arm(t); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	m.refreshRows()
	m.refreshSummary()
	return cmds
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.initCmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.statusMsg = msg.message
		m.statusColor = msg.color
		m.statusExpiry = m.app.Now().Add(3 * time.Second)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.adjustLayout()
		return m, nil

	case countdown.TickMsg:
		cmd := m.handleTick(msg)
		return m, cmd

	case summary.TickMsg:
		m.refreshSummary()
		return m, m.app.Summary.Tick()

	case tea.KeyMsg:
		m.app.Notifier.MarkInteraction()

		switch m.mode {
		case modeAdding:
			return m.handleAddingKeys(msg)
		case modeEditing:
			return m.handleEditingKeys(msg)
		}
		return m.handleBrowseKeys(msg)
	}

	if m.mode != modeBrowse && len(m.inputs) > 0 {
		var cmd tea.Cmd
		m.inputs[m.focusField], cmd = m.inputs[m.focusField].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleTick(msg countdown.TickMsg) tea.Cmd {
	out := m.app.Scheduler.Handle(msg)
	if out.Stale {
		return nil
	}

	if out.Alert {
		task, ok := m.app.Store.Get(out.ID)
		if ok {
			m.app.Log.Info("task expired", "id", task.ID, "text", task.Text)
			m.app.Notifier.Notify(task.ID, task.Text)
		}
	}

	m.refreshRows()
	return out.Next
}

func (m Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prompt := m.app.Notifier.Prompt()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.app.Scheduler.CancelAll()
		return m, tea.Quit

	case prompt.Visible && key.Matches(msg, m.keys.Confirm):
		cmd := m.confirmPrompt()
		return m, cmd

	case prompt.Visible && key.Matches(msg, m.keys.NotYet):
		m.app.Notifier.Dismiss()
		return m, nil

	case key.Matches(msg, m.keys.Switch):
		m.tables[m.activeTable].Blur()
		m.activeTable = (m.activeTable + 1) % len(m.tables)
		m.tables[m.activeTable].Focus()

	case key.Matches(msg, m.keys.Up, m.keys.Down):
		m.tables[m.activeTable], _ = m.tables[m.activeTable].Update(msg)

	case key.Matches(msg, m.keys.Add):
		cmd := m.startAdding()
		return m, cmd

	case key.Matches(msg, m.keys.Edit):
		if id, ok := m.selectedID(); ok {
			cmd := m.startEditing(id)
			return m, cmd
		}

	case key.Matches(msg, m.keys.Delete):
		if id, ok := m.selectedID(); ok {
			text := m.taskText(id)
			if err := m.remove(id); err != nil {
				return m, showStatus("⚠️ Could not save: "+err.Error(), "196")
			}
			return m, showStatus("🗑️ Deleted: "+text, "196")
		}

	case key.Matches(msg, m.keys.Toggle):
		if id, ok := m.selectedID(); ok {
			cmd := m.toggle(id)
			return m, cmd
		}

	case key.Matches(msg, m.keys.Reload):
		cmds := m.load()
		cmds = append(cmds, showStatus("🔄 Reloaded", "86"))
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) handleAddingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.stopInput()
		return m, showStatus("❌ Add cancelled", "196")

	case key.Matches(msg, m.keys.Submit):
		text := m.inputs[0].Value()
		deadline := m.inputs[1].Value()
		t, cmd, err := m.add(text, deadline)
		if errors.Is(err, store.ErrInvalidInput) {
			// stay in the form, nothing happens
			return m, nil
		}
		m.stopInput()
		if err != nil {
			return m, tea.Batch(cmd, showStatus("⚠️ Could not save: "+err.Error(), "196"))
		}
		return m, tea.Batch(cmd, showStatus("✅ Added: "+t.Text, "82"))

	case key.Matches(msg, m.keys.Next, m.keys.Previous):
		step := 1
		if key.Matches(msg, m.keys.Previous) {
			step = len(m.inputs) - 1
		}
		m.inputs[m.focusField].Blur()
		m.focusField = (m.focusField + step) % len(m.inputs)
		cmd := m.inputs[m.focusField].Focus()
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focusField], cmd = m.inputs[m.focusField].Update(msg)
	return m, cmd
}

func (m Model) handleEditingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.stopInput()
		return m, showStatus("❌ Edit cancelled", "196")

	case key.Matches(msg, m.keys.Submit):
		id := m.editingID
		ok, err := m.edit(id, m.inputs[0].Value())
		m.stopInput()
		switch {
		case errors.Is(err, store.ErrInvalidInput), !ok && err == nil:
			return m, nil
		case err != nil:
			return m, showStatus("⚠️ Could not save: "+err.Error(), "196")
		}
		return m, showStatus("✅ Changes saved", "82")
	}

	var cmd tea.Cmd
	m.inputs[0], cmd = m.inputs[0].Update(msg)
	return m, cmd
}

func (m *Model) startAdding() tea.Cmd {
	m.mode = modeAdding
	m.focusField = 0

	text := textinput.New()
	text.Placeholder = "What needs doing?"
	text.CharLimit = 200

	deadline := textinput.New()
	deadline.Placeholder = "HH:MM"
	deadline.CharLimit = 5

	m.inputs = []textinput.Model{text, deadline}
	return m.inputs[0].Focus()
}

func (m *Model) startEditing(id string) tea.Cmd {
	m.mode = modeEditing
	m.editingID = id
	m.focusField = 0

	input := textinput.New()
	input.CharLimit = 200
	input.SetValue(m.taskText(id))
	m.inputs = []textinput.Model{input}
	return m.inputs[0].Focus()
}

func (m *Model) stopInput() {
	m.mode = modeBrowse
	m.inputs = nil
	m.focusField = 0
	m.editingID = ""
}

// add creates, persists and draws a new pending task and arms its timer.
func (m *Model) add(text, deadline string) (model.Task, tea.Cmd, error) {
	t, err := m.app.Store.Create(text, deadline)
	if err != nil {
		return t, nil, err
	}
	saveErr := m.app.Store.Add(t)

	m.placeRow(t.ID, false)
	cmd := m.app.Scheduler.Arm(t)
	m.refreshRows()
	m.refreshSummary()
	m.app.Log.Debug("task added", "id", t.ID, "deadline", t.Deadline)
	return t, cmd, saveErr
}

// toggle is the single completion path for the row control and the prompt.
func (m *Model) toggle(id string) tea.Cmd {
	t, ok, err := m.app.Store.Toggle(id)
	if !ok {
		return nil
	}

	m.app.Scheduler.Cancel(id)
	var cmd tea.Cmd
	if t.Completed {
		m.placeRow(id, true)
	} else {
		m.placeRow(id, false)
		cmd = m.app.Scheduler.Arm(t)
	}
	m.refreshRows()
	m.refreshSummary()

	if err != nil {
		return tea.Batch(cmd, showStatus("⚠️ Could not save: "+err.Error(), "196"))
	}
	if t.Completed {
		return tea.Batch(cmd, showStatus("✅ Done: "+t.Text, "82"))
	}
	return tea.Batch(cmd, showStatus("↩️ Back to pending: "+t.Text, "226"))
}

func (m *Model) edit(id, text string) (bool, error) {
	ok, err := m.app.Store.Edit(id, text)
	m.refreshRows()
	m.refreshSummary()
	return ok, err
}

func (m *Model) remove(id string) error {
	m.app.Scheduler.Cancel(id)
	err := m.app.Store.Remove(id)
	m.dropRow(id)
	m.refreshRows()
	m.refreshSummary()
	return err
}

// confirmPrompt marks the prompted task done through toggle. A task that is
// already completed or gone is left alone.
func (m *Model) confirmPrompt() tea.Cmd {
	id, ok := m.app.Notifier.Confirm()
	m.refreshSummary()
	if !ok {
		return nil
	}
	t, found := m.app.Store.Get(id)
	if !found || t.Completed {
		return nil
	}
	return m.toggle(id)
}

func (m *Model) placeRow(id string, completed bool) {
	m.dropRow(id)
	if completed {
		m.completed = append(m.completed, id)
	} else {
		m.pending = append(m.pending, id)
	}
}

func (m *Model) dropRow(id string) {
	m.pending = without(m.pending, id)
	m.completed = without(m.completed, id)
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (m *Model) container(i int) []string {
	if i == completedTable {
		return m.completed
	}
	return m.pending
}

func (m *Model) selectedID() (string, bool) {
	ids := m.container(m.activeTable)
	cursor := m.tables[m.activeTable].Cursor()
	if cursor < 0 || cursor >= len(ids) {
		return "", false
	}
	return ids[cursor], true
}

func (m *Model) taskText(id string) string {
	t, ok := m.app.Store.Get(id)
	if !ok {
		return ""
	}
	return t.Text
}

func (m *Model) refreshSummary() {
	m.app.Summary.Update(len(m.pending), len(m.completed))
}

func (m *Model) refreshRows() {
	for i := range m.tables {
		ids := m.container(i)
		rows := make([]table.Row, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, m.row(id))
		}
		m.tables[i].SetRows(rows)
		if c := m.tables[i].Cursor(); c >= len(rows) && len(rows) > 0 {
			m.tables[i].SetCursor(len(rows) - 1)
		}
	}
}

func (m *Model) statusLine() string {
	if m.statusMsg == "" || !m.app.Now().Before(m.statusExpiry) {
		return ""
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(m.statusColor)).Render(m.statusMsg)
}

func (m *Model) countsLine() string {
	c := m.app.Summary.Counts()
	return fmt.Sprintf("Pending: %d  Completed: %d  Total: %d", c.Pending, c.Completed, c.Total)
}

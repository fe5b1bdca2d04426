// Package tasklist renders the task board: a filterable list of the
// tasks visible to the current principal.
package tasklist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gestora/gestora/internal/i18n"
	"github.com/gestora/gestora/internal/keys"
	"github.com/gestora/gestora/internal/model"
	"github.com/gestora/gestora/internal/store"
	"github.com/gestora/gestora/internal/theme"
	"github.com/gestora/gestora/internal/workflow"
)

// TasksLoadedMsg is sent when the list content has been recomputed
// from the store.
type TasksLoadedMsg struct {
	Tasks []model.Task
}

// SelectedTaskMsg is sent when a user selects a task to view details.
type SelectedTaskMsg struct {
	TaskID string
}

// Model is the task list view component.
type Model struct {
	list        list.Model
	tasks       *store.TaskStore
	keys        *keys.KeyMap
	tr          *i18n.Translator
	filter      store.TaskFilter
	statusIndex int
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new task list model. inFlight lets the renderer mark
// tasks with a pending operation.
func New(s *store.TaskStore, k *keys.KeyMap, tr *i18n.Translator, inFlight func(string) bool, width, height int) Model {
	delegate := TaskDelegate{tr: tr, inFlight: inFlight}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = tr.T("app.tasks")
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = tr.T("app.tasks") + "..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		tasks:       s,
		keys:        k,
		tr:          tr,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the initial set of tasks.
func (m Model) Init() tea.Cmd {
	return m.LoadTasks()
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		items := make([]list.Item, len(msg.Tasks))
		for i, task := range msg.Tasks {
			items[i] = TaskItem{Task: task}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.filter.Query = m.searchInput.Value()
		return m, m.LoadTasks()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.filter.Query = ""
		return m, m.LoadTasks()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedTaskMsg{TaskID: item.Task.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleStatus):
		m.cycleStatusFilter()
		return m, m.LoadTasks()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// cycleStatusFilter steps through all → each canonical status → all.
func (m *Model) cycleStatusFilter() {
	m.statusIndex = (m.statusIndex + 1) % (len(workflow.Order) + 1)
	if m.statusIndex == 0 {
		m.filter.Status = ""
	} else {
		m.filter.Status = workflow.Order[m.statusIndex-1]
	}
}

// Searching reports whether the search input has focus. While true the
// parent must not intercept letter keys.
func (m Model) Searching() bool {
	return m.searchMode
}

// SelectedTask returns the task under the cursor.
func (m Model) SelectedTask() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// FilterSummary describes the active filters for the status bar, or "".
func (m Model) FilterSummary() string {
	var parts []string
	if m.filter.Status != "" {
		parts = append(parts, m.tr.StatusLabel(m.filter.Status))
	}
	if m.filter.Query != "" {
		parts = append(parts, "\""+m.filter.Query+"\"")
	}
	if len(parts) == 0 {
		return ""
	}
	summary := parts[0]
	for _, p := range parts[1:] {
		summary += " · " + p
	}
	return summary
}

// View renders the task list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when no tasks are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.filter.Query != "" || m.filter.Status != "" {
		return style.Render("Sem tarefas para este filtro.\ntab/esc limpam o filtro.")
	}
	return style.Render("Sem tarefas atribuídas.")
}

// LoadTasks returns a tea.Cmd that recomputes the visible tasks from
// the store with the current filter.
func (m Model) LoadTasks() tea.Cmd {
	filter := m.filter
	s := m.tasks
	return func() tea.Msg {
		return TasksLoadedMsg{Tasks: s.Filtered(filter)}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}

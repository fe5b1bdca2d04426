// Package dashboard renders the status overview cards and the
// per-employee compliance report.
package dashboard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gestora/gestora/internal/i18n"
	"github.com/gestora/gestora/internal/model"
	"github.com/gestora/gestora/internal/session"
	"github.com/gestora/gestora/internal/store"
	"github.com/gestora/gestora/internal/theme"
)

// Model is the dashboard view component.
type Model struct {
	tasks  *store.TaskStore
	users  *store.UserStore
	sess   *session.Manager
	tr     *i18n.Translator
	width  int
	height int
}

// New creates a new dashboard model.
func New(tasks *store.TaskStore, users *store.UserStore, sess *session.Manager, tr *i18n.Translator, width, height int) Model {
	return Model{
		tasks:  tasks,
		users:  users,
		sess:   sess,
		tr:     tr,
		width:  width,
		height: height,
	}
}

// Update handles messages for the dashboard. The view is read-only;
// navigation is handled by the application model.
func (m Model) Update(tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	sections := []string{m.renderCards()}
	if m.sess.IsAdmin() {
		sections = append(sections, m.renderReport())
	}
	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderCards draws one stat card per canonical status plus the total.
func (m Model) renderCards() string {
	stats := m.tasks.Stats()

	type card struct {
		label string
		count int
		style lipgloss.Style
	}
	cards := []card{
		{"Total", stats.Total, lipgloss.NewStyle().Foreground(theme.ColorWhite)},
		{m.tr.StatusLabel(model.StatusPending), stats.Pending, theme.StatusStyle(model.StatusPending)},
		{m.tr.StatusLabel(model.StatusInProgress), stats.InProgress, theme.StatusStyle(model.StatusInProgress)},
		{m.tr.StatusLabel(model.StatusOverdue), stats.Overdue, theme.StatusStyle(model.StatusOverdue)},
		{m.tr.StatusLabel(model.StatusFinished), stats.Finished, theme.StatusStyle(model.StatusFinished)},
		{m.tr.StatusLabel(model.StatusClosed), stats.Closed, theme.StatusStyle(model.StatusClosed)},
	}

	countStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	rendered := make([]string, len(cards))
	for i, c := range cards {
		body := lipgloss.JoinVertical(
			lipgloss.Center,
			countStyle.Render(fmt.Sprintf("%d", c.count)),
			c.style.Render(c.label),
		)
		rendered[i] = theme.CardStyle.Render(body)
	}

	// Wrap rows when the terminal is narrow.
	perRow := len(rendered)
	if m.width > 0 {
		cardWidth := lipgloss.Width(rendered[0])
		if cardWidth > 0 && m.width/cardWidth < perRow {
			perRow = m.width / cardWidth
			if perRow < 1 {
				perRow = 1
			}
		}
	}

	var rows []string
	for start := 0; start < len(rendered); start += perRow {
		end := start + perRow
		if end > len(rendered) {
			end = len(rendered)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered[start:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderReport draws the per-employee compliance table.
func (m Model) renderReport() string {
	reports := m.tasks.ReportByEmployee(m.users.Sorted())
	if len(reports) == 0 {
		return ""
	}

	headStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGray)
	nameWidth := 24

	var b strings.Builder
	b.WriteString(headStyle.Render(fmt.Sprintf(
		"%-*s %7s %10s %10s %8s",
		nameWidth, "Colaborador", "Total", "Concluídas", "Atrasadas", "Taxa")))
	b.WriteString("\n")
	for _, r := range reports {
		name := r.User.Name
		if lipgloss.Width(name) > nameWidth {
			name = name[:nameWidth-1] + "…"
		}
		line := fmt.Sprintf("%-*s %7d %10d %10d %7d%%",
			nameWidth, name, r.Total, r.Completed, r.Overdue, r.ComplianceRate)
		if r.Overdue > 0 {
			line = theme.ErrorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return theme.PanelStyle.Render(b.String())
}

// SetSize updates the dashboard dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

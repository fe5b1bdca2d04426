// Package detail renders a single task with its comments and the
// status transition controls.
package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gestora/gestora/internal/i18n"
	"github.com/gestora/gestora/internal/keys"
	"github.com/gestora/gestora/internal/model"
	"github.com/gestora/gestora/internal/session"
	"github.com/gestora/gestora/internal/theme"
	"github.com/gestora/gestora/internal/workflow"
)

// BackMsg is sent when the user leaves the detail view.
type BackMsg struct{}

// AdvanceMsg asks for a forward status transition on the shown task.
type AdvanceMsg struct {
	TaskID string
}

// RegressMsg asks for a backward status transition on the shown task.
type RegressMsg struct {
	TaskID string
}

// CommentMsg carries a submitted comment.
type CommentMsg struct {
	TaskID string
	Text   string
}

// Model is the task detail view component.
type Model struct {
	viewport     viewport.Model
	task         model.Task
	sess         *session.Manager
	keys         *keys.KeyMap
	tr           *i18n.Translator
	commentMode  bool
	commentInput textinput.Model
	width        int
	height       int
}

// New creates a new detail model.
func New(sess *session.Manager, k *keys.KeyMap, tr *i18n.Translator, width, height int) Model {
	vp := viewport.New(width, height-2)

	ci := textinput.New()
	ci.Prompt = "> "
	ci.Width = width - 4

	return Model{
		viewport:     vp,
		sess:         sess,
		keys:         k,
		tr:           tr,
		commentInput: ci,
		width:        width,
		height:       height,
	}
}

// SetTask installs the task to display and re-renders the content.
func (m *Model) SetTask(task model.Task) {
	m.task = task
	m.viewport.SetContent(m.renderTask())
}

// Typing reports whether the comment input has focus. While true the
// parent must not intercept letter keys.
func (m Model) Typing() bool {
	return m.commentMode
}

// TaskID returns the id of the task being shown.
func (m Model) TaskID() string {
	return m.task.ID
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.commentMode {
		return m.handleCommentKeys(keyMsg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.Back):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(keyMsg, m.keys.Advance):
		if m.sess.CanAdvance(m.task) {
			id := m.task.ID
			return m, func() tea.Msg { return AdvanceMsg{TaskID: id} }
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Regress):
		if m.sess.CanRegress(m.task) {
			id := m.task.ID
			return m, func() tea.Msg { return RegressMsg{TaskID: id} }
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Comment):
		if m.sess.CanComment(m.task) {
			m.commentMode = true
			m.commentInput.Reset()
			return m, m.commentInput.Focus()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(keyMsg)
	return m, cmd
}

// handleCommentKeys processes key input while typing a comment.
func (m Model) handleCommentKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(m.commentInput.Value())
		m.commentMode = false
		if text == "" {
			return m, nil
		}
		id := m.task.ID
		return m, func() tea.Msg { return CommentMsg{TaskID: id, Text: text} }

	case "esc":
		m.commentMode = false
		return m, nil
	}

	var cmd tea.Cmd
	m.commentInput, cmd = m.commentInput.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.commentMode {
		bar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.commentInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), bar)
	}
	return m.viewport.View()
}

// renderTask builds the scrollable task content.
func (m Model) renderTask() string {
	t := m.task

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	var b strings.Builder
	b.WriteString(titleStyle.Render(t.Title))
	b.WriteString("\n")
	b.WriteString(theme.StatusStyle(t.Status).Render(m.tr.StatusLabel(t.Status)))
	b.WriteString(" ")
	b.WriteString(theme.PriorityStyle(t.Priority).Render(m.tr.PriorityLabel(t.Priority)))
	b.WriteString("\n\n")

	if t.Description != "" {
		b.WriteString(t.Description)
		b.WriteString("\n\n")
	}

	writeField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(labelStyle.Render(label + ": "))
		b.WriteString(value)
		b.WriteString("\n")
	}

	responsible := t.ResponsibleName
	if responsible == "" {
		responsible = t.ResponsibleID
	}
	writeField("Responsável", responsible)
	if len(t.Intervenientes) > 0 {
		writeField("Intervenientes", strings.Join(t.Intervenientes, ", "))
	}
	writeField("Início", t.StartDate.Format("2006-01-02"))
	writeField("Entrega", t.DeliveryDate.Format("2006-01-02"))
	if t.DueDate != nil {
		writeField("Prazo", t.DueDate.Format("2006-01-02"))
	}
	writeField("Dias previstos", fmt.Sprintf("%d", t.DaysToFinish))
	writeField("Criada por", t.CreatedByName)

	if len(t.Comments) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Comentários"))
		b.WriteString("\n")
		for _, c := range t.Comments {
			author := c.UserName
			when := c.CreatedAt.Format("02 Jan 15:04")
			b.WriteString(labelStyle.Render(fmt.Sprintf("%s · %s", author, when)))
			b.WriteString("\n")
			b.WriteString(c.Text)
			b.WriteString("\n\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderTransitionHint())

	return theme.PanelStyle.Width(m.width - 2).Render(b.String())
}

// renderTransitionHint describes what the current principal may do
// with the task's status.
func (m Model) renderTransitionHint() string {
	var hints []string
	if m.sess.CanRegress(m.task) {
		if prev, ok := workflow.Prev(m.task.Status); ok {
			hints = append(hints, "- "+m.tr.StatusLabel(prev))
		}
	}
	if m.sess.CanAdvance(m.task) {
		if next, ok := workflow.Next(m.task.Status); ok {
			label := "+ " + m.tr.StatusLabel(next)
			// Leaving Finished is the admin validation step.
			if workflow.MapStatus(m.task.Status) == model.StatusFinished {
				label += " (validar)"
			}
			hints = append(hints, label)
		}
	}
	if m.sess.CanComment(m.task) {
		hints = append(hints, "c comentar")
	}
	if len(hints) == 0 {
		return theme.HelpStyle.Render(m.tr.T("task.no_transition"))
	}
	return theme.HelpStyle.Render(strings.Join(hints, "  |  "))
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.commentInput.Width = width - 4
	if m.task.ID != "" {
		m.viewport.SetContent(m.renderTask())
	}
}

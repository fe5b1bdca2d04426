// Package notifpanel renders the notification inbox and the recent
// activity trail.
package notifpanel

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gestora/gestora/internal/i18n"
	"github.com/gestora/gestora/internal/keys"
	"github.com/gestora/gestora/internal/model"
	"github.com/gestora/gestora/internal/store"
	gestorasync "github.com/gestora/gestora/internal/sync"
	"github.com/gestora/gestora/internal/theme"
)

// CloseMsg signals the parent to leave the notifications view.
type CloseMsg struct{}

// MarkedMsg reports the outcome of a mark-read action.
type MarkedMsg struct{ Err error }

// Model is the notifications view component.
type Model struct {
	service       *gestorasync.NotificationService
	notifications *store.NotificationStore
	activities    *gestorasync.ActivityLog
	keys          *keys.KeyMap
	tr            *i18n.Translator
	listing       []model.Notification
	selectedIdx   int
	statusMsg     string
	width         int
	height        int
}

// New creates a new notifications panel model.
func New(
	service *gestorasync.NotificationService,
	notifications *store.NotificationStore,
	activities *gestorasync.ActivityLog,
	k *keys.KeyMap,
	tr *i18n.Translator,
	width, height int,
) Model {
	return Model{
		service:       service,
		notifications: notifications,
		activities:    activities,
		keys:          k,
		tr:            tr,
		width:         width,
		height:        height,
	}
}

// Refresh re-reads the notification collection from the store.
func (m *Model) Refresh() {
	m.listing = m.notifications.Snapshot()
	if m.selectedIdx >= len(m.listing) && m.selectedIdx > 0 {
		m.selectedIdx = len(m.listing) - 1
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MarkedMsg:
		if msg.Err != nil {
			m.statusMsg = m.tr.T("notification.load_failed", msg.Err.Error())
		} else {
			m.statusMsg = ""
		}
		m.Refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.listing) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.listing)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.listing) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.listing) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.MarkRead):
		if len(m.listing) == 0 {
			return m, nil
		}
		id := m.listing[m.selectedIdx].ID
		svc := m.service
		return m, func() tea.Msg {
			return MarkedMsg{Err: svc.MarkRead(context.Background(), id)}
		}

	case key.Matches(msg, m.keys.MarkAllRead):
		svc := m.service
		return m, func() tea.Msg {
			return MarkedMsg{Err: svc.MarkAllRead(context.Background())}
		}
	}
	return m, nil
}

// View renders the notification list above the activity trail.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.tr.T("app.notifications")))
	b.WriteString("\n\n")
	b.WriteString(m.renderNotifications())
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Atividade recente"))
	b.WriteString("\n\n")
	b.WriteString(m.renderActivities())

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorStyle.Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render("m marcar lida | M marcar todas | esc voltar"))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Render(b.String())
}

func (m Model) renderNotifications() string {
	if len(m.listing) == 0 {
		return theme.DimmedStyle.Italic(true).Render("Sem notificações.") + "\n"
	}

	var b strings.Builder
	for i, n := range m.listing {
		marker := "●"
		if n.Read {
			marker = " "
		}
		when := n.CreatedAt.Format("02 Jan 15:04")
		line := fmt.Sprintf("%s %s  %s",
			theme.NotificationStyle(n.Type).Render(marker),
			theme.DimmedStyle.Render(when),
			n.Message)
		if n.Read {
			line = theme.DimmedStyle.Render(fmt.Sprintf("%s %s  %s", marker, when, n.Message))
		}

		if i == m.selectedIdx {
			b.WriteString(theme.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(theme.ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderActivities() string {
	entries := m.activities.Snapshot()
	if len(entries) == 0 {
		return theme.DimmedStyle.Italic(true).Render("Sem atividade registada.") + "\n"
	}

	shown := entries
	if len(shown) > 10 {
		shown = shown[:10]
	}

	var b strings.Builder
	for _, a := range shown {
		when := a.CreatedAt.Format("02 Jan 15:04")
		b.WriteString(theme.DimmedStyle.Render(when))
		b.WriteString("  ")
		b.WriteString(m.describeActivity(a))
		b.WriteString("\n")
	}
	return b.String()
}

// describeActivity renders one audit entry; status transitions show
// the from/to pair with the localized labels.
func (m Model) describeActivity(a model.Activity) string {
	if a.Type == model.ActivityStatusChanged && a.FromStatus != "" {
		return fmt.Sprintf("%s: %q %s → %s",
			a.UserName, a.TaskTitle,
			m.tr.StatusLabel(a.FromStatus), m.tr.StatusLabel(a.ToStatus))
	}
	if a.Description != "" {
		return a.Description
	}
	return fmt.Sprintf("%s: %s", a.UserName, a.Type)
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
